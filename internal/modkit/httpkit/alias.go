// Package httpkit provides handler and routing helpers that alias the platform http package
// use these from modules so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "gitevents/internal/platform/net/http"
	"gitevents/internal/platform/net/http/bind"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is the HTTP response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// webhookBodyLimit bounds GitHub payloads, which GitHub itself caps at 25MB
// issue events are a few KB; anything near the cap is not for us
const webhookBodyLimit = 5 << 20

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Webhook binds a third party JSON body leniently: unknown fields are ignored, validation still runs
func Webhook[T any](fn func(*http.Request, T) (any, error)) Handler {
	return phttp.JSONHandlerWith(bind.JSONOptions{MaxBytes: webhookBodyLimit}, fn)
}

// Call adapts a handler that takes no JSON body
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.JSONHandlerNoBody(fn)
}

// Handle lets you directly adapt a Response-returning function if you prefer
func Handle(fn func(*http.Request) Response) Handler {
	return phttp.Handle(fn)
}

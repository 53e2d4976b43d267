package httpkit

import (
	"net/http"
)

// PostWebhook mounts a lenient JSON handler under POST for third party deliveries
func PostWebhook[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, Webhook(h))
}

// Get mounts a body-less handler under GET and wraps its result in the envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

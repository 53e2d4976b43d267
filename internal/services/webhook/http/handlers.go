// Package http provides http transport for the webhook
package http

import (
	stdhttp "net/http"
	"strings"

	"gitevents/internal/modkit/httpkit"
	"gitevents/internal/services/webhook/domain"
)

// EventHeader names the GitHub event type of a delivery
const EventHeader = "X-GitHub-Event"

// Register mounts the delivery endpoint
// ping and non-issues deliveries are answered before the body is bound
func Register(r httpkit.Router, d domain.Dispatcher) {
	h := &handlers{d: d}
	r.Group(func(g httpkit.Router) {
		g.Use(events)
		httpkit.PostWebhook(g, "/github", h.issue)
	})
}

type handlers struct {
	d domain.Dispatcher
}

var (
	pong    = httpkit.Handle(func(*stdhttp.Request) httpkit.Response { return httpkit.OK(domain.Result{Outcome: domain.OutcomePong}) })
	ignored = httpkit.Handle(func(*stdhttp.Request) httpkit.Response { return httpkit.OK(domain.Result{Outcome: domain.OutcomeIgnored}) })
)

// events routes a delivery on its event header; a missing header is treated as issues
func events(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		switch strings.ToLower(strings.TrimSpace(r.Header.Get(EventHeader))) {
		case "", "issues":
			next.ServeHTTP(w, r)
		case "ping":
			pong(w, r)
		default:
			ignored(w, r)
		}
	})
}

// swagger:route POST /webhook/github Webhook github
// @Summary Receive a GitHub delivery
// @Tags webhook
// @Accept json
// @Produce json
// @Param X-GitHub-Event header string false "event type; ping and issues are handled"
// @Param payload body domain.Payload true "issues delivery"
// @Success 200 {object} domain.Result "ok"
// @Failure 401 {object} httpkit.Envelope "bad signature"
// @Failure 404 {object} httpkit.Envelope "no such proposal"
// @Failure 409 {object} httpkit.Envelope "record file changed concurrently"
// @Failure 413 {object} httpkit.Envelope "body too large"
// @Router /webhook/github [post]
func (h *handlers) issue(r *stdhttp.Request, p domain.Payload) (any, error) {
	return h.d.Dispatch(r.Context(), p)
}

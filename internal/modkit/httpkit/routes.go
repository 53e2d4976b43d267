package httpkit

import "net/http"

// MountUnder opens a subrouter at prefix, applies mw to everything under it, then calls mount
// modules mount through this so their middleware (e.g. the webhook signature) stays scoped to their prefix
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

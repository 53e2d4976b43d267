package modkit

import (
	"net/http"

	str "gitevents/internal/platform/strings"
)

// Built is the resolved name, prefix and middleware of a module
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// Build starts from the module's own name and prefix and applies opts in order
// the result has a non-blank name and a normalized prefix; Build panics otherwise
func Build(name, prefix string, opts ...Option) Built {
	b := Built{Name: name, Prefix: prefix}
	for _, o := range opts {
		o(&b)
	}
	b.Name = str.MustString(b.Name, "module name")
	b.Prefix = str.MustPrefix(b.Prefix)
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

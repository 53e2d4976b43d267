// Package module holds the module contract and the helpers for reaching another module's ports
package module

import phttp "gitevents/internal/platform/net/http"

// Module is something api.Mount can mount and register
type Module interface {
	// Name keys the port registry
	Name() string
	MountRoutes(r phttp.Router)
	// Ports is the module's exported collaborators, usually a struct of interfaces
	Ports() any
}

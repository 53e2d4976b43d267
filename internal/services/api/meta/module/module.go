// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"gitevents/internal/core/version"
	modkit "gitevents/internal/modkit"
	"gitevents/internal/modkit/httpkit"
	"gitevents/internal/modkit/module"

	metahttp "gitevents/internal/services/api/meta/http"
	webhookmod "gitevents/internal/services/webhook/module"
)

// Module serves health, readiness and version under /meta
type Module struct {
	built modkit.Built
	deps  metahttp.Deps
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return &Module{
		built: modkit.Build("meta", "/meta", opts...),
		deps: metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   time.Now(),
			GitHub:      deps.Store,
			Webhook:     webhookMounted,
		},
	}
}

// webhookMounted looks the webhook up in the port registry filled by api.Mount
func webhookMounted() bool {
	p, ok := module.PortsAs[webhookmod.Ports](webhookmod.Name)
	return ok && p.Dispatcher != nil
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.built.Prefix, m.built.Mw, func(sub httpkit.Router) {
		metahttp.Register(sub, m.deps)
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.built.Name }

// Ports implements modkit.Module; meta exports nothing
func (m *Module) Ports() any { return nil }

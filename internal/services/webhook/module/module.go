// Package module wires the webhook into the API using modkit
package module

import (
	modkit "gitevents/internal/modkit"
	"gitevents/internal/modkit/httpkit"

	"gitevents/internal/services/webhook/domain"
	whttp "gitevents/internal/services/webhook/http"
	"gitevents/internal/services/webhook/service"
)

// Name is the module and registry name
const Name = "webhook"

// Ports is what the webhook exposes to other modules and to the replay CLI
type Ports struct {
	Dispatcher domain.Dispatcher
}

// Module serves GitHub deliveries under /webhook
type Module struct {
	built modkit.Built
	ports Ports
}

// New constructs the webhook module from config; it panics when the service cannot be built
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return NewWith(deps, FromConfig(deps.Cfg), opts...)
}

// NewWith constructs the webhook module from explicit options
// the signature check is the first middleware since it must see the raw body
func NewWith(deps modkit.Deps, o Options, opts ...modkit.Option) modkit.Module {
	opts = append([]modkit.Option{modkit.WithMiddlewares(httpkit.Signature(o.Secret))}, opts...)
	b := modkit.Build(Name, "/webhook", opts...)

	svc, err := service.New(service.Options{
		Store:  deps.Store,
		Users:  deps.Users,
		Parser: deps.Parser,
		Labels: o.Labels,
	})
	if err != nil {
		panic("webhook module: " + err.Error())
	}
	return &Module{built: b, ports: Ports{Dispatcher: svc}}
}

// MountRoutes mounts POST {prefix}/github behind the module middleware
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.built.Prefix, m.built.Mw, func(sub httpkit.Router) {
		whttp.Register(sub, m.ports.Dispatcher)
	})
}

// Name returns the registry name
func (m *Module) Name() string { return m.built.Name }

// Ports returns the dispatcher port
func (m *Module) Ports() any { return m.ports }

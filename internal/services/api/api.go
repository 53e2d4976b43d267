// Package api provides the HTTP API for the application
package api

import (
	"gitevents/internal/platform/config"
	"gitevents/internal/platform/logger"
	"gitevents/internal/platform/metrics"
	phttp "gitevents/internal/platform/net/http"

	"gitevents/internal/modkit"
	"gitevents/internal/modkit/httpkit"
	"gitevents/internal/modkit/module"

	metamod "gitevents/internal/services/api/meta/module"
	"gitevents/internal/services/webhook/domain"
	webhookmod "gitevents/internal/services/webhook/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Logger *logger.Logger

	// collaborators handed to every module
	Store  domain.ContentStore
	Users  domain.UserDirectory
	Parser domain.Parser

	Webhook        webhookmod.Options
	EnableMetrics  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:    opt.Config,
		Store:  opt.Store,
		Users:  opt.Users,
		Parser: opt.Parser,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	mods := []module.Module{
		metamod.New(deps),
		webhookmod.NewWith(deps, opt.Webhook),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
		if opt.EnableMetrics {
			r.Handle("/metrics", metrics.Handler())
		}

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}

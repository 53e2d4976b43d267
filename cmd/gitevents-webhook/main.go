// @title         gitevents webhook
// @version       0.1.0
// @description   Receives GitHub issue deliveries and reconciles proposal and event records

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gitevents/internal/adapters/markdown"
	"gitevents/internal/core/version"
	"gitevents/internal/platform/config"
	"gitevents/internal/platform/logger"
	phttp "gitevents/internal/platform/net/http"

	"gitevents/internal/services/api"
	webhookmod "gitevents/internal/services/webhook/module"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early, stamped with the build
	bi := version.Info()
	lo := logger.FromEnv()
	lo.Fields = map[string]string{"version": bi.Version, "commit": bi.Commit}
	logger.Init(lo)
	l := logger.Get()

	// the data repository is mandatory; everything else has a default
	root.Prefix("GITEVENTS_").Require("GH_OWNER", "GH_REPO")
	wo := webhookmod.FromConfig(root)

	gh, err := webhookmod.NewGitHubStore(wo)
	if err != nil {
		l.Panic().Err(err).Msg("github store init failed")
	}
	if wo.TokensCSV == "" {
		l.Warn().Str("repo", gh.Repo()).Msg("no GitHub token configured; writes will be rejected")
	}
	if wo.Secret == "" {
		l.Warn().Msg("webhook secret empty; signature verification disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Logger:         l,
			Store:          gh,
			Users:          gh,
			Parser:         markdown.New(),
			Webhook:        wo,
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("shutdown complete")
}

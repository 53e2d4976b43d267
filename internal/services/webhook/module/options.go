package module

import (
	"time"

	"gitevents/internal/adapters/github"
	"gitevents/internal/platform/config"
	"gitevents/internal/services/webhook/service"
)

// Options controls webhook behavior and the GitHub store settings
type Options struct {
	Labels service.Labels
	Secret string // HMAC key for X-Hub-Signature-256; empty disables the check

	// GitHub data repository
	Owner   string
	Repo    string
	Branch  string
	DataDir string

	// GitHub client
	TokensCSV  string
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// FromConfig reads GITEVENTS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	gc := cfg.Prefix("GITEVENTS_")
	tokens := gc.MayString("GH_TOKENS", "")
	if tokens == "" {
		tokens = gc.MayString("GH_TOKEN", "")
	}
	return Options{
		Labels: service.Labels{
			Proposal: gc.MayString("LABEL_PROPOSAL", "proposal"),
			Talk:     gc.MayString("LABEL_TALK", "talk"),
			Job:      gc.MayString("LABEL_JOB", "job"),
		},
		Secret:     gc.MayString("WEBHOOK_SECRET", ""),
		Owner:      gc.MayString("GH_OWNER", ""),
		Repo:       gc.MayString("GH_REPO", ""),
		Branch:     gc.MayString("GH_BRANCH", ""),
		DataDir:    gc.MayString("DATA_DIR", ""),
		TokensCSV:  tokens,
		BaseURL:    gc.MayURL("GH_BASE_URL", ""),
		UserAgent:  gc.MayString("GH_UA", "gitevents-webhook"),
		Timeout:    gc.MayDuration("GH_TIMEOUT", 10*time.Second),
		MaxRetries: gc.MayInt("GH_MAX_RETRIES", 3),
		RetryBase:  gc.MayDuration("GH_RETRY_BASE", 500*time.Millisecond),
	}
}

// NewGitHubStore builds the contents API store the options point at
func NewGitHubStore(o Options) (*github.Store, error) {
	c := github.NewClient(github.Options{
		BaseURL:    o.BaseURL,
		UserAgent:  o.UserAgent,
		Timeout:    o.Timeout,
		TokensCSV:  o.TokensCSV,
		MaxRetries: o.MaxRetries,
		RetryBase:  o.RetryBase,
	})
	return github.NewStore(c, github.StoreOptions{
		Owner:  o.Owner,
		Repo:   o.Repo,
		Branch: o.Branch,
		Dir:    o.DataDir,
	})
}

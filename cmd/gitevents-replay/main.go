// Command gitevents-replay feeds a saved GitHub delivery through the webhook dispatcher
// with -dry-run it works against an in-memory copy of the data files and never touches GitHub
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gitevents/internal/adapters/markdown"
	"gitevents/internal/adapters/memstore"
	"gitevents/internal/modkit"
	"gitevents/internal/modkit/module"
	"gitevents/internal/platform/config"
	perr "gitevents/internal/platform/errors"
	"gitevents/internal/platform/logger"
	"gitevents/internal/platform/net/http/bind"

	"gitevents/internal/services/webhook/domain"
	webhookmod "gitevents/internal/services/webhook/module"
)

const maxPayload = 5 << 20

// seam for tests that stop short of the GitHub API
var newGitHubStore = webhookmod.NewGitHubStore

func main() {
	// stdout carries the result; logs go to stderr
	lo := logger.FromEnv()
	lo.Writer = os.Stderr
	logger.Init(lo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		logger.Get().Error().Err(err).Int("status", perr.HTTPStatus(err)).Bool("retryable", perr.Retryable(err)).Msg("replay failed")
		os.Exit(1)
	}
}

type flags struct {
	payload string
	event   string
	dryRun  bool
	data    string
	out     string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("gitevents-replay", flag.ContinueOnError)
	fs.StringVar(&f.payload, "payload", "-", "delivery JSON file, - reads stdin")
	fs.StringVar(&f.event, "event", "issues", "X-GitHub-Event value of the delivery")
	fs.BoolVar(&f.dryRun, "dry-run", false, "dispatch against an in-memory store instead of GitHub")
	fs.StringVar(&f.data, "data", "", "directory of *.json data files seeding the in-memory store (with -dry-run)")
	fs.StringVar(&f.out, "out", "", "directory the in-memory store is written to after dispatch (with -dry-run)")
	if err := fs.Parse(args); err != nil {
		return f, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "bad flags")
	}
	if !f.dryRun && (f.data != "" || f.out != "") {
		return f, perr.New(perr.ErrorCodeInvalidArgument, "-data and -out need -dry-run")
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	l := logger.Named("replay")

	switch strings.ToLower(strings.TrimSpace(f.event)) {
	case "", "issues":
	case "ping":
		return printResult(stdout, domain.Result{Outcome: domain.OutcomePong})
	default:
		l.Info().Str("event", f.event).Msg("event type not handled")
		return printResult(stdout, domain.Result{Outcome: domain.OutcomeIgnored})
	}

	p, err := readPayload(f.payload, stdin)
	if err != nil {
		return err
	}

	root := config.New()
	wo := webhookmod.FromConfig(root)

	deps := modkit.Deps{Log: *l, Cfg: root, Parser: markdown.New()}
	var mem *memstore.Store
	if f.dryRun {
		mem = memstore.New()
		if f.data != "" {
			n, err := mem.LoadDir(f.data)
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "load %s", f.data)
			}
			l.Info().Int("files", n).Str("dir", f.data).Msg("seeded in-memory store")
		}
		deps.Store, deps.Users = mem, mem
	} else {
		if miss := root.Prefix("GITEVENTS_").Missing("GH_OWNER", "GH_REPO"); len(miss) > 0 {
			return perr.Newf(perr.ErrorCodeValidation, "missing env: %s", strings.Join(miss, ", "))
		}
		gh, err := newGitHubStore(wo)
		if err != nil {
			return err
		}
		deps.Store, deps.Users = gh, gh
		l.Info().Str("repo", gh.Repo()).Msg("replaying against GitHub")
	}

	m := webhookmod.NewWith(deps, wo)
	d := module.MustPortsOf[domain.Dispatcher](m)

	res, dispatchErr := d.Dispatch(ctx, p)
	if dispatchErr != nil && res.Outcome == "" {
		return dispatchErr
	}
	if err := printResult(stdout, res); err != nil {
		return err
	}

	if mem != nil && f.out != "" {
		if err := writeOut(mem, f.out); err != nil {
			return err
		}
		l.Info().Str("dir", f.out).Int("commits", len(mem.Commits())).Msg("wrote in-memory store")
	}
	// a partial talk promotion still prints what was written before failing
	return dispatchErr
}

func readPayload(name string, stdin io.Reader) (domain.Payload, error) {
	var rd io.Reader = stdin
	if name != "-" {
		fh, err := os.Open(name)
		if err != nil {
			return domain.Payload{}, perr.Wrapf(err, perr.ErrorCodeNotFound, "open payload %s", name)
		}
		defer fh.Close()
		rd = fh
	}
	return bind.Decode[domain.Payload](rd, bind.JSONOptions{MaxBytes: maxPayload})
}

func printResult(w io.Writer, res domain.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write result")
	}
	return nil
}

func writeOut(mem *memstore.Store, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "mkdir %s", dir)
	}
	for _, p := range mem.Paths() {
		b, _ := mem.Body(p)
		dst := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "mkdir %s", filepath.Dir(dst))
		}
		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "write %s", dst)
		}
	}
	return nil
}

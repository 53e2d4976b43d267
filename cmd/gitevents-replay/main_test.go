package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitevents/internal/adapters/github"
	perr "gitevents/internal/platform/errors"
	"gitevents/internal/platform/testkit"
	"gitevents/internal/services/webhook/domain"
	webhookmod "gitevents/internal/services/webhook/module"
)

const delivery = `{
  "action": "labeled",
  "label": {"name": %q},
  "issue": {
    "id": 42,
    "number": 3,
    "title": "Go at the edge",
    "body": "---\nlevel: 2\ntags: go, edge\n---\nA talk about **Go**.",
    "created_at": "2024-03-01T09:00:00Z",
    "milestone": {"id": 7, "title": "June", "description": "18:30;Main Hall;1 Street", "due_on": "2024-06-01T00:00:00Z"}
  },
  "sender": {"login": "alice"}
}`

func writePayload(t *testing.T, label string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "delivery.json")
	body := strings.Replace(delivery, "%q", `"`+label+`"`, 1)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func decodeResult(t *testing.T, b []byte) domain.Result {
	t.Helper()
	var res domain.Result
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, b)
	}
	return res
}

func TestRun_DryRunProposalThenTalk(t *testing.T) {
	out := t.TempDir()

	var stdout bytes.Buffer
	err := run(t.Context(), []string{"-dry-run", "-payload", writePayload(t, "proposal"), "-out", out}, nil, &stdout)
	if err != nil {
		t.Fatalf("proposal replay: %v", err)
	}
	if res := decodeResult(t, stdout.Bytes()); res.Outcome != domain.OutcomeProposal {
		t.Fatalf("outcome = %q", res.Outcome)
	}
	if _, err := os.Stat(filepath.Join(out, "proposals.json")); err != nil {
		t.Fatalf("proposals.json not written: %v", err)
	}

	// feed the written data back in and promote
	promoted := t.TempDir()
	stdout.Reset()
	err = run(t.Context(), []string{"-dry-run", "-data", out, "-out", promoted, "-payload", writePayload(t, "talk")}, nil, &stdout)
	if err != nil {
		t.Fatalf("talk replay: %v", err)
	}
	res := decodeResult(t, stdout.Bytes())
	if res.Outcome != domain.OutcomeTalk || res.Event == nil {
		t.Fatalf("result = %+v", res)
	}
	events, _ := filepath.Glob(filepath.Join(promoted, "events-*.json"))
	if len(events) != 1 {
		t.Fatalf("events files = %v", events)
	}
	b, err := os.ReadFile(filepath.Join(promoted, "proposals.json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "Go at the edge") {
		t.Fatalf("proposal not removed:\n%s", b)
	}
}

func TestRun_PayloadFromStdin(t *testing.T) {
	in := strings.Replace(delivery, "%q", `"job"`, 1)
	var stdout bytes.Buffer
	if err := run(t.Context(), []string{"-dry-run"}, strings.NewReader(in), &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}
	if res := decodeResult(t, stdout.Bytes()); res.Outcome != domain.OutcomeJob {
		t.Fatalf("outcome = %q", res.Outcome)
	}
}

func TestRun_EventTypes(t *testing.T) {
	cases := []struct {
		event string
		want  domain.Outcome
	}{
		{"ping", domain.OutcomePong},
		{"Ping", domain.OutcomePong},
		{"pull_request", domain.OutcomeIgnored},
	}
	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			var stdout bytes.Buffer
			// no payload is read for these, stdin is nil
			if err := run(t.Context(), []string{"-event", tc.event}, nil, &stdout); err != nil {
				t.Fatalf("run: %v", err)
			}
			if res := decodeResult(t, stdout.Bytes()); res.Outcome != tc.want {
				t.Fatalf("outcome = %q want %q", res.Outcome, tc.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	t.Setenv("GITEVENTS_GH_OWNER", "")
	t.Setenv("GITEVENTS_GH_REPO", "")

	cases := []struct {
		name  string
		args  []string
		stdin string
		code  perr.ErrorCode
	}{
		{"data needs dry run", []string{"-data", "x"}, "", perr.ErrorCodeInvalidArgument},
		{"unknown flag", []string{"-nope"}, "", perr.ErrorCodeInvalidArgument},
		{"missing file", []string{"-dry-run", "-payload", filepath.Join(t.TempDir(), "none.json")}, "", perr.ErrorCodeNotFound},
		{"empty stdin", []string{"-dry-run"}, "", perr.ErrorCodeJSON},
		{"labeled without label", []string{"-dry-run"}, `{"action":"labeled"}`, perr.ErrorCodeValidation},
		{"unsupported action", []string{"-dry-run"}, `{"action":"closed"}`, perr.ErrorCodeInvalidArgument},
		{"no repo configured", []string{}, `{"action":"opened"}`, perr.ErrorCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout bytes.Buffer
			err := run(t.Context(), tc.args, strings.NewReader(tc.stdin), &stdout)
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("want code %v, got %v (%v)", tc.code, perr.CodeOf(err), err)
			}
		})
	}
}

func TestRun_LiveStoreFromConfig(t *testing.T) {
	t.Setenv("GITEVENTS_GH_OWNER", "acme")
	t.Setenv("GITEVENTS_GH_REPO", "data")
	t.Setenv("GITEVENTS_DATA_DIR", "records")

	var got webhookmod.Options
	testkit.Swap(t, &newGitHubStore, func(o webhookmod.Options) (*github.Store, error) {
		got = o
		return nil, perr.New(perr.ErrorCodeUnavailable, "offline")
	})

	err := run(t.Context(), nil, strings.NewReader(`{"action":"opened"}`), &bytes.Buffer{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want store error, got %v", err)
	}
	if got.Owner != "acme" || got.Repo != "data" || got.DataDir != "records" {
		t.Fatalf("options = %+v", got)
	}
}

package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"gitevents/internal/adapters/markdown"
	"gitevents/internal/adapters/memstore"
	"gitevents/internal/core/records"
	phttp "gitevents/internal/platform/net/http"
	"gitevents/internal/services/webhook/domain"
	"gitevents/internal/services/webhook/service"
)

type fakeDispatcher struct {
	got []domain.Payload
	res domain.Result
	err error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, p domain.Payload) (domain.Result, error) {
	f.got = append(f.got, p)
	return f.res, f.err
}

type envelope struct {
	StatusCode int           `json:"status_code"`
	Code       int           `json:"code"`
	Error      string        `json:"error"`
	Data       domain.Result `json:"data"`
}

func serve(t *testing.T, d domain.Dispatcher, event, body string) (int, envelope) {
	t.Helper()
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), d)

	req := httptest.NewRequest(stdhttp.MethodPost, "/github", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if event != "" {
		req.Header.Set(EventHeader, event)
	}
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, req)

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, rr.Body.String())
	}
	return rr.Code, env
}

func TestGitHub_EventTypes(t *testing.T) {
	cases := []struct {
		name  string
		event string
		body  string
		want  domain.Outcome
	}{
		{"ping", "ping", `{"zen":"Keep it logically awesome.","hook_id":1}`, domain.OutcomePong},
		{"push ignored", "push", `{"ref":"refs/heads/main"}`, domain.OutcomeIgnored},
		{"case insensitive", "PING", `{}`, domain.OutcomePong},
		{"ping body not bound", "ping", `not json`, domain.OutcomePong},
		{"ignored body not bound", "pull_request", `{"action":`, domain.OutcomeIgnored},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &fakeDispatcher{}
			code, env := serve(t, d, tc.event, tc.body)
			if code != stdhttp.StatusOK || env.Data.Outcome != tc.want {
				t.Fatalf("code=%d env=%+v", code, env)
			}
			if len(d.got) != 0 {
				t.Fatal("dispatcher called for a non-issues event")
			}
		})
	}
}

func TestGitHub_IssuesDispatches(t *testing.T) {
	d := &fakeDispatcher{res: domain.Result{Outcome: domain.OutcomeNoop}}
	body := `{"action":"labeled","label":{"name":"talk","color":"fff"},"issue":{"id":42,"number":3,"title":"T","created_at":"2024-03-01T00:00:00Z"},"sender":{"login":"alice","type":"User"},"installation":{"id":1}}`

	code, env := serve(t, d, "issues", body)
	if code != stdhttp.StatusOK || env.Data.Outcome != domain.OutcomeNoop {
		t.Fatalf("code=%d env=%+v", code, env)
	}
	if len(d.got) != 1 {
		t.Fatalf("dispatch calls = %d", len(d.got))
	}
	p := d.got[0]
	if p.Action != "labeled" || p.LabelName() != "talk" || p.Issue.ID != 42 || p.Sender.Login != "alice" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestGitHub_RejectsInvalidPayloads(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing action", `{"issue":{"id":1}}`},
		{"labeled without label", `{"action":"labeled"}`},
		{"bad login", `{"action":"opened","sender":{"login":"-nope-"}}`},
		{"not json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &fakeDispatcher{}
			code, _ := serve(t, d, "issues", tc.body)
			if code != stdhttp.StatusBadRequest {
				t.Fatalf("code = %d, want 400", code)
			}
			if len(d.got) != 0 {
				t.Fatal("dispatcher called for an invalid payload")
			}
		})
	}
}

func TestGitHub_ErrorStatuses(t *testing.T) {
	st := memstore.New()
	svc, err := service.New(service.Options{
		Store:  st,
		Users:  st,
		Parser: markdown.New(),
		Labels: service.Labels{Proposal: "proposal", Talk: "talk"},
	})
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"unsupported action", `{"action":"closed"}`, stdhttp.StatusUnprocessableEntity},
		{"unknown proposal", `{"action":"labeled","label":{"name":"talk"},"issue":{"id":404}}`, stdhttp.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := serve(t, svc, "issues", tc.body)
			if code != tc.want || env.StatusCode != tc.want || env.Error == "" {
				t.Fatalf("code=%d env=%+v", code, env)
			}
		})
	}
}

func TestGitHub_ProposalEndToEnd(t *testing.T) {
	st := memstore.New()
	svc, err := service.New(service.Options{
		Store:  st,
		Users:  st,
		Parser: markdown.New(),
		Labels: service.Labels{Proposal: "proposal", Talk: "talk"},
	})
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	body := `{"action":"labeled","label":{"name":"proposal"},"issue":{"id":42,"title":"Talk A","body":"Hello"},"sender":{"login":"alice"}}`

	code, env := serve(t, svc, "", body)
	if code != stdhttp.StatusOK || env.Data.Outcome != domain.OutcomeProposal || env.Data.Record == nil {
		t.Fatalf("code=%d env=%+v", code, env)
	}
	if env.Data.Record.Speaker.GitHub != "alice" || len(env.Data.Files) != 1 {
		t.Fatalf("record = %+v files=%+v", env.Data.Record, env.Data.Files)
	}
	if _, ok := st.Body(records.ProposalsFile); !ok {
		t.Fatal("proposals.json not written")
	}
}

func TestGitHub_PostOnly(t *testing.T) {
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), &fakeDispatcher{})

	req := httptest.NewRequest(stdhttp.MethodGet, "/github", nil)
	req.Header.Set(EventHeader, "ping")
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, req)
	if rr.Code != stdhttp.StatusMethodNotAllowed {
		t.Fatalf("code = %d, want 405", rr.Code)
	}
}

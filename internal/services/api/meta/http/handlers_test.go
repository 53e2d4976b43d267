package http

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "gitevents/internal/platform/net/http"
)

type pinger struct{ err error }

func (p pinger) Ping(stdctx.Context) error { return p.err }

func getData[T any](t *testing.T, d Deps, path string) T {
	t.Helper()
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), d)
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("%s: code=%d", path, rr.Code)
	}
	var env struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return env.Data
}

func TestReady_Checks(t *testing.T) {
	mounted := func() bool { return true }
	missing := func() bool { return false }

	cases := []struct {
		name    string
		gh      any
		webhook func() bool
		overall string
		github  string
		hook    string
	}{
		{"reachable", pinger{}, mounted, "ok", "ok", "ok"},
		{"github failing", pinger{err: errors.New("401")}, mounted, "fail", "fail", "ok"},
		{"in-memory store", struct{}{}, mounted, "degraded", "unknown", "ok"},
		{"no store", nil, mounted, "degraded", "skipped", "ok"},
		{"dispatcher missing", pinger{}, missing, "fail", "ok", "fail"},
		{"no registry", pinger{}, nil, "degraded", "ok", "skipped"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := getData[ReadyResponse](t, Deps{GitHub: tc.gh, Webhook: tc.webhook}, "/ready")
			if got.Status != tc.overall || len(got.Checks) != 2 {
				t.Fatalf("ready = %+v", got)
			}
			if got.Checks[0].Name != "github" || got.Checks[0].Status != tc.github {
				t.Fatalf("github check = %+v", got.Checks[0])
			}
			if got.Checks[1].Name != "webhook" || got.Checks[1].Status != tc.hook {
				t.Fatalf("webhook check = %+v", got.Checks[1])
			}
		})
	}
}

func TestHealthAndService(t *testing.T) {
	d := Deps{ServiceName: "gitevents-webhook", StartedAt: time.Now().Add(-time.Minute)}
	h := getData[HealthResponse](t, d, "/health")
	if !h.OK || h.Service != "gitevents-webhook" {
		t.Fatalf("health = %+v", h)
	}
	s := getData[ServiceResponse](t, d, "/service")
	if s.Name != "gitevents-webhook" || s.Uptime < 59 {
		t.Fatalf("service = %+v", s)
	}
}

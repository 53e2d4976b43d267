package module

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"gitevents/internal/adapters/markdown"
	"gitevents/internal/adapters/memstore"
	"gitevents/internal/core/records"
	modkit "gitevents/internal/modkit"
	"gitevents/internal/modkit/module"
	"gitevents/internal/platform/config"
	phttp "gitevents/internal/platform/net/http"
	"gitevents/internal/platform/net/middleware"
	"gitevents/internal/platform/testkit"
	"gitevents/internal/services/webhook/service"
)

func testDeps() (modkit.Deps, *memstore.Store) {
	st := memstore.New()
	return modkit.Deps{Cfg: config.New(), Store: st, Users: st, Parser: markdown.New()}, st
}

func TestFromConfig_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("GITEVENTS_LABEL_TALK", "accepted")
	t.Setenv("GITEVENTS_GH_TOKEN", "single")
	t.Setenv("GITEVENTS_GH_MAX_RETRIES", "1")
	t.Setenv("GITEVENTS_DATA_DIR", "data")

	o := FromConfig(config.New())
	if o.Labels != (service.Labels{Proposal: "proposal", Talk: "accepted", Job: "job"}) {
		t.Fatalf("labels = %+v", o.Labels)
	}
	if o.TokensCSV != "single" || o.MaxRetries != 1 || o.DataDir != "data" {
		t.Fatalf("options = %+v", o)
	}
	if o.UserAgent != "gitevents-webhook" || o.Secret != "" {
		t.Fatalf("defaults = %+v", o)
	}

	t.Setenv("GITEVENTS_GH_TOKENS", "a,b")
	if got := FromConfig(config.New()).TokensCSV; got != "a,b" {
		t.Fatalf("GH_TOKENS should win, got %q", got)
	}
}

func TestNewGitHubStore_NeedsRepo(t *testing.T) {
	if _, err := NewGitHubStore(Options{Owner: "acme"}); err == nil {
		t.Fatal("expected an error without a repo")
	}
	s, err := NewGitHubStore(Options{Owner: "acme", Repo: "cfp"})
	if err != nil || s.Repo() != "acme/cfp" {
		t.Fatalf("store=%v err=%v", s, err)
	}
}

func TestNew_PanicsWithoutStore(t *testing.T) {
	testkit.MustPanic(t, func() { New(modkit.Deps{Cfg: config.New()}) })
}

func TestModule_PortsAndName(t *testing.T) {
	deps, _ := testDeps()
	m := New(deps)
	if m.Name() != "webhook" {
		t.Fatalf("name = %q", m.Name())
	}
	p := module.MustPortsOf[Ports](m)
	if p.Dispatcher == nil {
		t.Fatal("dispatcher port missing")
	}
}

func TestModule_SignedDelivery(t *testing.T) {
	deps, st := testDeps()
	o := FromConfig(deps.Cfg)
	o.Secret = "s3cret"
	m := NewWith(deps, o)

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	body := `{"action":"labeled","label":{"name":"proposal"},"issue":{"id":42,"title":"T","body":"b"},"sender":{"login":"alice"}}`
	post := func(sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-GitHub-Event", "issues")
		if sig != "" {
			req.Header.Set(middleware.SignatureHeader, sig)
		}
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		return rr
	}

	if rr := post("sha256=" + strings.Repeat("0", 64)); rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad signature: code=%d body=%s", rr.Code, rr.Body.String())
	}
	if _, ok := st.Body(records.ProposalsFile); ok {
		t.Fatal("unsigned delivery reached the store")
	}

	good := "sha256=" + hex.EncodeToString(middleware.Sign([]byte("s3cret"), []byte(body)))
	rr := post(good)
	if rr.Code != http.StatusOK {
		t.Fatalf("good signature: code=%d body=%s", rr.Code, rr.Body.String())
	}
	testkit.MustContain(t, rr.Body.String(), `"outcome":"proposal_recorded"`)
}

func TestModule_PrefixOption(t *testing.T) {
	deps, _ := testDeps()
	m := NewWith(deps, FromConfig(deps.Cfg), modkit.WithPrefix("gh/"), modkit.WithName("hooks"))
	if m.Name() != "hooks" {
		t.Fatalf("name = %q", m.Name())
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	for path, want := range map[string]int{"/gh/github": http.StatusOK, "/webhook/github": http.StatusNotFound} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set("X-GitHub-Event", "ping")
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("POST %s => %d, want %d", path, rr.Code, want)
		}
	}
}

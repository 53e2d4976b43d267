package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gitevents/internal/platform/net/middleware"

	"github.com/go-chi/chi/v5"
)

func TestAccessLogZerolog_PassThroughStatusAndBody(t *testing.T) {
	mw := middleware.AccessLogZerolog(middleware.AccessLogOptions{}) // no slow marking

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201 got %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Fatalf("expected body ok got %q", rr.Body.String())
	}
}

func TestAccessLogZerolog_SlowMarkDoesNotAffectResponse(t *testing.T) {
	mw := middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: time.Nanosecond})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Microsecond)
		_, _ = io.WriteString(w, "slow")
	})

	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rr.Code)
	}
	if rr.Body.String() != "slow" {
		t.Fatalf("expected body slow got %q", rr.Body.String())
	}
}

func TestAccessLogZerolog_WritesCountedBytes(t *testing.T) {
	mw := middleware.AccessLogZerolog(middleware.AccessLogOptions{})

	// write twice to ensure byte capture wraps Write
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hi"))
		_, _ = w.Write([]byte("there"))
	})

	req := httptest.NewRequest(http.MethodGet, "/bytes", nil)
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if rr.Body.String() != "hithere" {
		t.Fatalf("expected concatenated body got %q", rr.Body.String())
	}
}

func TestAccessLogZerolog_ObserveGetsRoutePattern(t *testing.T) {
	var gotMethod, gotRoute string
	var gotStatus int
	mw := middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Observe: func(method, route string, status int, _ time.Duration) {
			gotMethod, gotRoute, gotStatus = method, route, status
		},
	})

	r := chi.NewRouter()
	r.Use(mw)
	r.Post("/webhook/{source}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhook/github", nil))

	if gotMethod != http.MethodPost || gotStatus != http.StatusAccepted {
		t.Fatalf("observe got %s %d", gotMethod, gotStatus)
	}
	if gotRoute != "/webhook/{source}" {
		t.Fatalf("expected route pattern, got %q", gotRoute)
	}
}

func TestAccessLogZerolog_ObserveUnmatchedOutsideChi(t *testing.T) {
	var gotRoute string
	mw := middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Observe: func(_, route string, _ int, _ time.Duration) { gotRoute = route },
	})
	mw(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	if gotRoute != "unmatched" {
		t.Fatalf("route = %q", gotRoute)
	}
}

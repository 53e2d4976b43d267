package httpkit

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// mkReq builds an *http.Request with an optional body
func mkReq(t *testing.T, method string, body io.Reader) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, "http://x.test/webhook/github", body)
	if err != nil {
		t.Fatalf("mkReq: %v", err)
	}
	return req
}

// run executes a Handler and returns status code and body
func run(h Handler, r *http.Request) (int, string) {
	rec := httptest.NewRecorder()
	h(rec, r)
	res := rec.Result()
	defer func() { _ = res.Body.Close() }()

	b, _ := io.ReadAll(res.Body)
	return rec.Code, string(b)
}

func TestHandle_PassThrough(t *testing.T) {
	h := Handle(func(_ *http.Request) Response {
		return OK(map[string]string{"outcome": "pong"})
	})
	code, body := run(h, mkReq(t, http.MethodPost, nil))
	if code != http.StatusOK || !strings.Contains(body, `"outcome":"pong"`) {
		t.Fatalf("got %d %q", code, body)
	}
}

func TestCall(t *testing.T) {
	cases := []struct {
		name     string
		fn       func(*http.Request) (any, error)
		wantCode int
		wantBody string
	}{
		{
			name:     "plain value wrapped",
			fn:       func(*http.Request) (any, error) { return map[string]string{"status": "ok"}, nil },
			wantCode: http.StatusOK,
			wantBody: `"status":"ok"`,
		},
		{
			name:     "response passed through",
			fn:       func(*http.Request) (any, error) { return Response{Status: http.StatusServiceUnavailable, Body: "degraded"}, nil },
			wantCode: http.StatusServiceUnavailable,
			wantBody: "degraded",
		},
		{
			name:     "error mapped",
			fn:       func(*http.Request) (any, error) { return nil, errors.New("nah") },
			wantCode: http.StatusInternalServerError,
			wantBody: "error",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := run(Call(tc.fn), mkReq(t, http.MethodGet, nil))
			if code != tc.wantCode || !strings.Contains(body, tc.wantBody) {
				t.Fatalf("got %d %q, want %d containing %q", code, body, tc.wantCode, tc.wantBody)
			}
		})
	}
}

type delivery struct {
	Action string `json:"action" validate:"required"`
}

func TestWebhook_IgnoresUnknownFieldsButValidates(t *testing.T) {
	h := Webhook(func(_ *http.Request, got delivery) (any, error) {
		return map[string]string{"action": got.Action}, nil
	})

	code, body := run(h, mkReq(t, http.MethodPost, strings.NewReader(`{"action":"opened","issue":{"number":1}}`)))
	if code != http.StatusOK || !strings.Contains(body, `"action":"opened"`) {
		t.Fatalf("expected 200 with action, got %d %s", code, body)
	}

	code, body = run(h, mkReq(t, http.MethodPost, strings.NewReader(`{"issue":{"number":1}}`)))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 on missing action, got %d %s", code, body)
	}
}

func TestWebhook_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
	}{
		{"malformed", `{`, nil},
		{"empty", ``, nil},
		{"trailing data", `{"action":"opened"} {}`, nil},
		{"handler error", `{"action":"opened"}`, errors.New("nope")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := Webhook(func(_ *http.Request, _ delivery) (any, error) {
				called = true
				return nil, tc.err
			})
			code, body := run(h, mkReq(t, http.MethodPost, strings.NewReader(tc.body)))
			if code < 400 || body == "" {
				t.Fatalf("expected error status and body, got %d %q", code, body)
			}
			if called != (tc.err != nil) {
				t.Fatalf("handler called = %v", called)
			}
		})
	}
}

func TestWebhook_BodyLimit(t *testing.T) {
	h := Webhook(func(_ *http.Request, _ delivery) (any, error) {
		t.Fatal("handler reached with a truncated body")
		return nil, nil
	})
	big := `{"action":"opened","pad":"` + strings.Repeat("x", webhookBodyLimit) + `"}`
	code, _ := run(h, mkReq(t, http.MethodPost, strings.NewReader(big)))
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
}

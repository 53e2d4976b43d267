package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	kit "gitevents/internal/platform/testkit"

	"github.com/rs/zerolog"
)

// useJSON installs a json root logger writing to the returned buffer
func useJSON(t *testing.T, opt Options) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	opt.Format = "json"
	opt.Writer = &buf
	l := build(opt)
	kit.Swap(t, &root, &l)
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	return m
}

func TestLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"INFO", zerolog.InfoLevel},
		{" warning ", zerolog.WarnLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.DebugLevel},
		{"loud", zerolog.DebugLevel},
	}
	for _, c := range cases {
		if got := level(c.in); got != c.want {
			t.Errorf("level(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestC_DeliveryFields(t *testing.T) {
	buf := useJSON(t, Options{Level: "info", Service: "gitevents-webhook"})

	ctx := WithRequest(context.Background(), "req-123", "72d3162e-cc78-11e3-81ab-4c9367dc0958")
	C(ctx).Info().Msg("issue delivered")

	m := lastLine(t, buf)
	if m["request_id"] != "req-123" || m["delivery_id"] != "72d3162e-cc78-11e3-81ab-4c9367dc0958" {
		t.Fatalf("ids missing: %v", m)
	}
	if m["service"] != "gitevents-webhook" || m["message"] != "issue delivered" {
		t.Fatalf("root fields missing: %v", m)
	}

	C(WithRequest(context.Background(), "", "")).Info().Msg("bare")
	m = lastLine(t, buf)
	if _, ok := m["request_id"]; ok {
		t.Fatalf("blank request id was attached: %v", m)
	}
}

func TestBuild_FieldsAndLevel(t *testing.T) {
	buf := useJSON(t, Options{
		Level:  "warn",
		Fields: map[string]string{"version": "v0.1.0", "commit": "abcd"},
	})

	Named("replay").Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info line passed a warn logger: %s", buf.String())
	}

	Named("replay").Warn().Msg("kept")
	m := lastLine(t, buf)
	if m["component"] != "replay" || m["version"] != "v0.1.0" || m["commit"] != "abcd" {
		t.Fatalf("fields missing: %v", m)
	}
	if Named("") != Get() {
		t.Fatal("Named(\"\") should return the root logger")
	}
}

func TestBuild_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "info", Format: "console", Writer: &buf, Component: "webhook"})
	l.Info().Str("repo", "acme/events").Msg("store ready")

	kit.MustContain(t, buf.String(), "store ready")
	kit.MustContain(t, buf.String(), "acme/events")
	kit.MustContain(t, buf.String(), "webhook")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "")
	t.Setenv("LOG_COMPONENT", "replay")
	t.Setenv("LOG_CALLER", "on")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Component != "replay" {
		t.Fatalf("FromEnv = %+v", opt)
	}
	if opt.Service != "gitevents" {
		t.Fatalf("blank LOG_SERVICE should fall back, got %q", opt.Service)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("caller/sample = %v/%d", opt.WithCaller, opt.SampleEvery)
	}
}

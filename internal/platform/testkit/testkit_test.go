package testkit

import (
	"strings"
	"testing"
)

var (
	eventHeader = "X-GitHub-Event"
	now         = func() string { return "2024-06-01T00:00:00Z" }
)

func TestSwap_RestoresAfterTest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &now, func() string { return "frozen" })
		Swap(t, &eventHeader, "X-Other")
		if now() != "frozen" || eventHeader != "X-Other" {
			t.Fatalf("swap not applied: %q %q", now(), eventHeader)
		}
	})
	if now() != "2024-06-01T00:00:00Z" || eventHeader != "X-GitHub-Event" {
		t.Fatalf("swap not restored: %q %q", now(), eventHeader)
	}
}

func TestMustPanic_ReturnsRecovered(t *testing.T) {
	got := MustPanic(t, func() { panic("webhook module: no store") })
	if s, _ := got.(string); !strings.HasPrefix(s, "webhook module") {
		t.Fatalf("recovered = %v", got)
	}
}

func TestMustContain(t *testing.T) {
	MustContain(t, `{"outcome":"pong"}`, `"pong"`)
	MustContain(t, strings.Repeat("x", 600)+"needle", "needle")
}

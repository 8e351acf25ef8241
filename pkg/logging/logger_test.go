package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf}).
		WithComponent("form").
		With("form", "contactForm")

	log.Warn(context.Background(), errors.New("boom"), "submission failed", "status", 500)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	delete(entry, "time")
	want := map[string]any{
		"level":     "WARN",
		"msg":       "submission failed",
		"component": "form",
		"form":      "contactForm",
		"error":     "boom",
		"status":    float64(500),
	}
	if diff := cmp.Diff(want, entry); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})
	log.Info(context.Background(), "hidden")
	log.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	log.Error(context.Background(), nil, "shown")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Fatalf("missing error line: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{"DEBUG": "DEBUG", "warning": "WARN", "error": "ERROR", "": "INFO", "loud": "INFO"}
	for in, want := range cases {
		if got := ParseLevel(in).String(); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNopDiscards(t *testing.T) {
	Nop().Error(context.Background(), errors.New("x"), "ignored")
}

func TestFromSlogKeepsHandler(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})).With("site", "example.nl")
	log := FromSlog(base).WithComponent("contact")

	log.Info(context.Background(), "dropped by the handler level")
	log.Error(context.Background(), errors.New("sink down"), "delivery failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	delete(entry, "time")
	want := map[string]any{
		"level":     "ERROR",
		"msg":       "delivery failed",
		"site":      "example.nl",
		"component": "contact",
		"error":     "sink down",
	}
	if diff := cmp.Diff(want, entry); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

package config

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-siteform/pkg/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Endpoint != "process.php" || cfg.ConfirmationPage != "thank_you.html" || cfg.HoneypotField != "website" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Timings.NavigationDelay.Std() != 1500*time.Millisecond {
		t.Fatalf("navigation delay = %s", cfg.Timings.NavigationDelay)
	}
	if cfg.Timings.NotificationHide.Std() != 5*time.Second || cfg.Timings.NotificationFade.Std() != 300*time.Millisecond {
		t.Fatalf("notification timings = %+v", cfg.Timings)
	}
	if cfg.Server.ContactPath != "/process.php" {
		t.Fatalf("contact path = %q", cfg.Server.ContactPath)
	}
	if diff := cmp.Diff(DefaultFields(), cfg.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
locale: en
endpoint: /api/contact
timings:
  navigationDelay: 2s
  notificationHide: 3000
  requestTimeout: 8s
fields:
  - name: fullName
    kind: text
    required: true
    nameLike: true
  - name: email
    kind: email
    required: true
  - name: question
    kind: textarea
server:
  addr: 127.0.0.1:9000
`)
	cfg, err := Parse(data, "site.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Locale != "en" || cfg.Endpoint != "/api/contact" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Timings.NavigationDelay.Std() != 2*time.Second {
		t.Fatalf("navigation delay = %s", cfg.Timings.NavigationDelay)
	}
	if cfg.Timings.NotificationHide.Std() != 3*time.Second {
		t.Fatalf("integer milliseconds not honoured: %s", cfg.Timings.NotificationHide)
	}
	if cfg.Timings.RequestTimeout.Std() != 8*time.Second {
		t.Fatalf("request timeout = %s", cfg.Timings.RequestTimeout)
	}
	if cfg.Timings.NotificationFade.Std() != 300*time.Millisecond {
		t.Fatalf("fade default missing: %s", cfg.Timings.NotificationFade)
	}
	want := []model.FieldSpec{
		{Name: "fullName", Kind: model.FieldKindText, Required: true, NameLike: true},
		{Name: "email", Kind: model.FieldKindEmail, Required: true},
		{Name: "question", Kind: model.FieldKindMultiLine},
	}
	if diff := cmp.Diff(want, cfg.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.ContactPath != "/process.php" {
		t.Fatalf("server = %+v", cfg.Server)
	}
}

func TestParseJSON(t *testing.T) {
	cfg, err := Parse([]byte(`{"honeypotField":"url","timings":{"navigationDelay":"250ms"}}`), "site.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.HoneypotField != "url" || cfg.Timings.NavigationDelay.Std() != 250*time.Millisecond {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":         "  ",
		"garbage":       "fields: [",
		"unknown kind":  "fields:\n  - name: a\n    kind: color\n",
		"duplicate":     "fields:\n  - name: a\n  - name: a\n",
		"honeypot":      "fields:\n  - name: website\n",
		"bad duration":  "timings:\n  navigationDelay: soon\n",
		"relative path": "server:\n  contactPath: process.php\n",
		"unnamed field": "fields:\n  - kind: email\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data), name); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := Parse([]byte("fields:\n  - name: a\n  - name: a\n"), "dup.yaml")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{"site.yml": {Data: []byte("locale: en\n")}}
	cfg, err := LoadFS(fsys, "site.yml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Locale != "en" {
		t.Fatalf("locale = %q", cfg.Locale)
	}
	if _, err := LoadFS(fsys, "missing.yml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if cfg, err := Load(""); err != nil || cfg.Locale != "nl" {
		t.Fatalf("empty path should return defaults: %+v %v", cfg, err)
	}
}

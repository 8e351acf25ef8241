package markup

import (
	"encoding/base64"
	"strings"
	"testing"
	"testing/fstest"
)

func TestBuiltinSnippets(t *testing.T) {
	busy, err := BusyLabel(nil, "Verzenden...")
	if err != nil {
		t.Fatalf("busy label: %v", err)
	}
	want := `<span class="spinner-border spinner-border-sm me-2" role="status" aria-hidden="true"></span>Verzenden...`
	if busy != want {
		t.Fatalf("busy label = %q", busy)
	}

	alert, err := Alert(nil, "Bedankt <strong>Anna</strong>", "Sluiten")
	if err != nil {
		t.Fatalf("alert: %v", err)
	}
	if !strings.HasPrefix(alert, "Bedankt <strong>Anna</strong><button") {
		t.Fatalf("alert message should be inserted as markup: %q", alert)
	}
	if !strings.Contains(alert, `aria-label="Sluiten"`) || !strings.Contains(alert, `class="btn-close"`) {
		t.Fatalf("alert close button missing: %q", alert)
	}
}

func TestBusyLabelEscapesLabel(t *testing.T) {
	busy, err := BusyLabel(nil, "<b>x</b>")
	if err != nil {
		t.Fatalf("busy label: %v", err)
	}
	if strings.Contains(busy, "<b>") {
		t.Fatalf("label should be escaped: %q", busy)
	}
}

func TestImagePlaceholderURL(t *testing.T) {
	url, err := ImagePlaceholderURL(nil, "Image")
	if err != nil {
		t.Fatalf("placeholder: %v", err)
	}
	const prefix = "data:image/svg+xml;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("unexpected url %q", url)
	}
	svg, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(string(svg), ">Image</text>") {
		t.Fatalf("svg label missing: %s", svg)
	}
}

func TestOverridesTakePrecedence(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{
		"busy_label.tpl": {Data: []byte(`[{{ label }}{{ suffix }}]`)},
	}), WithGlobals(map[string]any{"suffix": "!"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	busy, err := BusyLabel(engine, "bezig")
	if err != nil {
		t.Fatalf("busy label: %v", err)
	}
	if busy != "[bezig!]" {
		t.Fatalf("override not used: %q", busy)
	}
	if _, err := Alert(engine, "ok", "x"); err != nil {
		t.Fatalf("embedded fallback: %v", err)
	}
}

func TestRenderStringAndNilEngine(t *testing.T) {
	got, err := Default().RenderString("{{ a }}-{{ b }}", map[string]any{"a": 1, "b": "two"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "1-two" {
		t.Fatalf("got %q", got)
	}

	var nilEngine *Engine
	if _, err := nilEngine.RenderTemplate(TemplateAlert, nil); err != ErrNilEngine {
		t.Fatalf("expected ErrNilEngine, got %v", err)
	}
}

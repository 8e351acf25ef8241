// Package markup renders the small HTML snippets the page components inject:
// notification bodies, the busy label of a submit button and the image
// placeholder. Templates are pongo2 files embedded in the package and can be
// overridden from disk or any fs.FS.
package markup

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Built-in template names.
const (
	TemplateAlert            = "alert"
	TemplateBusyLabel        = "busy_label"
	TemplateImagePlaceholder = "image_placeholder"
)

// templateExt is appended to template names without it.
const templateExt = ".tpl"

//go:embed templates/*.tpl
var embedded embed.FS

// ErrNilEngine is returned when rendering through a nil Engine.
var ErrNilEngine = errors.New("markup: engine is nil")

// Renderer renders a named template with data.
type Renderer interface {
	RenderTemplate(name string, data map[string]any) (string, error)
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	globals   map[string]any
}

// WithBaseDir loads templates from a directory before the embedded set.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files before the embedded set.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobals seeds values visible to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Engine is a pongo2 template set with a parsed-template cache.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

var _ Renderer = (*Engine)(nil)

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the shared engine over the embedded templates.
func Default() *Engine {
	defaultOnce.Do(func() {
		engine, err := New()
		if err != nil {
			panic(fmt.Sprintf("markup: default engine: %v", err))
		}
		defaultEngine = engine
	})
	return defaultEngine
}

// TemplatesFS exposes the built-in templates so callers can copy or extend
// them before passing overrides through WithFS.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return embedded
	}
	return sub
}

// New builds an Engine. Overrides from WithBaseDir and WithFS take precedence
// over the embedded templates.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("markup: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	loaders = append(loaders, pongo2.NewFSLoader(TemplatesFS()))

	engine := &Engine{
		set:       pongo2.NewSet("siteform", loaders...),
		templates: make(map[string]*pongo2.Template),
	}
	if len(cfg.globals) > 0 {
		engine.set.Globals = make(pongo2.Context, len(cfg.globals))
		engine.set.Globals.Update(pongo2.Context(cfg.globals))
	}
	return engine, nil
}

// RenderTemplate renders the named template.
func (e *Engine) RenderTemplate(name string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", ErrNilEngine
	}
	path := strings.TrimSpace(name)
	if !strings.HasSuffix(path, templateExt) {
		path += templateExt
	}
	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data, path)
}

// RenderString parses and renders templateContent.
func (e *Engine) RenderString(templateContent string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", ErrNilEngine
	}
	tmpl, err := e.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("markup: parse template string: %w", err)
	}
	return execute(tmpl, data, "string")
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("markup: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

func execute(tmpl *pongo2.Template, data map[string]any, label string) (string, error) {
	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		if key = strings.TrimSpace(key); key != "" {
			ctx[key] = value
		}
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("markup: execute template %q: %w", label, err)
	}
	return buf.String(), nil
}

// Package site assembles the page components. An App is built once per page
// load and owns the initialisation state that would otherwise live in a
// global flag.
package site

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-siteform/pkg/config"
	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/form"
	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/logging"
	"github.com/goliatone/go-siteform/pkg/markup"
	"github.com/goliatone/go-siteform/pkg/notify"
	"github.com/goliatone/go-siteform/pkg/scheduler"
	"github.com/goliatone/go-siteform/pkg/submit"
	"github.com/goliatone/go-siteform/pkg/validation"
)

var (
	// ErrNoDocument is returned when an App is built without a document.
	ErrNoDocument = errors.New("site: document is required")
	// ErrNoWindow is returned when an App is built without a window.
	ErrNoWindow = errors.New("site: window is required")
)

// Option configures an App.
type Option func(*App)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithScheduler sets the timer source.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(a *App) {
		if s != nil {
			a.scheduler = s
		}
	}
}

// WithTransport sets how the forms deliver payloads.
func WithTransport(t submit.Transport) Option {
	return func(a *App) {
		if t != nil {
			a.transport = t
		}
	}
}

// WithTranslator sets the message catalog.
func WithTranslator(t i18n.Translator) Option {
	return func(a *App) {
		if t != nil {
			a.translator = t
		}
	}
}

// WithRenderer sets the snippet renderer.
func WithRenderer(r markup.Renderer) Option {
	return func(a *App) {
		if r != nil {
			a.renderer = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// App is the per-page application context.
type App struct {
	doc        *dom.Document
	window     *dom.Window
	cfg        config.Config
	scheduler  scheduler.Scheduler
	transport  submit.Transport
	translator i18n.Translator
	renderer   markup.Renderer
	logger     logging.Logger
	localizer  i18n.Localizer

	mu          sync.Mutex
	initialized bool
	initErr     error
	notifier    *notify.Manager
	forms       *form.Manager
	burger      *BurgerMenu
	header      *dom.Element
	scrollTop   *dom.Element
}

// NewApp builds the context for one page.
func NewApp(doc *dom.Document, win *dom.Window, options ...Option) (*App, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	if win == nil {
		return nil, ErrNoWindow
	}
	a := &App{
		doc:       doc,
		window:    win,
		cfg:       config.Default(),
		scheduler: scheduler.New(),
		logger:    logging.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.translator == nil {
		a.translator = i18n.Default()
	}
	if a.renderer == nil {
		renderer, err := newRenderer(a.cfg.TemplatesDir)
		if err != nil {
			return nil, err
		}
		a.renderer = renderer
	}
	if a.transport == nil {
		a.transport = submit.NewHTTPTransport(submit.WithTimeout(a.cfg.Timings.RequestTimeout.Std()))
	}
	a.localizer = i18n.NewLocalizer(a.translator, a.cfg.Locale)
	a.logger = a.logger.WithComponent("site")
	return a, nil
}

func newRenderer(dir string) (markup.Renderer, error) {
	if dir == "" {
		return markup.Default(), nil
	}
	engine, err := markup.New(markup.WithBaseDir(dir))
	if err != nil {
		return nil, fmt.Errorf("site: templates %s: %w", dir, err)
	}
	return engine, nil
}

// Init wires every component once. Later calls return the result of the
// first one: a page that failed half way is not wired again.
func (a *App) Init(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return a.initErr
	}
	a.initialized = true
	a.initErr = a.init(ctx)
	return a.initErr
}

func (a *App) init(ctx context.Context) error {
	cfg := a.cfg
	a.burger = NewBurgerMenu(a.doc, a.window, a.scheduler, cfg.Effects.DesktopBreakpoint, cfg.Timings.ResizeDebounce.Std())
	HeaderNavToggle(a.doc)
	rewritten := RewriteSectionAnchors(a.doc, a.window)

	a.notifier = notify.NewManager(a.doc,
		notify.WithScheduler(a.scheduler),
		notify.WithLocalizer(a.localizer),
		notify.WithRenderer(a.renderer),
		notify.WithAutoHide(cfg.Timings.NotificationHide.Std()),
		notify.WithFadeDuration(cfg.Timings.NotificationFade.Std()),
	)

	validator := validation.New(
		validation.WithLocalizer(a.localizer),
		validation.WithMessageMinLength(cfg.MessageMinLength),
	)
	forms, err := form.NewManager(a.doc,
		form.WithWindow(a.window),
		form.WithTransport(a.transport),
		form.WithNotifier(a.notifier),
		form.WithScheduler(a.scheduler),
		form.WithLocalizer(a.localizer),
		form.WithRenderer(a.renderer),
		form.WithLogger(a.logger.WithComponent("form")),
		form.WithValidator(validator),
		form.WithFormOptions(validation.WithNameFields(cfg.NameFields...)),
		form.WithEndpoint(cfg.Endpoint),
		form.WithConfirmationPage(cfg.ConfirmationPage),
		form.WithHoneypotField(cfg.HoneypotField),
		form.WithNavigationDelay(cfg.Timings.NavigationDelay.Std()),
	)
	if err != nil {
		return fmt.Errorf("site: forms: %w", err)
	}
	images, err := OptimizeImages(a.doc, a.renderer)
	if err != nil {
		forms.Close()
		return fmt.Errorf("site: images: %w", err)
	}
	a.forms = forms
	a.header = HeaderScroll(a.doc, a.window, cfg.Effects.HeaderScrollOffset)
	a.scrollTop = ScrollToTop(a.doc, a.window, cfg.Effects.ScrollTopOffset, a.localizer.T("nav.scroll_top"))
	active := MarkActiveLinks(a.doc, a.window)

	a.logger.Debug(ctx, "page initialised",
		"path", a.window.Pathname(),
		"forms", len(forms.Controllers()),
		"images", images,
		"active_links", active,
		"rewritten_anchors", rewritten,
		"burger", a.burger != nil,
	)
	return nil
}

// Initialized reports whether Init has run and succeeded.
func (a *App) Initialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized && a.initErr == nil
}

// Document returns the page document.
func (a *App) Document() *dom.Document { return a.doc }

// Window returns the page window.
func (a *App) Window() *dom.Window { return a.window }

// Config returns the configuration in use.
func (a *App) Config() config.Config { return a.cfg }

// Localizer returns the page localizer.
func (a *App) Localizer() i18n.Localizer { return a.localizer }

// Forms returns the form manager, nil before Init.
func (a *App) Forms() *form.Manager {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.forms
}

// Notifier returns the notification manager, nil before Init.
func (a *App) Notifier() *notify.Manager {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.notifier
}

// Burger returns the burger menu, nil before Init or when the page has none.
func (a *App) Burger() *BurgerMenu {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.burger
}

// ScrollTopButton returns the back-to-top button, nil before Init.
func (a *App) ScrollTopButton() *dom.Element {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scrollTop
}

// Close detaches the form controllers.
func (a *App) Close() {
	a.mu.Lock()
	forms := a.forms
	a.mu.Unlock()
	if forms != nil {
		forms.Close()
	}
}

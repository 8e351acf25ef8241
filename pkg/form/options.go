package form

import (
	"strings"
	"time"

	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/logging"
	"github.com/goliatone/go-siteform/pkg/markup"
	"github.com/goliatone/go-siteform/pkg/notify"
	"github.com/goliatone/go-siteform/pkg/scheduler"
	"github.com/goliatone/go-siteform/pkg/submit"
	"github.com/goliatone/go-siteform/pkg/validation"
)

const (
	// DefaultEndpoint is resolved against the page location.
	DefaultEndpoint = "process.php"
	// DefaultConfirmationPage is opened after a successful submission.
	DefaultConfirmationPage = "thank_you.html"
	// DefaultHoneypotField names the hidden anti-bot input.
	DefaultHoneypotField = "website"
	// DefaultNavigationDelay leaves the success notification readable before
	// the page changes.
	DefaultNavigationDelay = 1500 * time.Millisecond
)

type options struct {
	window           *dom.Window
	transport        submit.Transport
	notifier         notify.Notifier
	scheduler        scheduler.Scheduler
	localizer        i18n.Localizer
	localizerSet     bool
	renderer         markup.Renderer
	logger           logging.Logger
	validator        *validation.Validator
	formOptions      []validation.FormOption
	endpoint         string
	confirmationPage string
	honeypotField    string
	navigationDelay  time.Duration
	onState          func(from, to State)
}

// Option configures a Controller or Manager.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		endpoint:         DefaultEndpoint,
		confirmationPage: DefaultConfirmationPage,
		honeypotField:    DefaultHoneypotField,
		navigationDelay:  DefaultNavigationDelay,
	}
}

func (o *options) apply(opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.scheduler == nil {
		o.scheduler = scheduler.New()
	}
	if !o.localizerSet {
		o.localizer = i18n.NewLocalizer(nil, i18n.DefaultLocale)
	}
	if o.renderer == nil {
		o.renderer = markup.Default()
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}
	if o.transport == nil {
		o.transport = submit.NewHTTPTransport()
	}
	if o.validator == nil {
		o.validator = validation.New(validation.WithLocalizer(o.localizer))
	}
}

// WithWindow sets the window used to resolve the endpoint and to navigate.
func WithWindow(w *dom.Window) Option {
	return func(o *options) {
		o.window = w
	}
}

// WithTransport sets how payloads are delivered.
func WithTransport(t submit.Transport) Option {
	return func(o *options) {
		if t != nil {
			o.transport = t
		}
	}
}

// WithNotifier sets where outcome messages are shown.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithScheduler sets the scheduler for the delayed navigation.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithLocalizer sets the message localizer.
func WithLocalizer(l i18n.Localizer) Option {
	return func(o *options) {
		o.localizer = l
		o.localizerSet = true
	}
}

// WithRenderer sets the template renderer for the busy label.
func WithRenderer(r markup.Renderer) Option {
	return func(o *options) {
		if r != nil {
			o.renderer = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithValidator sets the field validator.
func WithValidator(v *validation.Validator) Option {
	return func(o *options) {
		if v != nil {
			o.validator = v
		}
	}
}

// WithFormOptions forwards options to the DOM-bound validator.
func WithFormOptions(opts ...validation.FormOption) Option {
	return func(o *options) {
		o.formOptions = append(o.formOptions, opts...)
	}
}

// WithEndpoint overrides the submission endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			o.endpoint = trimmed
		}
	}
}

// WithConfirmationPage overrides the page opened after success.
func WithConfirmationPage(page string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(page); trimmed != "" {
			o.confirmationPage = trimmed
		}
	}
}

// WithHoneypotField overrides the honeypot input name.
func WithHoneypotField(name string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			o.honeypotField = trimmed
		}
	}
}

// WithNavigationDelay overrides the delay before the confirmation page.
func WithNavigationDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.navigationDelay = d
		}
	}
}

// WithStateHook observes every state transition.
func WithStateHook(fn func(from, to State)) Option {
	return func(o *options) {
		o.onState = fn
	}
}

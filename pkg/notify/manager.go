// Package notify shows transient, auto-dismissing alerts in a fixed container
// appended to the page body.
package notify

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/markup"
	"github.com/goliatone/go-siteform/pkg/scheduler"
)

const (
	// DefaultAutoHide is how long a notification stays before dismissing itself.
	DefaultAutoHide = 5 * time.Second
	// DefaultFadeDuration separates the fade-out from element removal.
	DefaultFadeDuration = 300 * time.Millisecond

	containerClass = "c-notification-container"
	containerStyle = "position:fixed;top:20px;right:20px;z-index:9999;max-width:350px;"
	showClass      = "show"
)

// ErrNoBody is returned when the document has nowhere to mount the container.
var ErrNoBody = errors.New("notify: document has no body")

// Severity selects the alert colour.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notifier shows a message. Components depend on this instead of Manager.
type Notifier interface {
	Show(message string, severity Severity) (*Notification, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithScheduler sets the scheduler used for frames and timeouts.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(m *Manager) {
		if s != nil {
			m.scheduler = s
		}
	}
}

// WithRenderer sets the template renderer for alert bodies.
func WithRenderer(r markup.Renderer) Option {
	return func(m *Manager) {
		if r != nil {
			m.renderer = r
		}
	}
}

// WithLocalizer sets the localizer used for the close button label.
func WithLocalizer(l i18n.Localizer) Option {
	return func(m *Manager) {
		m.localizer = l
	}
}

// WithAutoHide overrides the auto-dismiss delay.
func WithAutoHide(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.autoHide = d
		}
	}
}

// WithFadeDuration overrides the delay between fade-out and removal.
func WithFadeDuration(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.fade = d
		}
	}
}

// WithIDFunc overrides notification id generation.
func WithIDFunc(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// Manager owns the notification container of one document.
type Manager struct {
	doc       *dom.Document
	scheduler scheduler.Scheduler
	renderer  markup.Renderer
	localizer i18n.Localizer
	autoHide  time.Duration
	fade      time.Duration
	newID     func() string

	mu        sync.Mutex
	container *dom.Element
	active    []*Notification
}

var _ Notifier = (*Manager)(nil)

// NewManager builds a Manager and mounts its container when the document has
// a body.
func NewManager(doc *dom.Document, options ...Option) *Manager {
	m := &Manager{
		doc:       doc,
		scheduler: scheduler.New(),
		renderer:  markup.Default(),
		localizer: i18n.NewLocalizer(nil, i18n.DefaultLocale),
		autoHide:  DefaultAutoHide,
		fade:      DefaultFadeDuration,
		newID:     uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	_, _ = m.Container()
	return m
}

// Container returns the notification container, creating it on first use.
func (m *Manager) Container() (*dom.Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.container != nil {
		return m.container, nil
	}
	if m.doc == nil {
		return nil, ErrNoBody
	}
	body := m.doc.Body()
	if body == nil {
		return nil, ErrNoBody
	}
	container := m.doc.CreateElement("div")
	container.SetAttr("class", containerClass)
	container.SetCSSText(containerStyle)
	body.AppendChild(container)
	m.container = container
	return container, nil
}

// Show appends an alert, fades it in on the next frame and schedules its
// dismissal.
func (m *Manager) Show(message string, severity Severity) (*Notification, error) {
	if severity == "" {
		severity = SeverityInfo
	}
	container, err := m.Container()
	if err != nil {
		return nil, err
	}

	clean := SanitizeMessage(message)
	body, err := markup.Alert(m.renderer, clean, m.localizer.T("notification.close"))
	if err != nil {
		return nil, fmt.Errorf("notify: render alert: %w", err)
	}

	el := m.doc.CreateElement("div")
	el.SetAttr("id", "notification-"+m.newID())
	el.SetAttr("class", fmt.Sprintf("alert alert-%s alert-dismissible fade", severity))
	el.SetAttr("role", "alert")
	if err := el.SetInnerHTML(body); err != nil {
		return nil, fmt.Errorf("notify: alert markup: %w", err)
	}

	n := &Notification{
		ID:       el.ID(),
		Message:  strings.TrimSpace(message),
		Severity: severity,
		manager:  m,
		el:       el,
	}

	m.mu.Lock()
	m.active = append(m.active, n)
	m.mu.Unlock()

	container.AppendChild(el)

	m.scheduler.NextFrame(func() {
		if !n.Hiding() {
			el.AddClass(showClass)
		}
	})
	if closeBtn := el.Query(dom.Class("btn-close")); closeBtn != nil {
		closeBtn.On(dom.EventClick, func(*dom.Event) { n.Hide() })
	}
	timer := m.scheduler.AfterFunc(m.autoHide, n.Hide)

	n.mu.Lock()
	n.autoHide = timer
	n.mu.Unlock()
	return n, nil
}

// Active returns the notifications that have not been removed yet.
func (m *Manager) Active() []*Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Notification(nil), m.active...)
}

func (m *Manager) forget(n *Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, candidate := range m.active {
		if candidate == n {
			m.active = append(m.active[:i], m.active[i+1:]...)
			return
		}
	}
}

// Notification is one alert shown by a Manager.
type Notification struct {
	ID string
	// Message is the text passed to Show. Only the element carries the
	// sanitised markup.
	Message  string
	Severity Severity

	manager *Manager
	el      *dom.Element

	mu       sync.Mutex
	hiding   bool
	autoHide scheduler.Timer
}

// Element returns the alert element.
func (n *Notification) Element() *dom.Element {
	return n.el
}

// Hiding reports whether dismissal has started.
func (n *Notification) Hiding() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hiding
}

// Hide starts the two-phase dismissal: the show class goes now, the element
// goes after the fade duration. Repeated calls are no-ops.
func (n *Notification) Hide() {
	n.mu.Lock()
	if n.hiding {
		n.mu.Unlock()
		return
	}
	n.hiding = true
	timer := n.autoHide
	n.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	n.el.RemoveClass(showClass)
	n.manager.scheduler.AfterFunc(n.manager.fade, func() {
		if n.el.IsConnected() {
			n.el.Remove()
		}
		n.manager.forget(n)
	})
}

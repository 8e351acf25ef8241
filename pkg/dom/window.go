package dom

import (
	"fmt"
	"net/url"
	"sync"
)

// DefaultInnerWidth is the viewport width a Window starts with.
const DefaultInnerWidth = 1280

// NavigateFunc observes navigations performed through Window.Navigate.
type NavigateFunc func(target *url.URL)

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithInnerWidth sets the initial viewport width.
func WithInnerWidth(width int) WindowOption {
	return func(w *Window) {
		if width > 0 {
			w.innerWidth = width
		}
	}
}

// WithNavigateFunc registers a hook invoked after every navigation.
func WithNavigateFunc(fn NavigateFunc) WindowOption {
	return func(w *Window) {
		w.onNavigate = fn
	}
}

// Window holds the per-page browsing state: location, scroll offset and
// viewport width. Window-level listeners receive scroll and resize events.
type Window struct {
	mu         sync.Mutex
	location   *url.URL
	history    []string
	scrollY    float64
	innerWidth int
	onNavigate NavigateFunc
	listeners  map[string][]Listener
}

// NewWindow builds a Window positioned at rawURL.
func NewWindow(rawURL string, options ...WindowOption) (*Window, error) {
	loc, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("dom: window location: %w", err)
	}
	if loc.Path == "" {
		loc.Path = "/"
	}
	w := &Window{
		location:   loc,
		innerWidth: DefaultInnerWidth,
		listeners:  make(map[string][]Listener),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Location returns a copy of the current location.
func (w *Window) Location() *url.URL {
	w.mu.Lock()
	defer w.mu.Unlock()
	clone := *w.location
	return &clone
}

// Pathname returns the path of the current location.
func (w *Window) Pathname() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.location.Path
}

// ResolveURL resolves ref against the current location.
func (w *Window) ResolveURL(ref string) (*url.URL, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("dom: resolve %q: %w", ref, err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.location.ResolveReference(parsed), nil
}

// Navigate moves the window to ref (resolved against the current location)
// and records it in the history.
func (w *Window) Navigate(ref string) error {
	target, err := w.ResolveURL(ref)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.location = target
	w.history = append(w.history, target.String())
	hook := w.onNavigate
	w.mu.Unlock()

	if hook != nil {
		clone := *target
		hook(&clone)
	}
	return nil
}

// History lists the URLs navigated to, oldest first.
func (w *Window) History() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.history...)
}

// ScrollY returns the vertical scroll offset.
func (w *Window) ScrollY() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrollY
}

// ScrollTo updates the scroll offset and dispatches a scroll event.
func (w *Window) ScrollTo(y float64) {
	if y < 0 {
		y = 0
	}
	w.mu.Lock()
	w.scrollY = y
	w.mu.Unlock()
	w.Dispatch(NewEvent(EventScroll))
}

// InnerWidth returns the viewport width.
func (w *Window) InnerWidth() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.innerWidth
}

// Resize updates the viewport width and dispatches a resize event.
func (w *Window) Resize(width int) {
	w.mu.Lock()
	w.innerWidth = width
	w.mu.Unlock()
	w.Dispatch(NewEvent(EventResize))
}

// On registers a window-level listener.
func (w *Window) On(eventType string, fn Listener) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners[eventType] = append(w.listeners[eventType], fn)
}

// Dispatch delivers ev to the window listeners.
func (w *Window) Dispatch(ev *Event) {
	if ev == nil {
		return
	}
	w.mu.Lock()
	listeners := append([]Listener(nil), w.listeners[ev.Type]...)
	w.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
		if ev.propagationStopped {
			return
		}
	}
}

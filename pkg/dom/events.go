package dom

import "golang.org/x/net/html"

// Common event types dispatched by the site components.
const (
	EventClick   = "click"
	EventBlur    = "blur"
	EventInput   = "input"
	EventSubmit  = "submit"
	EventKeydown = "keydown"
	EventScroll  = "scroll"
	EventResize  = "resize"
	EventError   = "error"
)

// Listener handles a dispatched event.
type Listener func(ev *Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Event carries the dispatch state for one event. Target is the element the
// event was dispatched on; CurrentTarget changes while the event bubbles.
type Event struct {
	Type          string
	Key           string
	Target        *Element
	CurrentTarget *Element

	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent returns an event of the given type.
func NewEvent(eventType string) *Event {
	return &Event{Type: eventType}
}

// NewKeyEvent returns a keydown event for key (for example "Escape").
func NewKeyEvent(key string) *Event {
	return &Event{Type: EventKeydown, Key: key}
}

// PreventDefault marks the default action as cancelled.
func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// StopPropagation stops bubbling after the current element's listeners ran.
func (ev *Event) StopPropagation() {
	ev.propagationStopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (ev *Event) PropagationStopped() bool {
	return ev.propagationStopped
}

// On registers a listener and returns a function that removes it.
func (e *Element) On(eventType string, fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.nextID++
	id := e.doc.nextID
	byType, ok := e.doc.listeners[e.node]
	if !ok {
		byType = make(map[string][]listenerEntry)
		e.doc.listeners[e.node] = byType
	}
	byType[eventType] = append(byType[eventType], listenerEntry{id: id, fn: fn})

	return func() {
		e.doc.mu.Lock()
		defer e.doc.mu.Unlock()
		entries := e.doc.listeners[e.node][eventType]
		for i, entry := range entries {
			if entry.id == id {
				e.doc.listeners[e.node][eventType] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev to e and then bubbles it through the ancestors up to
// the document node. It returns false when a listener called PreventDefault.
func (e *Element) Dispatch(ev *Event) bool {
	if ev == nil {
		return true
	}
	ev.Target = e

	type hop struct {
		el      *Element
		entries []listenerEntry
	}

	e.doc.mu.Lock()
	var path []hop
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode && n.Type != html.DocumentNode {
			continue
		}
		entries := e.doc.listeners[n][ev.Type]
		if len(entries) == 0 {
			continue
		}
		path = append(path, hop{
			el:      e.doc.wrap(n),
			entries: append([]listenerEntry(nil), entries...),
		})
	}
	e.doc.mu.Unlock()

	for _, step := range path {
		ev.CurrentTarget = step.el
		for _, entry := range step.entries {
			entry.fn(ev)
		}
		if ev.propagationStopped {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

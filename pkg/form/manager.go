package form

import (
	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/notify"
)

// FormSelector matches the forms a Manager binds.
var FormSelector = dom.Any(dom.Class("c-form"), dom.Tag("form"))

// Manager binds a Controller to every form in a document. All controllers
// share one notification manager.
type Manager struct {
	notifier    notify.Notifier
	controllers []*Controller
}

// NewManager attaches controllers to the forms of doc.
func NewManager(doc *dom.Document, options ...Option) (*Manager, error) {
	opts := defaultOptions()
	opts.apply(options)

	notifier := opts.notifier
	if notifier == nil {
		notifier = notify.NewManager(doc,
			notify.WithScheduler(opts.scheduler),
			notify.WithLocalizer(opts.localizer),
			notify.WithRenderer(opts.renderer),
		)
	}

	m := &Manager{notifier: notifier}
	if doc == nil {
		return m, nil
	}
	shared := append(append([]Option(nil), options...), WithNotifier(notifier))
	for _, el := range doc.QueryAll(FormSelector) {
		controller, err := NewController(el, shared...)
		if err != nil {
			return nil, err
		}
		controller.Attach()
		m.controllers = append(m.controllers, controller)
	}
	return m, nil
}

// Controllers returns the bound controllers in document order.
func (m *Manager) Controllers() []*Controller {
	return append([]*Controller(nil), m.controllers...)
}

// Notifier returns the shared notifier.
func (m *Manager) Notifier() notify.Notifier {
	return m.notifier
}

// Close detaches every controller.
func (m *Manager) Close() {
	for _, c := range m.controllers {
		c.Close()
	}
}

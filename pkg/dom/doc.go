// Package dom provides the small document model the site components operate on.
//
// A Document wraps a golang.org/x/net/html tree and adds the pieces a browser
// would normally supply: class and attribute helpers, inline style editing,
// selectors, event listeners with bubbling, and a Window that tracks location,
// scroll position and viewport width.
//
// All element operations lock the owning Document, so components driven from
// scheduler callbacks and request goroutines can share one page safely.
// Listeners are always invoked without the lock held.
//
// Typical use:
//
//	doc, err := dom.ParseString(page)
//	if err != nil {
//		return err
//	}
//	for _, field := range doc.QueryAll(dom.HasAttr("required")) {
//		field.On("blur", func(ev *dom.Event) { ... })
//	}
package dom

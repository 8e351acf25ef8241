package site

import (
	"sync"
	"time"

	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/scheduler"
)

var (
	navSelector      = dom.Any(dom.All(dom.Class("c-nav"), dom.ID("main-nav")), dom.Class("navbar"))
	toggleSelector   = dom.Any(dom.Class("c-nav__toggle"), dom.Class("navbar-toggler"))
	collapseSelector = dom.Any(dom.Class("c-nav__list"), dom.Class("navbar-collapse"))
	navLinkSelector  = dom.Any(dom.Class("c-nav__link"), dom.Class("nav-link"))
)

// BurgerMenu opens and closes the collapsible main navigation.
type BurgerMenu struct {
	nav        *dom.Element
	toggle     *dom.Element
	collapse   *dom.Element
	body       *dom.Element
	window     *dom.Window
	breakpoint int

	mu   sync.Mutex
	open bool
}

// NewBurgerMenu wires the menu listeners. It returns nil when the page has
// no toggle or no collapsible list.
func NewBurgerMenu(doc *dom.Document, win *dom.Window, sched scheduler.Scheduler, breakpoint int, debounce time.Duration) *BurgerMenu {
	toggle := doc.Query(toggleSelector)
	collapse := doc.Query(collapseSelector)
	if toggle == nil || collapse == nil {
		return nil
	}
	m := &BurgerMenu{
		nav:        doc.Query(navSelector),
		toggle:     toggle,
		collapse:   collapse,
		body:       doc.Body(),
		window:     win,
		breakpoint: breakpoint,
	}

	toggle.On(dom.EventClick, func(ev *dom.Event) {
		ev.PreventDefault()
		ev.StopPropagation()
		m.Toggle()
	})

	root := doc.Root()
	root.On(dom.EventKeydown, func(ev *dom.Event) {
		if ev.Key == "Escape" && m.IsOpen() {
			m.Close()
		}
	})
	root.On(dom.EventClick, func(ev *dom.Event) {
		if m.IsOpen() && m.nav != nil && !m.nav.Contains(ev.Target) {
			m.Close()
		}
	})

	for _, link := range collapse.QueryAll(navLinkSelector) {
		link.On(dom.EventClick, func(*dom.Event) { m.Close() })
	}

	if win != nil && sched != nil {
		onResize := scheduler.Debounce(sched, debounce, func() {
			if win.InnerWidth() >= m.breakpoint && m.IsOpen() {
				m.Close()
			}
		})
		win.On(dom.EventResize, func(*dom.Event) { onResize() })
	}
	return m
}

// IsOpen reports whether the menu is open.
func (m *BurgerMenu) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Toggle flips the menu.
func (m *BurgerMenu) Toggle() {
	if m.IsOpen() {
		m.Close()
		return
	}
	m.Open()
}

// Open shows the menu and locks page scrolling.
func (m *BurgerMenu) Open() {
	m.mu.Lock()
	m.open = true
	m.mu.Unlock()
	if m.nav != nil {
		m.nav.AddClass("is-open")
	}
	m.collapse.AddClass("show")
	m.collapse.SetStyle("height", "calc(100vh - var(--header-h))")
	m.toggle.SetAttr("aria-expanded", "true")
	if m.body != nil {
		m.body.AddClass("u-no-scroll")
	}
}

// Close hides the menu.
func (m *BurgerMenu) Close() {
	m.mu.Lock()
	m.open = false
	m.mu.Unlock()
	if m.nav != nil {
		m.nav.RemoveClass("is-open")
	}
	m.collapse.RemoveClass("show")
	m.toggle.SetAttr("aria-expanded", "false")
	if m.body != nil {
		m.body.RemoveClass("u-no-scroll")
	}
}

// HeaderNavToggle drives the secondary header navigation that toggles a
// modifier class.
func HeaderNavToggle(doc *dom.Document) bool {
	toggle := doc.Query(dom.Class("cl-header__nav-toggle"))
	nav := doc.Query(dom.Class("cl-header__nav"))
	if toggle == nil || nav == nil {
		return false
	}
	toggle.On(dom.EventClick, func(*dom.Event) {
		open := !nav.HasClass("cl-header__nav--open")
		if open {
			nav.AddClass("cl-header__nav--open")
			toggle.SetAttr("aria-expanded", "true")
			return
		}
		nav.RemoveClass("cl-header__nav--open")
		toggle.SetAttr("aria-expanded", "false")
	})
	return true
}

package site

import (
	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/markup"
)

var (
	headerSelector = dom.Any(dom.Class("l-header"), dom.Class("navbar"))
	logoSelector   = dom.Class("c-logo__img")
	// lazySelector matches the images that get loading="lazy".
	lazySelector = dom.Not(dom.Any(logoSelector, dom.HasAttr("data-critical"), dom.HasAttr("loading")))
)

// HeaderScroll toggles is-scrolled on the header once the page scrolls past
// offset. It returns nil when the page has no header.
func HeaderScroll(doc *dom.Document, win *dom.Window, offset float64) *dom.Element {
	header := doc.Query(headerSelector)
	if header == nil {
		return nil
	}
	win.On(dom.EventScroll, func(*dom.Event) {
		if win.ScrollY() > offset {
			header.AddClass("is-scrolled")
			return
		}
		header.RemoveClass("is-scrolled")
	})
	return header
}

const scrollTopStyle = `position: fixed; bottom: 30px; right: 30px; width: 50px; height: 50px;
background: var(--color-accent); color: var(--color-primary); border: none; border-radius: 50%;
font-size: 24px; cursor: pointer; opacity: 0; visibility: hidden;
transition: opacity 0.3s, visibility 0.3s, transform 0.3s; z-index: 999; box-shadow: var(--shadow-lg);`

// ScrollToTop appends the back-to-top button to the body. The button shows
// once the page scrolls past offset and scrolls to the top when clicked.
func ScrollToTop(doc *dom.Document, win *dom.Window, offset float64, label string) *dom.Element {
	body := doc.Body()
	if body == nil {
		return nil
	}
	btn := doc.CreateElement("button")
	btn.SetAttr("class", "c-scroll-to-top")
	btn.SetAttr("aria-label", label)
	btn.SetText("↑")
	btn.SetCSSText(scrollTopStyle)
	btn.On(dom.EventClick, func(*dom.Event) {
		win.ScrollTo(0)
	})
	body.AppendChild(btn)

	win.On(dom.EventScroll, func(*dom.Event) {
		if win.ScrollY() > offset {
			btn.SetStyle("opacity", "1")
			btn.SetStyle("visibility", "visible")
			return
		}
		btn.SetStyle("opacity", "0")
		btn.SetStyle("visibility", "hidden")
	})
	return btn
}

// OptimizeImages makes images responsive and lazy, except the logo and images
// marked data-critical, and swaps broken images for a placeholder. Videos get
// lazy loading too. It returns the number of images processed.
func OptimizeImages(doc *dom.Document, renderer markup.Renderer) (int, error) {
	placeholder, err := markup.ImagePlaceholderURL(renderer, "Image")
	if err != nil {
		return 0, err
	}
	images := doc.QueryAll(dom.Tag("img"))
	for _, img := range images {
		img.AddClass("img-fluid")
		if img.Matches(lazySelector) {
			img.SetAttr("loading", "lazy")
		}
		img.On(dom.EventError, func(ev *dom.Event) {
			target := ev.Target
			if target == nil || target.GetAttr("src") == placeholder {
				return
			}
			target.SetAttr("src", placeholder)
			target.SetStyle("object-fit", "contain")
		})
	}
	for _, video := range doc.QueryAll(dom.Tag("video")) {
		if !video.HasAttr("loading") {
			video.SetAttr("loading", "lazy")
		}
	}
	return len(images), nil
}

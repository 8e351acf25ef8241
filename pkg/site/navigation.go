package site

import (
	"strings"

	"github.com/goliatone/go-siteform/pkg/dom"
)

// MarkActiveLinks flags the navigation links pointing at the current page
// with the active class and aria-current="page". "/" and "/index.html" are
// treated as the same page, and a link also matches when it is a non-root
// prefix of the current path.
func MarkActiveLinks(doc *dom.Document, win *dom.Window) int {
	current := win.Pathname()
	marked := 0
	for _, link := range doc.QueryAll(navLinkSelector) {
		href := link.GetAttr("href")
		link.RemoveClass("active")
		link.RemoveAttr("aria-current")
		if linkIsCurrent(href, current) {
			link.AddClass("active")
			link.SetAttr("aria-current", "page")
			marked++
		}
	}
	return marked
}

func linkIsCurrent(href, current string) bool {
	switch {
	case href == current:
		return true
	case current == "/" && href == "/index.html":
		return true
	case current == "/index.html" && href == "/":
		return true
	}
	return href != "" && href != "#" && len(href) > 1 && strings.HasPrefix(current, href)
}

// IsHomepage reports whether path is the site root.
func IsHomepage(path string) bool {
	return path == "/" || strings.HasSuffix(path, "/index.html")
}

// RewriteSectionAnchors points in-page "#section-*" links at the homepage
// when the current page is not the homepage. It returns the number of links
// rewritten.
func RewriteSectionAnchors(doc *dom.Document, win *dom.Window) int {
	if IsHomepage(win.Pathname()) {
		return 0
	}
	rewritten := 0
	for _, link := range doc.QueryAll(dom.All(dom.Tag("a"), dom.AttrPrefix("href", "#section-"))) {
		link.SetAttr("href", "/"+link.GetAttr("href"))
		rewritten++
	}
	return rewritten
}

package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Selector matches element nodes. Selectors compose with Any and All, which
// covers the handful of CSS selectors the site components rely on without a
// full selector engine.
type Selector func(n *html.Node) bool

// Tag matches elements by (case-insensitive) tag name.
func Tag(name string) Selector {
	name = strings.ToLower(strings.TrimSpace(name))
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

// ID matches the element whose id attribute equals id.
func ID(id string) Selector {
	return AttrEquals("id", id)
}

// Class matches elements carrying the class token.
func Class(name string) Selector {
	name = strings.TrimSpace(name)
	return func(n *html.Node) bool {
		return hasClassToken(attrValue(n, "class"), name)
	}
}

// HasAttr matches elements carrying the attribute, whatever its value.
func HasAttr(key string) Selector {
	key = strings.ToLower(key)
	return func(n *html.Node) bool {
		_, ok := lookupAttr(n, key)
		return ok
	}
}

// AttrEquals matches elements whose attribute equals value.
func AttrEquals(key, value string) Selector {
	key = strings.ToLower(key)
	return func(n *html.Node) bool {
		got, ok := lookupAttr(n, key)
		return ok && got == value
	}
}

// AttrPrefix matches elements whose attribute starts with prefix.
func AttrPrefix(key, prefix string) Selector {
	key = strings.ToLower(key)
	return func(n *html.Node) bool {
		got, ok := lookupAttr(n, key)
		return ok && strings.HasPrefix(got, prefix)
	}
}

// All matches when every selector matches.
func All(selectors ...Selector) Selector {
	return func(n *html.Node) bool {
		for _, sel := range selectors {
			if sel == nil || !sel(n) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one selector matches, like a CSS selector list.
func Any(selectors ...Selector) Selector {
	return func(n *html.Node) bool {
		for _, sel := range selectors {
			if sel != nil && sel(n) {
				return true
			}
		}
		return false
	}
}

// Not inverts sel.
func Not(sel Selector) Selector {
	return func(n *html.Node) bool {
		return sel != nil && !sel(n)
	}
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func attrValue(n *html.Node, key string) string {
	val, _ := lookupAttr(n, key)
	return val
}

func hasClassToken(list, name string) bool {
	if name == "" {
		return false
	}
	for _, token := range strings.Fields(list) {
		if token == name {
			return true
		}
	}
	return false
}

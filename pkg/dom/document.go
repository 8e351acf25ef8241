package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoBody is returned when a parsed document has no <body> element.
var ErrNoBody = errors.New("dom: document has no body")

// Document owns a parsed HTML tree plus the listener registry attached to its
// nodes. Element wrappers are cached so the same node always yields the same
// *Element.
type Document struct {
	mu        sync.Mutex
	root      *html.Node
	elements  map[*html.Node]*Element
	listeners map[*html.Node]map[string][]listenerEntry
	nextID    uint64
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	doc := &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		listeners: make(map[*html.Node]map[string][]listenerEntry),
	}
	if findFirst(root, Tag("body")) == nil {
		return nil, ErrNoBody
	}
	return doc, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Root returns the document node. Listeners registered here see every bubbling
// event, mirroring document.addEventListener.
func (d *Document) Root() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(d.root)
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.Query(Tag("body"))
}

// Query returns the first element in document order matching sel, or nil.
func (d *Document) Query(sel Selector) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(findFirst(d.root, sel))
}

// QueryAll returns every element in document order matching sel.
func (d *Document) QueryAll(sel Selector) []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrapAll(findAll(d.root, sel))
}

// CreateElement returns a detached element with the given tag name.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(strings.TrimSpace(tag))
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(node)
}

// ParseFragment parses markup in the context of <body> and returns the
// resulting detached top-level elements. Text nodes at the top level are
// dropped.
func (d *Document) ParseFragment(markup string) ([]*Element, error) {
	nodes, err := parseFragment(markup)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Element, 0, len(nodes))
	for _, node := range nodes {
		if node.Type != html.ElementNode {
			continue
		}
		out = append(out, d.wrap(node))
	}
	return out, nil
}

// Render writes the serialised document to w.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func (d *Document) wrap(node *html.Node) *Element {
	if node == nil {
		return nil
	}
	if el, ok := d.elements[node]; ok {
		return el
	}
	el := &Element{doc: d, node: node}
	d.elements[node] = el
	return el
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Element, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, d.wrap(node))
	}
	return out
}

func parseFragment(markup string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}

func findFirst(root *html.Node, sel Selector) *html.Node {
	if root == nil || sel == nil {
		return nil
	}
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && sel(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func findAll(root *html.Node, sel Selector) []*html.Node {
	if root == nil || sel == nil {
		return nil
	}
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && sel(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// walk visits descendants of root (excluding root) in document order until fn
// returns false.
func walk(root *html.Node, fn func(*html.Node) bool) bool {
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if !fn(child) {
			return false
		}
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

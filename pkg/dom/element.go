package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Element is a handle on an element node of a Document. Handles are cached by
// the document, so pointer equality means node identity.
type Element struct {
	doc  *Document
	node *html.Node
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.GetAttr("id")
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return lookupAttr(e.node, strings.ToLower(key))
}

// GetAttr returns the attribute value or "" when absent.
func (e *Element) GetAttr(key string) string {
	val, _ := e.Attr(key)
	return val
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(key string) bool {
	_, ok := e.Attr(key)
	return ok
}

// SetAttr sets (or adds) an attribute.
func (e *Element) SetAttr(key, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, strings.ToLower(key), value)
}

// RemoveAttr deletes an attribute when present.
func (e *Element) RemoveAttr(key string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeAttr(e.node, strings.ToLower(key))
}

// Classes returns the class tokens in attribute order.
func (e *Element) Classes() []string {
	return strings.Fields(e.GetAttr("class"))
}

// HasClass reports whether the class token is present.
func (e *Element) HasClass(name string) bool {
	return hasClassToken(e.GetAttr("class"), name)
}

// AddClass appends class tokens that are not already present.
func (e *Element) AddClass(names ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	tokens := strings.Fields(attrValue(e.node, "class"))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || hasClassToken(strings.Join(tokens, " "), name) {
			continue
		}
		tokens = append(tokens, name)
	}
	setAttr(e.node, "class", strings.Join(tokens, " "))
}

// RemoveClass drops class tokens. The class attribute is kept even when empty,
// matching classList.remove.
func (e *Element) RemoveClass(names ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	current, ok := lookupAttr(e.node, "class")
	if !ok {
		return
	}
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[strings.TrimSpace(name)] = struct{}{}
	}
	kept := make([]string, 0, len(names))
	for _, token := range strings.Fields(current) {
		if _, skip := drop[token]; skip {
			continue
		}
		kept = append(kept, token)
	}
	setAttr(e.node, "class", strings.Join(kept, " "))
}

// Text returns the concatenated text content of the element.
func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return textContent(e.node)
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setText(e.node, text)
}

// InnerHTML serialises the element's children.
func (e *Element) InnerHTML() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var buf bytes.Buffer
	for child := e.node.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&buf, child); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// SetInnerHTML replaces the children with parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := parseFragment(markup)
	if err != nil {
		return err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeChildren(e.node)
	for _, node := range nodes {
		e.node.AppendChild(node)
	}
	return nil
}

// OuterHTML serialises the element itself.
func (e *Element) OuterHTML() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var buf bytes.Buffer
	_ = html.Render(&buf, e.node)
	return buf.String()
}

// Value returns the form value of the element: the value attribute for inputs
// (checkboxes and radios default to "on"), the text of a textarea, or the
// selected option of a select.
func (e *Element) Value() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return controlValue(e.node)
}

// SetValue updates the form value, see Value.
func (e *Element) SetValue(value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	switch e.node.Data {
	case "textarea":
		setText(e.node, value)
	case "select":
		for _, option := range findAll(e.node, Tag("option")) {
			if optionValue(option) == value {
				setAttr(option, "selected", "")
			} else {
				removeAttr(option, "selected")
			}
		}
	default:
		setAttr(e.node, "value", value)
	}
}

// Checked reports whether the checked attribute is present.
func (e *Element) Checked() bool {
	return e.HasAttr("checked")
}

// SetChecked toggles the checked attribute.
func (e *Element) SetChecked(checked bool) {
	e.toggleBoolAttr("checked", checked)
}

// Disabled reports whether the disabled attribute is present.
func (e *Element) Disabled() bool {
	return e.HasAttr("disabled")
}

// SetDisabled toggles the disabled attribute.
func (e *Element) SetDisabled(disabled bool) {
	e.toggleBoolAttr("disabled", disabled)
}

func (e *Element) toggleBoolAttr(key string, on bool) {
	if on {
		e.SetAttr(key, "")
		return
	}
	e.RemoveAttr(key)
}

// Style returns one inline style property.
func (e *Element) Style(prop string) string {
	prop = strings.ToLower(strings.TrimSpace(prop))
	for _, decl := range parseStyle(e.GetAttr("style")) {
		if decl.prop == prop {
			return decl.value
		}
	}
	return ""
}

// SetStyle sets one inline style property; an empty value removes it.
func (e *Element) SetStyle(prop, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	decls := parseStyle(attrValue(e.node, "style"))
	decls = setDeclaration(decls, strings.ToLower(strings.TrimSpace(prop)), strings.TrimSpace(value))
	setAttr(e.node, "style", formatStyle(decls))
}

// SetCSSText replaces the whole inline style, like style.cssText.
func (e *Element) SetCSSText(raw string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, "style", formatStyle(parseStyle(raw)))
}

// Matches reports whether sel matches the element itself.
func (e *Element) Matches(sel Selector) bool {
	if sel == nil {
		return false
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return sel(e.node)
}

// Parent returns the parent element, or nil for detached or top-level nodes.
func (e *Element) Parent() *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	parent := e.node.Parent
	if parent == nil || parent.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(parent)
}

// Closest returns the nearest inclusive ancestor matching sel.
func (e *Element) Closest(sel Selector) *Element {
	if sel == nil {
		return nil
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && sel(n) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// Query returns the first descendant matching sel.
func (e *Element) Query(sel Selector) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.wrap(findFirst(e.node, sel))
}

// QueryAll returns all descendants matching sel in document order.
func (e *Element) QueryAll(sel Selector) []*Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.wrapAll(findAll(e.node, sel))
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	if child == nil || child == e {
		return
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// IsConnected reports whether the element is attached to its document.
func (e *Element) IsConnected() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func removeChildren(n *html.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		child = next
	}
}

func setText(n *html.Node, text string) {
	removeChildren(n)
	if text == "" {
		return
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	walk(n, func(child *html.Node) bool {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
		return true
	})
	return b.String()
}

func controlValue(n *html.Node) string {
	switch n.Data {
	case "textarea":
		return textContent(n)
	case "select":
		options := findAll(n, Tag("option"))
		for _, option := range options {
			if _, ok := lookupAttr(option, "selected"); ok {
				return optionValue(option)
			}
		}
		if len(options) > 0 {
			return optionValue(options[0])
		}
		return ""
	case "input":
		if val, ok := lookupAttr(n, "value"); ok {
			return val
		}
		switch strings.ToLower(attrValue(n, "type")) {
		case "checkbox", "radio":
			return "on"
		}
		return ""
	default:
		return attrValue(n, "value")
	}
}

func optionValue(n *html.Node) string {
	if val, ok := lookupAttr(n, "value"); ok {
		return val
	}
	return strings.TrimSpace(textContent(n))
}

package submit

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/goliatone/go-siteform/pkg/dom"
)

// Entry is one name/value pair of a serialised form.
type Entry struct {
	Name  string
	Value string
}

// Payload is an ordered list of form entries. Duplicate names are kept; the
// flat views (Get, Values, MarshalJSON) resolve them with the last value.
type Payload struct {
	entries []Entry
}

var controlSelector = dom.Any(dom.Tag("input"), dom.Tag("select"), dom.Tag("textarea"))

var skippedInputTypes = map[string]struct{}{
	"submit": {},
	"button": {},
	"reset":  {},
	"image":  {},
	"file":   {},
}

// NewPayload builds a payload from entries. Entries with a blank name are
// dropped.
func NewPayload(entries ...Entry) Payload {
	var p Payload
	for _, entry := range entries {
		p.Add(entry.Name, entry.Value)
	}
	return p
}

// FromValues builds a payload from a map, ordering entries by name.
func FromValues(values map[string]string) Payload {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	var p Payload
	for _, name := range names {
		p.Add(name, values[name])
	}
	return p
}

// Serialize collects the successful controls of form the way FormData does:
// named and enabled controls only, checkboxes and radios when checked, the
// selected option of a select, and no buttons or file inputs.
func Serialize(form *dom.Element) Payload {
	var p Payload
	if form == nil {
		return p
	}
	for _, el := range form.QueryAll(controlSelector) {
		name := el.GetAttr("name")
		if strings.TrimSpace(name) == "" || el.Disabled() {
			continue
		}
		if el.Tag() == "input" {
			kind := strings.ToLower(el.GetAttr("type"))
			if _, skip := skippedInputTypes[kind]; skip {
				continue
			}
			if (kind == "checkbox" || kind == "radio") && !el.Checked() {
				continue
			}
		}
		p.Add(name, el.Value())
	}
	return p
}

// Add appends an entry. Blank names are ignored.
func (p *Payload) Add(name, value string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	p.entries = append(p.entries, Entry{Name: name, Value: value})
}

// Entries returns a copy of the entries in insertion order.
func (p Payload) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Len reports the number of entries.
func (p Payload) Len() int {
	return len(p.entries)
}

// Get returns the last value recorded for name.
func (p Payload) Get(name string) (string, bool) {
	for i := len(p.entries) - 1; i >= 0; i-- {
		if p.entries[i].Name == name {
			return p.entries[i].Value, true
		}
	}
	return "", false
}

// Values flattens the payload into a map; later entries win.
func (p Payload) Values() map[string]string {
	out := make(map[string]string, len(p.entries))
	for _, entry := range p.entries {
		out[entry.Name] = entry.Value
	}
	return out
}

// Names returns the distinct names in first-seen order.
func (p Payload) Names() []string {
	seen := make(map[string]struct{}, len(p.entries))
	names := make([]string, 0, len(p.entries))
	for _, entry := range p.entries {
		if _, ok := seen[entry.Name]; ok {
			continue
		}
		seen[entry.Name] = struct{}{}
		names = append(names, entry.Name)
	}
	return names
}

// MarshalJSON encodes the payload as a flat object. Keys keep their first
// position and carry their last value.
func (p Payload) MarshalJSON() ([]byte, error) {
	values := p.Values()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

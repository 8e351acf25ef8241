package openapi

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-siteform/pkg/model"
)

const (
	extKind     = "x-kind"
	extNameLike = "x-name-like"
	extHoneypot = "x-honeypot"
	extOrder    = "x-order"
	extLabel    = "x-label"
)

var defaultNameLike = map[string]struct{}{
	"firstName": {},
	"lastName":  {},
}

// FieldSpecs resolves sel and converts its request body schema.
func (d *Document) FieldSpecs(sel Selector) ([]model.FieldSpec, error) {
	method, path, op, err := d.Operation(sel)
	if err != nil {
		return nil, err
	}
	schema := requestSchema(op)
	if schema == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNoRequestSchema, method, path)
	}
	specs, err := SchemaFieldSpecs(schema)
	if err != nil {
		return nil, fmt.Errorf("openapi: %s %s: %w", method, path, err)
	}
	return specs, nil
}

// SchemaFieldSpecs converts the properties of an object schema, including
// those contributed through allOf.
func SchemaFieldSpecs(schema *openapi3.Schema) ([]model.FieldSpec, error) {
	properties := map[string]*openapi3.Schema{}
	required := map[string]struct{}{}
	flatten(schema, properties, required)
	if len(properties) == 0 {
		return nil, ErrNoRequestSchema
	}

	type entry struct {
		spec  model.FieldSpec
		order float64
	}
	entries := make([]entry, 0, len(properties))
	for name, prop := range properties {
		if boolExtension(prop.Extensions, extHoneypot) {
			continue
		}
		kind, err := kindOf(prop)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		_, req := required[name]
		spec := model.FieldSpec{
			Name:        name,
			Label:       labelOf(name, prop),
			Kind:        kind,
			Required:    req,
			Description: prop.Description,
		}
		if kind == model.FieldKindText {
			_, byName := defaultNameLike[name]
			if v, ok := prop.Extensions[extNameLike].(bool); ok {
				byName = v
			}
			spec.NameLike = byName
		}
		entries = append(entries, entry{spec: spec, order: orderOf(prop)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].spec.Name < entries[j].spec.Name
	})
	specs := make([]model.FieldSpec, len(entries))
	for i, e := range entries {
		specs[i] = e.spec
	}
	return specs, nil
}

func flatten(schema *openapi3.Schema, properties map[string]*openapi3.Schema, required map[string]struct{}) {
	if schema == nil {
		return
	}
	for _, ref := range schema.AllOf {
		if ref != nil {
			flatten(ref.Value, properties, required)
		}
	}
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		properties[name] = ref.Value
	}
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}
}

func kindOf(prop *openapi3.Schema) (model.FieldKind, error) {
	if raw, ok := prop.Extensions[extKind].(string); ok {
		return model.ParseFieldKind(raw)
	}
	if firstSchemaType(prop.Type) == openapi3.TypeBoolean {
		return model.FieldKindCheckbox, nil
	}
	switch strings.ToLower(prop.Format) {
	case "email":
		return model.FieldKindEmail, nil
	case "tel", "phone":
		return model.FieldKindPhone, nil
	case "textarea", "multiline":
		return model.FieldKindMultiLine, nil
	}
	return model.FieldKindText, nil
}

func labelOf(name string, prop *openapi3.Schema) string {
	if label, ok := prop.Extensions[extLabel].(string); ok && label != "" {
		return label
	}
	if prop.Title != "" {
		return prop.Title
	}
	return name
}

// orderOf reads x-order; unordered properties sort after ordered ones.
func orderOf(prop *openapi3.Schema) float64 {
	switch v := prop.Extensions[extOrder].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return math.MaxFloat64
}

func boolExtension(ext map[string]any, key string) bool {
	v, ok := ext[key].(bool)
	return ok && v
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

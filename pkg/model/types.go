package model

import (
	"fmt"
	"strings"
)

// FieldKind is the tagged variant that selects a field's validation rule.
type FieldKind string

const (
	FieldKindText      FieldKind = "text"
	FieldKindEmail     FieldKind = "email"
	FieldKindPhone     FieldKind = "phone"
	FieldKindMultiLine FieldKind = "multiline"
	FieldKindCheckbox  FieldKind = "checkbox"
)

// FieldKinds lists every kind in declaration order.
func FieldKinds() []FieldKind {
	return []FieldKind{
		FieldKindText,
		FieldKindEmail,
		FieldKindPhone,
		FieldKindMultiLine,
		FieldKindCheckbox,
	}
}

// ParseFieldKind accepts the kind names plus the HTML spellings used by
// inputs ("tel", "textarea").
func ParseFieldKind(raw string) (FieldKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text":
		return FieldKindText, nil
	case "email":
		return FieldKindEmail, nil
	case "phone", "tel":
		return FieldKindPhone, nil
	case "multiline", "textarea":
		return FieldKindMultiLine, nil
	case "checkbox":
		return FieldKindCheckbox, nil
	default:
		return "", fmt.Errorf("model: unknown field kind %q", raw)
	}
}

// UnmarshalText lets configuration files spell kinds loosely.
func (k *FieldKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Reason identifies why a field is invalid. The zero value means valid.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonRequired  Reason = "required"
	ReasonEmail     Reason = "email"
	ReasonPhone     Reason = "phone"
	ReasonName      Reason = "name"
	ReasonTooShort  Reason = "too_short"
	ReasonUnchecked Reason = "unchecked"
)

// Validity is the per-field validation outcome.
type Validity struct {
	Valid   bool   `json:"valid"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Valid is the passing Validity.
func Valid() Validity {
	return Validity{Valid: true}
}

// Invalid builds a failing Validity.
func Invalid(reason Reason, message string) Validity {
	return Validity{Reason: reason, Message: message}
}

// Field is one input as seen by the validator.
type Field struct {
	Name     string    `json:"name"`
	ID       string    `json:"id,omitempty"`
	Kind     FieldKind `json:"kind"`
	Value    string    `json:"value,omitempty"`
	Checked  bool      `json:"checked,omitempty"`
	Required bool      `json:"required"`
	// NameLike enables the personal-name pattern on text fields.
	NameLike bool     `json:"nameLike,omitempty"`
	Validity Validity `json:"validity"`
}

// FormState is the ordered set of fields of one form.
type FormState struct {
	Fields []Field `json:"fields"`
}

// Valid reports whether every field is valid.
func (s FormState) Valid() bool {
	for _, field := range s.Fields {
		if !field.Validity.Valid {
			return false
		}
	}
	return true
}

// Invalid returns the fields that failed, in form order.
func (s FormState) Invalid() []Field {
	var out []Field
	for _, field := range s.Fields {
		if !field.Validity.Valid {
			out = append(out, field)
		}
	}
	return out
}

// FieldSpec describes a field independently of any document: the contact
// endpoint validates payload keys against specs and the terminal session
// prompts for them.
type FieldSpec struct {
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Required    bool      `json:"required" yaml:"required"`
	NameLike    bool      `json:"nameLike,omitempty" yaml:"nameLike,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// Field converts the spec into a Field carrying value. For checkboxes any
// non-empty value other than "false"/"0"/"off" counts as checked.
func (s FieldSpec) Field(value string) Field {
	kind := s.Kind
	if kind == "" {
		kind = FieldKindText
	}
	field := Field{
		Name:     s.Name,
		Kind:     kind,
		Value:    value,
		Required: s.Required,
		NameLike: s.NameLike,
	}
	if kind == FieldKindCheckbox {
		field.Checked = truthy(value)
	}
	return field
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "off", "no":
		return false
	default:
		return true
	}
}

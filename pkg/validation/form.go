package validation

import (
	"strings"

	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/model"
)

const (
	errorClass   = "invalid-feedback c-form__error"
	hasErrorMark = "has-error"
	ariaInvalid  = "aria-invalid"
)

// DefaultNameFields are the text inputs (by id) validated as personal names.
var DefaultNameFields = []string{"firstName", "lastName"}

var (
	groupSelector = dom.Class("c-form__group")
	checkSelector = dom.Class("form-check")
	errorSelector = dom.Any(dom.Class("invalid-feedback"), dom.Class("c-form__error"))
)

// FormOption configures a FormValidator.
type FormOption func(*FormValidator)

// WithNameFields replaces the ids treated as name-like text fields.
func WithNameFields(ids ...string) FormOption {
	return func(fv *FormValidator) {
		fv.nameFields = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				fv.nameFields[id] = struct{}{}
			}
		}
	}
}

// FormValidator validates the required fields of one form element and
// mirrors the outcome into the document: an inline error element, the
// aria-invalid attribute and a has-error marker on the field wrapper.
type FormValidator struct {
	validator  *Validator
	form       *dom.Element
	fields     []*dom.Element
	nameFields map[string]struct{}
}

// NewFormValidator collects the required fields of form.
func NewFormValidator(form *dom.Element, v *Validator, options ...FormOption) *FormValidator {
	if v == nil {
		v = New()
	}
	fv := &FormValidator{
		validator: v,
		form:      form,
	}
	WithNameFields(DefaultNameFields...)(fv)
	for _, opt := range options {
		if opt != nil {
			opt(fv)
		}
	}
	if form != nil {
		fv.fields = form.QueryAll(dom.HasAttr("required"))
	}
	return fv
}

// Fields returns the required field elements in document order.
func (fv *FormValidator) Fields() []*dom.Element {
	return append([]*dom.Element(nil), fv.fields...)
}

// FieldFor reads the element's current state into a model.Field.
func (fv *FormValidator) FieldFor(el *dom.Element) model.Field {
	field := model.Field{
		Name:     el.GetAttr("name"),
		ID:       el.ID(),
		Kind:     KindOf(el),
		Value:    el.Value(),
		Required: el.HasAttr("required"),
	}
	switch field.Kind {
	case model.FieldKindCheckbox:
		field.Checked = el.Checked()
	case model.FieldKindText:
		_, byID := fv.nameFields[field.ID]
		field.NameLike = byID || el.GetAttr("data-validate") == "name"
	}
	return field
}

// KindOf maps an element to its FieldKind. Inputs of other types (number,
// date, select...) validate as plain text, which only enforces required.
func KindOf(el *dom.Element) model.FieldKind {
	if el.Tag() == "textarea" {
		return model.FieldKindMultiLine
	}
	switch strings.ToLower(el.GetAttr("type")) {
	case "email":
		return model.FieldKindEmail
	case "tel":
		return model.FieldKindPhone
	case "checkbox":
		return model.FieldKindCheckbox
	default:
		return model.FieldKindText
	}
}

// ValidateField validates el and updates its error display.
func (fv *FormValidator) ValidateField(el *dom.Element) model.Validity {
	validity := fv.validator.Validate(fv.FieldFor(el))
	toggleError(el, validity)
	return validity
}

// ValidateAll validates every required field and reports overall validity.
func (fv *FormValidator) ValidateAll() bool {
	valid := true
	for _, el := range fv.fields {
		if !fv.ValidateField(el).Valid {
			valid = false
		}
	}
	return valid
}

// State validates every required field and returns the resulting FormState
// without touching the document.
func (fv *FormValidator) State() model.FormState {
	state := model.FormState{Fields: make([]model.Field, 0, len(fv.fields))}
	for _, el := range fv.fields {
		state.Fields = append(state.Fields, fv.FieldFor(el))
	}
	fv.validator.ValidateState(&state)
	return state
}

// AttachListeners re-validates a field on blur, and on input once the field
// has been marked invalid.
func (fv *FormValidator) AttachListeners() {
	for _, el := range fv.fields {
		field := el
		field.On(dom.EventBlur, func(*dom.Event) {
			fv.ValidateField(field)
		})
		field.On(dom.EventInput, func(*dom.Event) {
			if field.GetAttr(ariaInvalid) == "true" {
				fv.ValidateField(field)
			}
		})
	}
}

func toggleError(field *dom.Element, validity model.Validity) {
	wrapper := field.Closest(groupSelector)
	if wrapper == nil {
		wrapper = field.Closest(checkSelector)
	}
	if wrapper == nil {
		wrapper = field.Parent()
	}
	if wrapper == nil {
		return
	}
	errorEl := wrapper.Query(errorSelector)

	if !validity.Valid {
		if errorEl == nil {
			errorEl = field.Document().CreateElement("div")
			errorEl.SetAttr("class", errorClass)
			wrapper.AppendChild(errorEl)
		}
		errorEl.SetText(validity.Message)
		errorEl.SetStyle("display", "block")
		field.SetAttr(ariaInvalid, "true")
		wrapper.AddClass(hasErrorMark)
		return
	}

	if errorEl != nil {
		errorEl.SetStyle("display", "none")
	}
	field.RemoveAttr(ariaInvalid)
	wrapper.RemoveClass(hasErrorMark)
}

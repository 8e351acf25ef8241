package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/model"
)

// DefaultMessageMinLength is the minimum length of multi-line messages.
const DefaultMessageMinLength = 10

// space is the browser's whitespace class. RE2's \s only covers ASCII, so
// the vertical tab, Unicode separators (NBSP included) and the BOM are added.
const space = `\s\x0B\pZ\x{FEFF}`

var (
	// NamePattern accepts 2-50 letters (Latin-1 accents included), spaces,
	// hyphens and apostrophes.
	NamePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿ` + space + `'-]{2,50}$`)
	// EmailPattern is the deliberately loose local@domain.tld check.
	EmailPattern = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	// PhonePattern accepts 10-20 digits and phone punctuation.
	PhonePattern = regexp.MustCompile(`^[\d+\-` + space + `()]{10,20}$`)
)

// rule checks a non-empty, trimmed value for one FieldKind.
type rule func(v *Validator, field model.Field, value string) model.Validity

var kindRules = map[model.FieldKind]rule{
	model.FieldKindText:      validateText,
	model.FieldKindEmail:     validateEmail,
	model.FieldKindPhone:     validatePhone,
	model.FieldKindMultiLine: validateMultiLine,
	model.FieldKindCheckbox:  validateCheckbox,
}

// Option configures a Validator.
type Option func(*Validator)

// WithLocalizer sets the localizer used for messages.
func WithLocalizer(l i18n.Localizer) Option {
	return func(v *Validator) {
		v.localizer = l
	}
}

// WithMessageMinLength overrides the multi-line minimum length.
func WithMessageMinLength(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.minLength = n
		}
	}
}

// Validator applies the per-kind rule table. It holds no mutable state and is
// safe for concurrent use.
type Validator struct {
	localizer i18n.Localizer
	minLength int
}

// New builds a Validator with Dutch messages by default.
func New(options ...Option) *Validator {
	v := &Validator{
		localizer: i18n.NewLocalizer(nil, i18n.DefaultLocale),
		minLength: DefaultMessageMinLength,
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Localizer exposes the localizer so callers share the message catalog.
func (v *Validator) Localizer() i18n.Localizer {
	return v.localizer
}

// Validate evaluates one field. Empty required fields fail with
// ReasonRequired; empty optional fields pass without further checks.
func (v *Validator) Validate(field model.Field) model.Validity {
	value := strings.TrimSpace(field.Value)
	if value == "" {
		if field.Required {
			return model.Invalid(model.ReasonRequired, v.localizer.T("validation.required"))
		}
		return model.Valid()
	}
	check, ok := kindRules[field.Kind]
	if !ok {
		return model.Valid()
	}
	return check(v, field, value)
}

// ValidateState validates every field in place and reports overall validity.
// All fields are evaluated, failing ones do not short circuit.
func (v *Validator) ValidateState(state *model.FormState) bool {
	if state == nil {
		return true
	}
	valid := true
	for i := range state.Fields {
		state.Fields[i].Validity = v.Validate(state.Fields[i])
		if !state.Fields[i].Validity.Valid {
			valid = false
		}
	}
	return valid
}

// ValidateValues builds a FormState from specs and a flat payload and
// validates it.
func (v *Validator) ValidateValues(specs []model.FieldSpec, values map[string]string) model.FormState {
	state := model.FormState{Fields: make([]model.Field, 0, len(specs))}
	for _, spec := range specs {
		state.Fields = append(state.Fields, spec.Field(values[spec.Name]))
	}
	v.ValidateState(&state)
	return state
}

func validateText(v *Validator, field model.Field, value string) model.Validity {
	if field.NameLike && !NamePattern.MatchString(value) {
		return model.Invalid(model.ReasonName, v.localizer.T("validation.name"))
	}
	return model.Valid()
}

func validateEmail(v *Validator, _ model.Field, value string) model.Validity {
	if !EmailPattern.MatchString(value) {
		return model.Invalid(model.ReasonEmail, v.localizer.T("validation.email"))
	}
	return model.Valid()
}

func validatePhone(v *Validator, _ model.Field, value string) model.Validity {
	if !PhonePattern.MatchString(value) {
		return model.Invalid(model.ReasonPhone, v.localizer.T("validation.phone"))
	}
	return model.Valid()
}

func validateMultiLine(v *Validator, _ model.Field, value string) model.Validity {
	if utf8.RuneCountInString(value) < v.minLength {
		return model.Invalid(model.ReasonTooShort, v.localizer.T("validation.too_short", v.minLength))
	}
	return model.Valid()
}

func validateCheckbox(v *Validator, field model.Field, _ string) model.Validity {
	if !field.Checked {
		return model.Invalid(model.ReasonUnchecked, v.localizer.T("validation.unchecked"))
	}
	return model.Valid()
}

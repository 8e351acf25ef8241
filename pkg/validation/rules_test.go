package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/model"
	"github.com/goliatone/go-siteform/pkg/validation"
)

func TestValidateRules(t *testing.T) {
	v := validation.New()

	cases := []struct {
		name  string
		field model.Field
		want  model.Validity
	}{
		{
			name:  "required empty text",
			field: model.Field{Kind: model.FieldKindText, Required: true, Value: "   "},
			want:  model.Invalid(model.ReasonRequired, "Dit veld is verplicht"),
		},
		{
			name:  "optional empty email",
			field: model.Field{Kind: model.FieldKindEmail},
			want:  model.Valid(),
		},
		{
			name:  "email without tld",
			field: model.Field{Kind: model.FieldKindEmail, Required: true, Value: "a@b"},
			want:  model.Invalid(model.ReasonEmail, "Voer een geldig e-mailadres in"),
		},
		{
			name:  "email with tld",
			field: model.Field{Kind: model.FieldKindEmail, Required: true, Value: "a@b.com"},
			want:  model.Valid(),
		},
		{
			name:  "phone too short",
			field: model.Field{Kind: model.FieldKindPhone, Required: true, Value: "06-1234"},
			want:  model.Invalid(model.ReasonPhone, "Voer een geldig telefoonnummer in"),
		},
		{
			name:  "phone with punctuation",
			field: model.Field{Kind: model.FieldKindPhone, Required: true, Value: "+31 (0)6 1234 5678"},
			want:  model.Valid(),
		},
		{
			name:  "phone with letters",
			field: model.Field{Kind: model.FieldKindPhone, Required: true, Value: "06-12345678x"},
			want:  model.Invalid(model.ReasonPhone, "Voer een geldig telefoonnummer in"),
		},
		{
			name:  "name with non-breaking space",
			field: model.Field{Kind: model.FieldKindText, NameLike: true, Required: true, Value: "Anna\u00a0Maria"},
			want:  model.Valid(),
		},
		{
			name:  "email with non-breaking space",
			field: model.Field{Kind: model.FieldKindEmail, Required: true, Value: "anna\u00a0maria@example.nl"},
			want:  model.Invalid(model.ReasonEmail, "Voer een geldig e-mailadres in"),
		},
		{
			name:  "phone with narrow no-break space",
			field: model.Field{Kind: model.FieldKindPhone, Required: true, Value: "06\u202f1234\u202f5678"},
			want:  model.Valid(),
		},
		{
			name:  "name with accents and apostrophe",
			field: model.Field{Kind: model.FieldKindText, NameLike: true, Required: true, Value: "Zoë d'Anjou-Élise"},
			want:  model.Valid(),
		},
		{
			name:  "name with digits",
			field: model.Field{Kind: model.FieldKindText, NameLike: true, Required: true, Value: "R2D2"},
			want:  model.Invalid(model.ReasonName, "Voer een geldige naam in (2-50 tekens)"),
		},
		{
			name:  "name too short",
			field: model.Field{Kind: model.FieldKindText, NameLike: true, Required: true, Value: "A"},
			want:  model.Invalid(model.ReasonName, "Voer een geldige naam in (2-50 tekens)"),
		},
		{
			name:  "plain text skips name pattern",
			field: model.Field{Kind: model.FieldKindText, Required: true, Value: "R2D2"},
			want:  model.Valid(),
		},
		{
			name:  "message of nine characters",
			field: model.Field{Kind: model.FieldKindMultiLine, Required: true, Value: "123456789"},
			want:  model.Invalid(model.ReasonTooShort, "Voer minimaal 10 tekens in"),
		},
		{
			name:  "message of ten characters",
			field: model.Field{Kind: model.FieldKindMultiLine, Required: true, Value: "1234567890"},
			want:  model.Valid(),
		},
		{
			name:  "message length ignores surrounding whitespace",
			field: model.Field{Kind: model.FieldKindMultiLine, Required: true, Value: "   123456789   "},
			want:  model.Invalid(model.ReasonTooShort, "Voer minimaal 10 tekens in"),
		},
		{
			name:  "unchecked checkbox",
			field: model.Field{Kind: model.FieldKindCheckbox, Required: true, Value: "on"},
			want:  model.Invalid(model.ReasonUnchecked, "U moet akkoord gaan met de voorwaarden"),
		},
		{
			name:  "checked checkbox",
			field: model.Field{Kind: model.FieldKindCheckbox, Required: true, Value: "on", Checked: true},
			want:  model.Valid(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := v.Validate(tc.field)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("validity mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateEnglishMessagesAndMinLength(t *testing.T) {
	v := validation.New(
		validation.WithLocalizer(i18n.NewLocalizer(i18n.Default(), "en")),
		validation.WithMessageMinLength(20),
	)
	got := v.Validate(model.Field{Kind: model.FieldKindMultiLine, Value: strings.Repeat("x", 19)})
	want := model.Invalid(model.ReasonTooShort, "Enter at least 20 characters")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("validity mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateValuesFromSpecs(t *testing.T) {
	v := validation.New()
	specs := []model.FieldSpec{
		{Name: "firstName", Kind: model.FieldKindText, Required: true, NameLike: true},
		{Name: "email", Kind: model.FieldKindEmail, Required: true},
		{Name: "privacy", Kind: model.FieldKindCheckbox, Required: true},
		{Name: "company", Kind: model.FieldKindText},
	}

	state := v.ValidateValues(specs, map[string]string{
		"firstName": "Anna",
		"email":     "anna@example",
		"privacy":   "on",
	})
	if state.Valid() {
		t.Fatalf("expected invalid state")
	}

	var reasons []model.Reason
	for _, field := range state.Fields {
		reasons = append(reasons, field.Validity.Reason)
	}
	want := []model.Reason{model.ReasonNone, model.ReasonEmail, model.ReasonNone, model.ReasonNone}
	if diff := cmp.Diff(want, reasons); diff != "" {
		t.Fatalf("reasons mismatch (-want +got):\n%s", diff)
	}
	if got := len(state.Invalid()); got != 1 {
		t.Fatalf("expected one invalid field, got %d", got)
	}
}

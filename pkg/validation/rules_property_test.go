package validation_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-siteform/pkg/model"
	"github.com/goliatone/go-siteform/pkg/validation"
)

func TestValidatorProperties(t *testing.T) {
	v := validation.New()
	properties := gopter.NewProperties(nil)

	kinds := make([]interface{}, 0, len(model.FieldKinds()))
	for _, kind := range model.FieldKinds() {
		kinds = append(kinds, kind)
	}

	properties.Property("required blank fields fail with the required reason", prop.ForAll(
		func(kind model.FieldKind, blanks int, nameLike bool) bool {
			field := model.Field{
				Kind:     kind,
				Required: true,
				NameLike: nameLike,
				Value:    strings.Repeat(" ", blanks),
			}
			got := v.Validate(field)
			return !got.Valid && got.Reason == model.ReasonRequired && got.Message != ""
		},
		gen.OneConstOf(kinds...),
		gen.IntRange(0, 8),
		gen.Bool(),
	))

	properties.Property("optional blank fields always pass", prop.ForAll(
		func(kind model.FieldKind, blanks int) bool {
			field := model.Field{Kind: kind, Value: strings.Repeat("\t", blanks)}
			return v.Validate(field).Valid
		},
		gen.OneConstOf(kinds...),
		gen.IntRange(0, 8),
	))

	properties.Property("multi-line validity flips at the minimum length", prop.ForAll(
		func(n int) bool {
			field := model.Field{
				Kind:     model.FieldKindMultiLine,
				Required: true,
				Value:    strings.Repeat("a", n),
			}
			got := v.Validate(field)
			if n < validation.DefaultMessageMinLength {
				return !got.Valid && got.Reason == model.ReasonTooShort
			}
			return got.Valid
		},
		gen.IntRange(1, 40),
	))

	properties.Property("alphabetic names of 2-50 letters pass", prop.ForAll(
		func(name string) bool {
			field := model.Field{Kind: model.FieldKindText, NameLike: true, Value: name}
			return v.Validate(field).Valid
		},
		gen.RegexMatch(`^[a-zA-Z]{2,50}$`),
	))

	properties.Property("digit-only phone numbers of 10-20 digits pass", prop.ForAll(
		func(phone string) bool {
			field := model.Field{Kind: model.FieldKindPhone, Value: phone}
			return v.Validate(field).Valid
		},
		gen.RegexMatch(`^[0-9]{10,20}$`),
	))

	properties.TestingRun(t)
}

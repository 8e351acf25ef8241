package i18n

import "strings"

// MissingTranslationHandler decides the string used when a key cannot be
// translated. args carries the formatting arguments of the failed lookup.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Localizer binds a Translator to one locale. The zero value returns keys
// verbatim.
type Localizer struct {
	translator Translator
	locale     string
	onMissing  MissingTranslationHandler
}

// NewLocalizer builds a Localizer. A nil translator falls back to the default
// embedded catalog.
func NewLocalizer(t Translator, locale string) Localizer {
	if t == nil {
		t = Default()
	}
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	return Localizer{translator: t, locale: locale}
}

// WithMissingHandler returns a copy using fn for missing keys.
func (l Localizer) WithMissingHandler(fn MissingTranslationHandler) Localizer {
	l.onMissing = fn
	return l
}

// Locale returns the bound locale.
func (l Localizer) Locale() string {
	return l.locale
}

// T translates key, falling back to the missing handler or the key itself.
func (l Localizer) T(key string, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	onMissing := l.onMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if l.translator == nil {
		return onMissing(l.locale, key, args, ErrMissingTranslator)
	}
	msg, err := l.translator.Translate(l.locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(l.locale, key, args, err)
	}
	return msg
}

func missingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

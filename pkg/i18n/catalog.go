// Package i18n holds the message catalogs used for validation errors,
// notifications and control labels. Catalogs are flat key/value YAML or JSON
// files, one per locale; Dutch and English ship embedded.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is the locale the site is written in.
const DefaultLocale = "nl"

var (
	// ErrMissingTranslator is passed to MissingTranslationHandler when no
	// Translator is configured.
	ErrMissingTranslator = errors.New("i18n: translator is not configured")
	// ErrMissingTranslation reports a key absent from every candidate locale.
	ErrMissingTranslation = errors.New("i18n: missing translation")
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// Translator resolves a message key for a locale. Args are applied with
// fmt.Sprintf semantics.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Catalog is an in-memory Translator. It is safe for concurrent readers once
// loaded.
type Catalog struct {
	fallback string
	messages map[string]map[string]string
}

type catalogFile struct {
	Locale   string            `json:"locale" yaml:"locale"`
	Messages map[string]string `json:"messages" yaml:"messages"`
}

// Default returns the embedded catalog with Dutch as fallback locale.
func Default() *Catalog {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		panic(fmt.Errorf("i18n: embedded locales: %w", err))
	}
	catalog, err := LoadFS(sub, DefaultLocale)
	if err != nil {
		panic(err)
	}
	return catalog
}

// LoadFS walks fsys and merges every JSON/YAML catalog file. The locale comes
// from the file's `locale` key, or its base name when omitted.
func LoadFS(fsys fs.FS, fallback string) (*Catalog, error) {
	catalog := &Catalog{
		fallback: normalizeLocale(fallback),
		messages: make(map[string]map[string]string),
	}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", path, err)
		}
		file, err := parseCatalog(data, path)
		if err != nil {
			return err
		}
		locale := normalizeLocale(file.Locale)
		if locale == "" {
			locale = normalizeLocale(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		}
		catalog.Merge(locale, file.Messages)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Merge adds or overrides messages for locale.
func (c *Catalog) Merge(locale string, messages map[string]string) {
	locale = normalizeLocale(locale)
	if locale == "" || len(messages) == 0 {
		return
	}
	bucket, ok := c.messages[locale]
	if !ok {
		bucket = make(map[string]string, len(messages))
		c.messages[locale] = bucket
	}
	for key, msg := range messages {
		if key = strings.TrimSpace(key); key != "" {
			bucket[key] = msg
		}
	}
}

// Locales lists the loaded locales in sorted order.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate looks the key up in locale, then its base language ("nl-BE" ->
// "nl"), then the fallback locale.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	for _, candidate := range c.candidates(locale) {
		msg, ok := c.messages[candidate][key]
		if !ok {
			continue
		}
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...), nil
		}
		return msg, nil
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

func (c *Catalog) candidates(locale string) []string {
	locale = normalizeLocale(locale)
	out := make([]string, 0, 3)
	if locale != "" {
		out = append(out, locale)
		if base, _, ok := strings.Cut(locale, "-"); ok {
			out = append(out, base)
		}
	}
	if c.fallback != "" {
		out = append(out, c.fallback)
	}
	return out
}

func parseCatalog(data []byte, source string) (catalogFile, error) {
	var file catalogFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return catalogFile{}, fmt.Errorf("i18n: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	if err := yaml.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	return catalogFile{}, fmt.Errorf("i18n: parse %s: invalid JSON or YAML", source)
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}

// Package config loads the site configuration: where the form posts, which
// fields it carries, the timings of the page effects and the settings of the
// contact endpoint server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-siteform/pkg/model"
)

// ErrInvalidConfig marks configuration that fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full site configuration.
type Config struct {
	Locale           string            `json:"locale" yaml:"locale"`
	Endpoint         string            `json:"endpoint" yaml:"endpoint"`
	ConfirmationPage string            `json:"confirmationPage" yaml:"confirmationPage"`
	HoneypotField    string            `json:"honeypotField" yaml:"honeypotField"`
	NameFields       []string          `json:"nameFields" yaml:"nameFields"`
	MessageMinLength int               `json:"messageMinLength" yaml:"messageMinLength"`
	TemplatesDir     string            `json:"templatesDir" yaml:"templatesDir"`
	Fields           []model.FieldSpec `json:"fields" yaml:"fields"`
	Timings          Timings           `json:"timings" yaml:"timings"`
	Effects          Effects           `json:"effects" yaml:"effects"`
	Server           Server            `json:"server" yaml:"server"`
	Log              Log               `json:"log" yaml:"log"`
}

// Timings groups the delays of the page components.
type Timings struct {
	NavigationDelay  Duration `json:"navigationDelay" yaml:"navigationDelay"`
	NotificationHide Duration `json:"notificationHide" yaml:"notificationHide"`
	NotificationFade Duration `json:"notificationFade" yaml:"notificationFade"`
	ResizeDebounce   Duration `json:"resizeDebounce" yaml:"resizeDebounce"`
	RequestTimeout   Duration `json:"requestTimeout" yaml:"requestTimeout"`
}

// Effects holds the thresholds of the scroll and navigation effects.
type Effects struct {
	HeaderScrollOffset float64 `json:"headerScrollOffset" yaml:"headerScrollOffset"`
	ScrollTopOffset    float64 `json:"scrollTopOffset" yaml:"scrollTopOffset"`
	DesktopBreakpoint  int     `json:"desktopBreakpoint" yaml:"desktopBreakpoint"`
}

// Server configures the contact endpoint.
type Server struct {
	Addr            string   `json:"addr" yaml:"addr"`
	ContactPath     string   `json:"contactPath" yaml:"contactPath"`
	StaticDir       string   `json:"staticDir" yaml:"staticDir"`
	ReadTimeout     Duration `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    Duration `json:"writeTimeout" yaml:"writeTimeout"`
	ShutdownTimeout Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
	MaxBodyBytes    int64    `json:"maxBodyBytes" yaml:"maxBodyBytes"`
}

// Log configures the logger.
type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// DefaultFields describes the site's contact form.
func DefaultFields() []model.FieldSpec {
	return []model.FieldSpec{
		{Name: "firstName", Label: "Voornaam", Kind: model.FieldKindText, Required: true, NameLike: true},
		{Name: "lastName", Label: "Achternaam", Kind: model.FieldKindText, Required: true, NameLike: true},
		{Name: "email", Label: "E-mail", Kind: model.FieldKindEmail, Required: true},
		{Name: "phone", Label: "Telefoon", Kind: model.FieldKindPhone},
		{Name: "message", Label: "Bericht", Kind: model.FieldKindMultiLine, Required: true},
		{Name: "privacy", Label: "Akkoord met de privacyverklaring", Kind: model.FieldKindCheckbox, Required: true},
	}
}

// Default returns the configuration the site ships with.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a JSON or YAML file. An empty path returns Default.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a configuration file from fsys.
func LoadFS(fsys fs.FS, path string) (Config, error) {
	if fsys == nil {
		return Config{}, errors.New("config: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes JSON, falling back to YAML, then fills defaults and
// validates.
func Parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		cfg = Config{}
		if yerr := yaml.Unmarshal(data, &cfg); yerr != nil {
			return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setString(&c.Locale, "nl")
	setString(&c.Endpoint, "process.php")
	setString(&c.ConfirmationPage, "thank_you.html")
	setString(&c.HoneypotField, "website")
	if len(c.NameFields) == 0 {
		c.NameFields = []string{"firstName", "lastName"}
	}
	if c.MessageMinLength <= 0 {
		c.MessageMinLength = 10
	}
	if len(c.Fields) == 0 {
		c.Fields = DefaultFields()
	}
	for i := range c.Fields {
		if c.Fields[i].Kind == "" {
			c.Fields[i].Kind = model.FieldKindText
		}
	}

	setDuration(&c.Timings.NavigationDelay, 1500*time.Millisecond)
	setDuration(&c.Timings.NotificationHide, 5*time.Second)
	setDuration(&c.Timings.NotificationFade, 300*time.Millisecond)
	setDuration(&c.Timings.ResizeDebounce, 150*time.Millisecond)

	if c.Effects.HeaderScrollOffset <= 0 {
		c.Effects.HeaderScrollOffset = 100
	}
	if c.Effects.ScrollTopOffset <= 0 {
		c.Effects.ScrollTopOffset = 300
	}
	if c.Effects.DesktopBreakpoint <= 0 {
		c.Effects.DesktopBreakpoint = 1024
	}

	setString(&c.Server.Addr, ":8080")
	setString(&c.Server.ContactPath, "/process.php")
	setDuration(&c.Server.ReadTimeout, 10*time.Second)
	setDuration(&c.Server.WriteTimeout, 10*time.Second)
	setDuration(&c.Server.ShutdownTimeout, 5*time.Second)
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 64 << 10
	}

	setString(&c.Log.Level, "info")
	setString(&c.Log.Format, "text")
}

// Validate checks field names and server paths.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Fields))
	for i, field := range c.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidConfig, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidConfig, name)
		}
		if name == c.HoneypotField {
			return fmt.Errorf("%w: field %q collides with the honeypot", ErrInvalidConfig, name)
		}
		seen[name] = struct{}{}
	}
	if !strings.HasPrefix(c.Server.ContactPath, "/") {
		return fmt.Errorf("%w: server.contactPath must start with /", ErrInvalidConfig)
	}
	if c.Timings.RequestTimeout < 0 {
		return fmt.Errorf("%w: timings.requestTimeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Field returns the spec named name.
func (c Config) Field(name string) (model.FieldSpec, bool) {
	for _, field := range c.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return model.FieldSpec{}, false
}

func setString(target *string, fallback string) {
	if strings.TrimSpace(*target) == "" {
		*target = fallback
	}
}

func setDuration(target *Duration, fallback time.Duration) {
	if *target <= 0 {
		*target = Duration(fallback)
	}
}

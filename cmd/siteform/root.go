// Command siteform serves the contact endpoint, submits the contact form from
// a terminal and inspects the forms of a page.
//
// Configuration precedence, highest first:
//
//  1. command-line flags
//  2. SITEFORM_* environment variables (SITEFORM_SERVER_ADDR, SITEFORM_LOG_LEVEL...)
//  3. the file named by --config or SITEFORM_CONFIG (JSON or YAML)
//  4. built-in defaults
package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-siteform/pkg/config"
	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/logging"
	"github.com/goliatone/go-siteform/pkg/model"
	"github.com/goliatone/go-siteform/pkg/openapi"
)

const envPrefix = "SITEFORM"

// overrides maps viper keys onto config fields. Keys double as flag names
// with dots replaced by dashes.
var overrides = map[string]func(cfg *config.Config, v *viper.Viper, key string){
	"locale":             func(c *config.Config, v *viper.Viper, k string) { c.Locale = v.GetString(k) },
	"endpoint":           func(c *config.Config, v *viper.Viper, k string) { c.Endpoint = v.GetString(k) },
	"honeypot":           func(c *config.Config, v *viper.Viper, k string) { c.HoneypotField = v.GetString(k) },
	"log.level":          func(c *config.Config, v *viper.Viper, k string) { c.Log.Level = v.GetString(k) },
	"log.format":         func(c *config.Config, v *viper.Viper, k string) { c.Log.Format = v.GetString(k) },
	"server.addr":        func(c *config.Config, v *viper.Viper, k string) { c.Server.Addr = v.GetString(k) },
	"server.contactpath": func(c *config.Config, v *viper.Viper, k string) { c.Server.ContactPath = v.GetString(k) },
	"server.staticdir":   func(c *config.Config, v *viper.Viper, k string) { c.Server.StaticDir = v.GetString(k) },
	"timeout": func(c *config.Config, v *viper.Viper, k string) {
		c.Timings.RequestTimeout = config.Duration(v.GetDuration(k))
	},
}

// env carries the resolved configuration into subcommands.
type env struct {
	v      *viper.Viper
	cfg    config.Config
	logger logging.Logger
}

func newRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *env) {
	e := &env{v: viper.New()}

	root := &cobra.Command{
		Use:          "siteform",
		Short:        "Contact form validation and submission for the marketing site",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (JSON or YAML), also SITEFORM_CONFIG")
	flags.String("locale", "", "message locale (nl, en)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.String("openapi", "", "derive fields from an OpenAPI document (path or URL)")
	flags.String("operation", "", "operationId of the contact operation in --openapi")
	bindFlags(e.v, flags, map[string]string{
		"config":     "config",
		"locale":     "locale",
		"log-level":  "log.level",
		"log-format": "log.format",
		"openapi":    "openapi",
		"operation":  "operation",
	})

	root.AddCommand(
		newServeCmd(e),
		newSubmitCmd(e),
		newInspectCmd(e),
	)
	return root, e
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if f := flags.Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func (e *env) load(cmd *cobra.Command) error {
	v := e.v
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	for key, apply := range overrides {
		if v.IsSet(key) && v.GetString(key) != "" {
			apply(&cfg, v, key)
		}
	}

	if source := v.GetString("openapi"); source != "" {
		specs, err := fieldsFromOpenAPI(cmd.Context(), source, v.GetString("operation"))
		if err != nil {
			return err
		}
		cfg.Fields = specs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := checkLocale(cfg.Locale); err != nil {
		return err
	}

	e.cfg = cfg
	e.logger = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// checkLocale accepts a locale whose language ships a catalog ("nl-BE" is
// served by "nl").
func checkLocale(locale string) error {
	available := i18n.Default().Locales()
	lang, _, _ := strings.Cut(strings.ToLower(strings.ReplaceAll(locale, "_", "-")), "-")
	if slices.Contains(available, lang) {
		return nil
	}
	return fmt.Errorf("locale %q has no messages (available: %s)", locale, strings.Join(available, ", "))
}

func fieldsFromOpenAPI(ctx context.Context, source, operationID string) ([]model.FieldSpec, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		doc *openapi.Document
		err error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		doc, err = openapi.LoadURL(ctx, source)
	} else {
		doc, err = openapi.LoadFile(ctx, source)
	}
	if err != nil {
		return nil, err
	}
	specs, err := doc.FieldSpecs(openapi.Selector{OperationID: operationID})
	if err != nil {
		return nil, fmt.Errorf("openapi %s: %w", source, err)
	}
	return specs, nil
}

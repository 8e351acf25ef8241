// Package siteform is the top-level entry point of the marketing site's form
// pipeline. It re-exports the pieces most callers need: the page App, the
// shared Validator and the contact server.
package siteform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-siteform/pkg/config"
	"github.com/goliatone/go-siteform/pkg/contact"
	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/logging"
	"github.com/goliatone/go-siteform/pkg/markup"
	"github.com/goliatone/go-siteform/pkg/model"
	"github.com/goliatone/go-siteform/pkg/openapi"
	"github.com/goliatone/go-siteform/pkg/site"
	"github.com/goliatone/go-siteform/pkg/validation"
)

// App aliases site.App, the per-page application context.
type App = site.App

// Config aliases config.Config.
type Config = config.Config

// FieldSpec aliases model.FieldSpec.
type FieldSpec = model.FieldSpec

// FormState aliases model.FormState.
type FormState = model.FormState

// NewApp exposes the site.App constructor from the top-level module.
func NewApp(doc *dom.Document, win *dom.Window, options ...site.Option) (*App, error) {
	return site.NewApp(doc, win, options...)
}

// Start builds an App for the page and initialises it. Repeated Init calls on
// the returned App are no-ops.
func Start(ctx context.Context, doc *dom.Document, win *dom.Window, options ...site.Option) (*App, error) {
	app, err := site.NewApp(doc, win, options...)
	if err != nil {
		return nil, err
	}
	if err := app.Init(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// ValidateValues checks a flat payload against specs with the Dutch default
// messages.
func ValidateValues(specs []FieldSpec, values map[string]string, options ...validation.Option) FormState {
	return validation.New(options...).ValidateValues(specs, values)
}

// FieldsFromOpenAPI derives field specs from the request body of an OpenAPI
// operation. An empty operationID selects the first POST operation.
func FieldsFromOpenAPI(ctx context.Context, data []byte, operationID string) ([]FieldSpec, error) {
	doc, err := openapi.LoadData(ctx, data)
	if err != nil {
		return nil, err
	}
	return doc.FieldSpecs(openapi.Selector{OperationID: operationID})
}

// NewContactServer wires the contact endpoint from cfg.
func NewContactServer(cfg Config, logger logging.Logger, sink contact.Sink) *contact.Server {
	return contact.NewServer(cfg, logger, sink)
}

// EmbeddedTemplates exposes the built-in markup templates (alert, busy label,
// image placeholder) so callers can reuse or extend them.
func EmbeddedTemplates() fs.FS {
	return markup.TemplatesFS()
}

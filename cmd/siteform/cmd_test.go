package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-siteform/pkg/config"
	"github.com/goliatone/go-siteform/pkg/contact"
	"github.com/goliatone/go-siteform/pkg/model"
	"github.com/goliatone/go-siteform/pkg/prompt"
	"github.com/goliatone/go-siteform/pkg/testsupport"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contact.html")
	require.NoError(t, os.WriteFile(path, []byte(testsupport.ContactPage), 0o644))
	return path
}

func TestInspectTable(t *testing.T) {
	out, err := run(t, "inspect", writePage(t))
	require.NoError(t, err)

	assert.Contains(t, out, "FORM")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 1+5, "header plus the five required fields")
	assert.Contains(t, out, "contactForm")
	assert.Contains(t, out, "multiline")
	assert.Contains(t, out, "Dit veld is verplicht")
}

func TestInspectJSON(t *testing.T) {
	out, err := run(t, "inspect", "--locale", "en", "-o", "json", writePage(t))
	require.NoError(t, err)

	var forms []inspectedForm
	require.NoError(t, json.Unmarshal([]byte(out), &forms))
	require.Len(t, forms, 1)
	assert.Equal(t, "contactForm", forms[0].ID)
	assert.True(t, forms[0].Honeypot)

	byName := map[string]bool{}
	for _, field := range forms[0].Fields {
		byName[field.Name] = field.NameLike
		if field.Kind == model.FieldKindCheckbox {
			assert.Equal(t, model.ReasonUnchecked, field.Validity.Reason)
			continue
		}
		assert.Equal(t, "This field is required", field.Validity.Message, field.Name)
	}
	assert.True(t, byName["firstName"])
	assert.False(t, byName["email"])
}

func TestInspectRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "inspect", "-o", "xml", writePage(t))
	assert.Error(t, err)
}

type answerDriver struct {
	answers map[string]string
}

func (d answerDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return d.answers[cfg.Message], nil
}

func (d answerDriver) TextArea(_ context.Context, cfg prompt.TextAreaConfig) (string, error) {
	return d.answers[cfg.Message], nil
}

func (d answerDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d answerDriver) Info(context.Context, string) error {
	return nil
}

func TestSubmitPostsToContactEndpoint(t *testing.T) {
	sink := &contact.MemorySink{}
	handler := contact.NewHandler(contact.WithFields(config.DefaultFields()), contact.WithSink(sink))
	srv := httptest.NewServer(contact.NewRouter(handler, "/process.php", "", nil))
	defer srv.Close()

	previous := newDriver
	newDriver = func(*cobra.Command) prompt.Driver {
		return answerDriver{answers: map[string]string{
			"Voornaam *":   "Anna",
			"Achternaam *": "Jansen",
			"E-mail *":     "anna@example.nl",
			"Bericht *":    "Graag meer informatie.",
		}}
	}
	defer func() { newDriver = previous }()

	_, err := run(t, "submit", "--endpoint", srv.URL+"/process.php")
	require.NoError(t, err)

	delivered := sink.Submissions()
	require.Len(t, delivered, 1)
	assert.Equal(t, "Anna", delivered[0].Values["firstName"])
	assert.Equal(t, "on", delivered[0].Values["privacy"])
}

func TestSubmitRequiresAbsoluteEndpoint(t *testing.T) {
	_, err := run(t, "submit")
	assert.ErrorContains(t, err, "absolute URL")
}

func TestConfigFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siteform.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: en\nserver:\n  addr: \":9000\"\n"), 0o644))
	t.Setenv("SITEFORM_LOCALE", "nl")
	t.Setenv("SITEFORM_SERVER_STATICDIR", "public")

	root, e := newRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "inspect", writePage(t)})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Equal(t, "nl", e.cfg.Locale, "env wins over the file")
	assert.Equal(t, ":9000", e.cfg.Server.Addr)
	assert.Equal(t, "public", e.cfg.Server.StaticDir)
	assert.Equal(t, "/process.php", e.cfg.Server.ContactPath)
}

func TestOpenAPIFieldsReplaceConfigFields(t *testing.T) {
	spec := `openapi: 3.0.3
info: {title: Contact, version: "1"}
paths:
  /process.php:
    post:
      operationId: submitContact
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email]
              properties:
                email: {type: string, format: email, x-order: 1}
                notes: {type: string, format: textarea, x-order: 2}
      responses:
        "200": {description: ok}
`
	path := filepath.Join(t.TempDir(), "contact.yaml")
	require.NoError(t, os.WriteFile(path, []byte(spec), 0o644))

	root, e := newRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--openapi", path, "--operation", "submitContact", "inspect", writePage(t)})
	require.NoError(t, root.ExecuteContext(context.Background()))

	require.Len(t, e.cfg.Fields, 2)
	assert.Equal(t, "email", e.cfg.Fields[0].Name)
	assert.True(t, e.cfg.Fields[0].Required)
	assert.Equal(t, "notes", e.cfg.Fields[1].Name)
}

func TestSubmitDriverUsesCommandStreams(t *testing.T) {
	dir := t.TempDir()
	in, err := os.Create(filepath.Join(dir, "in"))
	require.NoError(t, err)
	defer in.Close()
	out, err := os.Create(filepath.Join(dir, "out"))
	require.NoError(t, err)
	defer out.Close()

	cmd := &cobra.Command{}
	cmd.SetIn(in)
	cmd.SetOut(out)
	require.NoError(t, terminalDriver(cmd).Info(context.Background(), "Verzenden..."))

	written, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	assert.Equal(t, "Verzenden...\n", string(written))

	buffered := &cobra.Command{}
	buffered.SetOut(&bytes.Buffer{})
	assert.NotNil(t, terminalDriver(buffered), "non-file streams fall back to the process terminal")
}

func TestUnknownLocaleIsRejected(t *testing.T) {
	_, err := run(t, "inspect", "--locale", "fr", writePage(t))
	assert.ErrorContains(t, err, `locale "fr" has no messages (available: en, nl)`)

	_, err = run(t, "inspect", "--locale", "nl_BE", writePage(t))
	assert.NoError(t, err)
}

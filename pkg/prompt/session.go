package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/logging"
	"github.com/goliatone/go-siteform/pkg/model"
	"github.com/goliatone/go-siteform/pkg/submit"
	"github.com/goliatone/go-siteform/pkg/validation"
)

// DefaultMaxAttempts bounds re-prompts of a single invalid field.
const DefaultMaxAttempts = 3

var (
	// ErrNoFields is returned when a session has nothing to ask.
	ErrNoFields = errors.New("prompt: no fields to ask")
	// ErrNoTransport is returned when a session cannot send its payload.
	ErrNoTransport = errors.New("prompt: no transport configured")
	// ErrTooManyAttempts is returned when a field stays invalid.
	ErrTooManyAttempts = errors.New("prompt: too many invalid attempts")
)

// Option configures a Session.
type Option func(*Session)

// WithValidator overrides the validator; its localizer is shared.
func WithValidator(v *validation.Validator) Option {
	return func(s *Session) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithTransport sets the transport used to send the payload.
func WithTransport(t submit.Transport) Option {
	return func(s *Session) {
		s.transport = t
	}
}

// WithEndpoint sets the submission endpoint.
func WithEndpoint(endpoint string) Option {
	return func(s *Session) {
		s.endpoint = endpoint
	}
}

// WithHoneypot fills the honeypot field, simulating an automated client.
func WithHoneypot(field, value string) Option {
	return func(s *Session) {
		s.honeypotField = field
		s.honeypotValue = value
	}
}

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Report describes a finished session.
type Report struct {
	Values map[string]string
	// Skipped is set when the honeypot was filled and nothing was sent.
	Skipped bool
	Result  submit.Result
}

// Session asks for every field in turn, validates each answer with the
// shared rules and posts the collected payload.
type Session struct {
	specs         []model.FieldSpec
	driver        Driver
	validator     *validation.Validator
	localizer     i18n.Localizer
	transport     submit.Transport
	endpoint      string
	honeypotField string
	honeypotValue string
	maxAttempts   int
	logger        logging.Logger
	title         cases.Caser
}

// NewSession builds a Session for specs.
func NewSession(driver Driver, specs []model.FieldSpec, options ...Option) *Session {
	s := &Session{
		specs:       append([]model.FieldSpec(nil), specs...),
		driver:      driver,
		validator:   validation.New(),
		maxAttempts: DefaultMaxAttempts,
		logger:      logging.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.localizer = s.validator.Localizer()
	s.title = cases.Title(language.Make(s.localizer.Locale()))
	return s
}

// Collect asks every field and returns the validated values.
func (s *Session) Collect(ctx context.Context) (map[string]string, error) {
	if len(s.specs) == 0 {
		return nil, ErrNoFields
	}
	values := make(map[string]string, len(s.specs))
	for _, spec := range s.specs {
		value, err := s.ask(ctx, spec)
		if err != nil {
			return nil, err
		}
		values[spec.Name] = value
	}
	return values, nil
}

// Run collects the values and submits them.
func (s *Session) Run(ctx context.Context) (Report, error) {
	if s.transport == nil {
		return Report{}, ErrNoTransport
	}
	values, err := s.Collect(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{Values: values}

	if s.honeypotField != "" && s.honeypotValue != "" {
		values[s.honeypotField] = s.honeypotValue
		report.Skipped = true
		return report, nil
	}

	if err := s.driver.Info(ctx, s.localizer.T("prompt.sending")); err != nil {
		return report, err
	}
	report.Result = s.transport.Send(ctx, s.endpoint, submit.FromValues(values))
	if !report.Result.OK() {
		s.logger.Warn(ctx, report.Result.Err, "submission not accepted",
			"endpoint", s.endpoint,
			"outcome", string(report.Result.Outcome),
			"status", report.Result.Status,
		)
	}
	return report, s.driver.Info(ctx, s.outcomeMessage(report.Result))
}

func (s *Session) outcomeMessage(result submit.Result) string {
	switch result.Outcome {
	case submit.OutcomeSuccess:
		if result.Message != "" {
			return result.Message
		}
		return s.localizer.T("form.success")
	case submit.OutcomeRejected:
		if result.Message != "" {
			return result.Message
		}
		return s.localizer.T("form.failed")
	default:
		return s.localizer.T("form.network")
	}
}

func (s *Session) ask(ctx context.Context, spec model.FieldSpec) (string, error) {
	label := s.Label(spec)
	for attempt := 1; ; attempt++ {
		value, err := s.read(ctx, spec, label)
		if err != nil {
			return "", err
		}
		validity := s.validator.Validate(spec.Field(value))
		if validity.Valid {
			return value, nil
		}
		if err := s.driver.Info(ctx, s.localizer.T("prompt.invalid", label, validity.Message)); err != nil {
			return "", err
		}
		if attempt >= s.maxAttempts {
			return "", fmt.Errorf("%w: %s", ErrTooManyAttempts, spec.Name)
		}
	}
}

func (s *Session) read(ctx context.Context, spec model.FieldSpec, label string) (string, error) {
	message := label
	if spec.Required {
		message += " *"
	}
	switch spec.Kind {
	case model.FieldKindCheckbox:
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Help: spec.Description})
		if err != nil || !ok {
			return "", err
		}
		return "on", nil
	case model.FieldKindMultiLine:
		return s.driver.TextArea(ctx, TextAreaConfig{Message: message, Help: spec.Description})
	default:
		return s.driver.Input(ctx, InputConfig{Message: message, Help: spec.Description})
	}
}

// Label returns the spec's label, or a title-cased rendition of its
// camelCase name.
func (s *Session) Label(spec model.FieldSpec) string {
	if strings.TrimSpace(spec.Label) != "" {
		return spec.Label
	}
	return s.title.String(splitCamel(spec.Name))
}

func splitCamel(name string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}

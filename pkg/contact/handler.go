package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/goliatone/go-siteform/pkg/i18n"
	"github.com/goliatone/go-siteform/pkg/logging"
	"github.com/goliatone/go-siteform/pkg/model"
	"github.com/goliatone/go-siteform/pkg/validation"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes int64 = 64 << 10

var errMalformedBody = errors.New("contact: malformed request body")

// Response is the JSON answer. Errors carries the per-field messages of a
// rejected submission; the browser client only reads success and message.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Option configures a Handler.
type Option func(*Handler)

// WithFields sets the field specs submissions are validated against.
func WithFields(specs []model.FieldSpec) Option {
	return func(h *Handler) {
		h.specs = append([]model.FieldSpec(nil), specs...)
	}
}

// WithValidator overrides the validator.
func WithValidator(v *validation.Validator) Option {
	return func(h *Handler) {
		if v != nil {
			h.validator = v
		}
	}
}

// WithSink sets where accepted submissions go.
func WithSink(sink Sink) Option {
	return func(h *Handler) {
		if sink != nil {
			h.sink = sink
		}
	}
}

// WithHoneypotField overrides the honeypot field name.
func WithHoneypotField(name string) Option {
	return func(h *Handler) {
		h.honeypot = strings.TrimSpace(name)
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// Handler accepts contact submissions.
type Handler struct {
	specs     []model.FieldSpec
	validator *validation.Validator
	localizer i18n.Localizer
	sink      Sink
	honeypot  string
	maxBody   int64
	metrics   *Metrics
	logger    logging.Logger
	now       func() time.Time
}

// NewHandler builds a Handler. Without a sink submissions are only logged.
func NewHandler(options ...Option) *Handler {
	h := &Handler{
		validator: validation.New(),
		honeypot:  "website",
		maxBody:   DefaultMaxBodyBytes,
		logger:    logging.Nop(),
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	h.localizer = h.validator.Localizer()
	if h.sink == nil {
		h.sink = LogSink{Logger: h.logger}
	}
	return h
}

// ServeHTTP handles one submission.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetReqID(ctx)

	values, err := h.decode(w, r)
	if err != nil {
		h.metrics.IncrementSubmission(OutcomeMalformed)
		h.logger.Warn(ctx, err, "invalid contact request", "request_id", requestID)
		writeJSON(w, http.StatusBadRequest, Response{Message: h.localizer.T("form.invalid")})
		return
	}

	if h.honeypot != "" && strings.TrimSpace(values[h.honeypot]) != "" {
		h.metrics.IncrementSubmission(OutcomeHoneypot)
		writeJSON(w, http.StatusOK, Response{Success: true})
		return
	}

	state := h.validator.ValidateValues(h.specs, values)
	if invalid := state.Invalid(); len(invalid) > 0 {
		h.metrics.IncrementSubmission(OutcomeInvalid)
		resp := Response{
			Message: invalid[0].Validity.Message,
			Errors:  make(map[string]string, len(invalid)),
		}
		for _, field := range invalid {
			resp.Errors[field.Name] = field.Validity.Message
			h.metrics.IncrementInvalidField(field.Name, string(field.Validity.Reason))
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	submission := Submission{
		ID:         uuid.NewString(),
		Values:     values,
		ReceivedAt: h.now(),
		RemoteAddr: r.RemoteAddr,
	}
	if h.honeypot != "" {
		delete(submission.Values, h.honeypot)
	}
	if requestID != "" {
		submission.ID = requestID
	}

	start := time.Now()
	err = h.sink.Deliver(ctx, submission)
	h.metrics.ObserveDelivery(start)
	if err != nil {
		h.metrics.IncrementSubmission(OutcomeFailed)
		h.logger.Error(ctx, err, "contact delivery failed",
			"request_id", requestID,
			"submission_id", submission.ID,
		)
		writeJSON(w, http.StatusInternalServerError, Response{Message: h.localizer.T("form.failed")})
		return
	}

	h.metrics.IncrementSubmission(OutcomeDelivered)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: h.localizer.T("form.success")})
}

// decode reads a flat JSON object, or a urlencoded form posted without
// scripts, into string values.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("%w: %w", errMalformedBody, err)
		}
		values := make(map[string]string, len(r.PostForm))
		for name, list := range r.PostForm {
			if len(list) > 0 {
				values[name] = list[len(list)-1]
			}
		}
		return values, nil
	}

	raw := map[string]any{}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", errMalformedBody)
	}

	values := make(map[string]string, len(raw))
	for name, value := range raw {
		str, err := stringValue(value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", errMalformedBody, name, err)
		}
		values[name] = str
	}
	return values, nil
}

func stringValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

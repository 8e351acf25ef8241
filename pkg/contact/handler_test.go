package contact_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/goliatone/go-siteform/pkg/config"
	"github.com/goliatone/go-siteform/pkg/contact"
)

type HandlerSuite struct {
	suite.Suite
	sink    *contact.MemorySink
	metrics *contact.Metrics
	router  http.Handler
}

func (s *HandlerSuite) SetupTest() {
	s.sink = &contact.MemorySink{}
	s.metrics = contact.NewMetrics(prometheus.NewRegistry())
	handler := contact.NewHandler(
		contact.WithFields(config.DefaultFields()),
		contact.WithSink(s.sink),
		contact.WithMetrics(s.metrics),
	)
	s.router = contact.NewRouter(handler, "/process.php", "", nil)
}

func (s *HandlerSuite) post(body string) (*httptest.ResponseRecorder, contact.Response) {
	req := httptest.NewRequest(http.MethodPost, "/process.php", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp contact.Response
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp), "decode response")
	return rec, resp
}

func validBody(overrides map[string]any) string {
	values := map[string]any{
		"firstName": "Anna",
		"lastName":  "de Vries",
		"email":     "anna@example.nl",
		"phone":     "",
		"message":   "Graag een offerte voor onderhoud.",
		"privacy":   "on",
	}
	for k, v := range overrides {
		values[k] = v
	}
	raw, _ := json.Marshal(values)
	return string(raw)
}

func (s *HandlerSuite) TestValidSubmissionIsDelivered() {
	rec, resp := s.post(validBody(map[string]any{"website": ""}))

	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.True(s.T(), resp.Success)
	assert.Equal(s.T(), "Bedankt! Uw bericht is verzonden.", resp.Message)

	delivered := s.sink.Submissions()
	require.Len(s.T(), delivered, 1)
	assert.NotEmpty(s.T(), delivered[0].ID)
	assert.Equal(s.T(), "anna@example.nl", delivered[0].Values["email"])
	assert.NotContains(s.T(), delivered[0].Values, "website", "honeypot is stripped")
	assert.Equal(s.T(), 1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues(contact.OutcomeDelivered)))
}

func (s *HandlerSuite) TestHoneypotAnswersSuccessWithoutDelivery() {
	rec, resp := s.post(validBody(map[string]any{"website": "http://spam.example"}))

	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.True(s.T(), resp.Success)
	assert.Empty(s.T(), s.sink.Submissions())
	assert.Equal(s.T(), 1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues(contact.OutcomeHoneypot)))
}

func (s *HandlerSuite) TestInvalidFieldAnswers422() {
	rec, resp := s.post(validBody(map[string]any{"email": "anna@example", "privacy": false}))

	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
	assert.False(s.T(), resp.Success)
	assert.Equal(s.T(), "Voer een geldig e-mailadres in", resp.Message, "first invalid field in form order")
	assert.Equal(s.T(), map[string]string{
		"email":   "Voer een geldig e-mailadres in",
		"privacy": "U moet akkoord gaan met de voorwaarden",
	}, resp.Errors)
	assert.Empty(s.T(), s.sink.Submissions())
	assert.Equal(s.T(), 1.0, testutil.ToFloat64(s.metrics.InvalidFields.WithLabelValues("email", "email")))
}

func (s *HandlerSuite) TestMissingCheckboxFailsAsRequired() {
	body := `{"firstName":"Anna","lastName":"Jansen","email":"a@b.nl","message":"0123456789"}`
	rec, resp := s.post(body)

	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(s.T(), "Dit veld is verplicht", resp.Errors["privacy"])
}

func (s *HandlerSuite) TestMalformedBodies() {
	for name, body := range map[string]string{
		"not json":      "not valid json",
		"nested object": `{"firstName":{"x":1}}`,
		"trailing data": `{"firstName":"Anna"} {}`,
	} {
		s.Run(name, func() {
			rec, resp := s.post(body)
			assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
			assert.False(s.T(), resp.Success)
			assert.Equal(s.T(), "Vul alle verplichte velden correct in", resp.Message)
		})
	}
}

func (s *HandlerSuite) TestFormEncodedFallback() {
	form := url.Values{
		"firstName": {"Anna"},
		"lastName":  {"Jansen"},
		"email":     {"anna@example.nl"},
		"message":   {"Een bericht van voldoende lengte"},
		"privacy":   {"on"},
	}
	req := httptest.NewRequest(http.MethodPost, "/process.php", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(s.T(), http.StatusOK, rec.Code)
	require.Len(s.T(), s.sink.Submissions(), 1)
}

func (s *HandlerSuite) TestHealthz() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.JSONEq(s.T(), `{"status":"ok"}`, rec.Body.String())
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func TestSinkFailureAnswers500(t *testing.T) {
	handler := contact.NewHandler(
		contact.WithFields(config.DefaultFields()),
		contact.WithSink(contact.SinkFunc(func(context.Context, contact.Submission) error {
			return errors.New("smtp unavailable")
		})),
	)
	req := httptest.NewRequest(http.MethodPost, "/process.php", bytes.NewBufferString(validBody(nil)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp contact.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Er is een fout opgetreden", resp.Message)
}

func TestBodyLimit(t *testing.T) {
	handler := contact.NewHandler(
		contact.WithFields(config.DefaultFields()),
		contact.WithMaxBodyBytes(32),
	)
	req := httptest.NewRequest(http.MethodPost, "/process.php", strings.NewReader(validBody(nil)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerStampsWithClock(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	sink := &contact.MemorySink{}
	handler := contact.NewHandler(
		contact.WithFields(config.DefaultFields()),
		contact.WithSink(sink),
		contact.WithClock(func() time.Time { return at }),
	)
	router := contact.NewRouter(handler, "/process.php", "", nil)

	req := httptest.NewRequest(http.MethodPost, "/process.php", strings.NewReader(validBody(nil)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	delivered := sink.Submissions()
	require.Len(t, delivered, 1)
	assert.True(t, at.Equal(delivered[0].ReceivedAt))
}

package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-submission correlation id.
const RequestIDHeader = "X-Request-ID"

// maxResponseBytes bounds how much of a response body is decoded.
const maxResponseBytes = 1 << 20

var errNullResponse = errors.New("response body is null")

// Transport delivers a payload to endpoint and reports the outcome.
type Transport interface {
	Send(ctx context.Context, endpoint string, payload Payload) Result
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, endpoint string, payload Payload) Result

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, endpoint string, payload Payload) Result {
	return f(ctx, endpoint, payload)
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithTimeout bounds each request. Zero leaves the client's behaviour in place.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		t.timeout = timeout
	}
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(t *HTTPTransport) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		t.headers.Set(key, value)
	}
}

// WithRequestIDFunc overrides how request ids are generated.
func WithRequestIDFunc(fn func() string) HTTPOption {
	return func(t *HTTPTransport) {
		if fn != nil {
			t.requestID = fn
		}
	}
}

// HTTPTransport posts the payload as JSON and decodes a Response. The HTTP
// status is recorded but does not decide the outcome: the endpoint signals
// rejection through the success flag, and any body that is not a Response is
// treated as a network failure.
type HTTPTransport struct {
	client    *http.Client
	timeout   time.Duration
	headers   http.Header
	requestID func() string
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport builds a transport around http.DefaultClient.
func NewHTTPTransport(options ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		client:    http.DefaultClient,
		headers:   make(http.Header),
		requestID: uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Send performs one POST. It never retries.
func (t *HTTPTransport) Send(ctx context.Context, endpoint string, payload Payload) Result {
	if endpoint == "" {
		return NetworkFailure(errors.New("submit: endpoint is required"))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return NetworkFailure(fmt.Errorf("submit: encode payload: %w", err))
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if t.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return NetworkFailure(err)
	}
	for key, values := range t.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, t.requestID())

	resp, err := t.client.Do(req)
	if err != nil {
		return NetworkFailure(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return NetworkFailure(err)
	}
	var decoded *Response
	err = json.Unmarshal(data, &decoded)
	if err == nil && decoded == nil {
		err = errNullResponse
	}
	if err != nil {
		result := NetworkFailure(fmt.Errorf("submit: decode response (status %d): %w", resp.StatusCode, err))
		result.Status = resp.StatusCode
		return result
	}
	result := decoded.Result()
	result.Status = resp.StatusCode
	return result
}

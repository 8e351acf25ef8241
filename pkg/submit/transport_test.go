package submit_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-siteform/pkg/submit"
)

func TestHTTPTransportPostsJSON(t *testing.T) {
	var (
		gotBody    map[string]string
		gotHeaders http.Header
		gotMethod  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	transport := submit.NewHTTPTransport(
		submit.WithRequestIDFunc(func() string { return "req-1" }),
		submit.WithHeader("X-Site", "demo"),
	)
	result := transport.Send(context.Background(), srv.URL, submit.NewPayload(
		submit.Entry{Name: "email", Value: "anna@example.com"},
		submit.Entry{Name: "message", Value: "Hello there, friend"},
	))

	if diff := cmp.Diff(submit.Result{Outcome: submit.OutcomeSuccess, Status: http.StatusOK}, result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("method = %s", gotMethod)
	}
	want := map[string]string{"email": "anna@example.com", "message": "Hello there, friend"}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
	for key, value := range map[string]string{
		"Content-Type":         "application/json",
		"Accept":               "application/json",
		submit.RequestIDHeader: "req-1",
		"X-Site":               "demo",
	} {
		if got := gotHeaders.Get(key); got != value {
			t.Fatalf("header %s = %q, want %q", key, got, value)
		}
	}
}

func TestHTTPTransportOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		outcome submit.Outcome
		message string
	}{
		{name: "rejected with message", status: http.StatusUnprocessableEntity, body: `{"success":false,"message":"X"}`, outcome: submit.OutcomeRejected, message: "X"},
		{name: "rejected without message", status: http.StatusOK, body: `{"success":false}`, outcome: submit.OutcomeRejected},
		{name: "success despite error status", status: http.StatusInternalServerError, body: `{"success":true,"message":"ok"}`, outcome: submit.OutcomeSuccess, message: "ok"},
		{name: "html error page", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, outcome: submit.OutcomeNetworkFailure},
		{name: "empty body", status: http.StatusOK, body: ``, outcome: submit.OutcomeNetworkFailure},
		{name: "null body", status: http.StatusOK, body: `null`, outcome: submit.OutcomeNetworkFailure},
		{name: "array body", status: http.StatusOK, body: `[{"success":true}]`, outcome: submit.OutcomeNetworkFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			result := submit.NewHTTPTransport().Send(context.Background(), srv.URL, submit.Payload{})
			if result.Outcome != tc.outcome {
				t.Fatalf("outcome = %s, want %s (err %v)", result.Outcome, tc.outcome, result.Err)
			}
			if result.Message != tc.message {
				t.Fatalf("message = %q, want %q", result.Message, tc.message)
			}
			if result.Status != tc.status {
				t.Fatalf("status = %d, want %d", result.Status, tc.status)
			}
			if tc.outcome == submit.OutcomeNetworkFailure && !errors.Is(result.Err, submit.ErrNetworkFailure) {
				t.Fatalf("expected ErrNetworkFailure, got %v", result.Err)
			}
		})
	}
}

func TestHTTPTransportConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	result := submit.NewHTTPTransport().Send(context.Background(), endpoint, submit.Payload{})
	if result.Outcome != submit.OutcomeNetworkFailure {
		t.Fatalf("outcome = %s", result.Outcome)
	}
	if !errors.Is(result.Err, submit.ErrNetworkFailure) {
		t.Fatalf("err = %v", result.Err)
	}
}

func TestHTTPTransportTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	result := submit.NewHTTPTransport(submit.WithTimeout(20*time.Millisecond)).
		Send(context.Background(), srv.URL, submit.Payload{})
	if result.Outcome != submit.OutcomeNetworkFailure {
		t.Fatalf("outcome = %s", result.Outcome)
	}
	if !errors.Is(result.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", result.Err)
	}
}

func TestHTTPTransportUsesGivenClient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := &http.Client{Timeout: 20 * time.Millisecond}
	result := submit.NewHTTPTransport(submit.WithHTTPClient(client)).
		Send(context.Background(), srv.URL, submit.Payload{})
	if result.Outcome != submit.OutcomeNetworkFailure {
		t.Fatalf("outcome = %s", result.Outcome)
	}
	var netErr net.Error
	if !errors.As(result.Err, &netErr) || !netErr.Timeout() {
		t.Fatalf("expected a client timeout, got %v", result.Err)
	}
}

func TestHTTPTransportRequiresEndpoint(t *testing.T) {
	result := submit.NewHTTPTransport().Send(context.Background(), "", submit.Payload{})
	if result.OK() || !errors.Is(result.Err, submit.ErrNetworkFailure) {
		t.Fatalf("unexpected result %+v", result)
	}
}

package submit

import (
	"errors"
	"fmt"
)

// ErrNetworkFailure marks transport errors and undecodable responses.
var ErrNetworkFailure = errors.New("submit: network failure")

// Outcome tags a submission Result.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeRejected       Outcome = "rejected"
	OutcomeNetworkFailure Outcome = "network_failure"
)

// Result is the outcome of one submission attempt.
type Result struct {
	Outcome Outcome
	// Message is the server-provided message, if any.
	Message string
	// Status is the HTTP status code when a response was received.
	Status int
	// Err is set for NetworkFailure and wraps ErrNetworkFailure.
	Err error
}

// Success builds a successful Result.
func Success(message string) Result {
	return Result{Outcome: OutcomeSuccess, Message: message}
}

// Rejected builds a Result for a response with success=false.
func Rejected(message string) Result {
	return Result{Outcome: OutcomeRejected, Message: message}
}

// NetworkFailure builds a Result for err, wrapping ErrNetworkFailure.
func NetworkFailure(err error) Result {
	if err == nil {
		err = ErrNetworkFailure
	} else if !errors.Is(err, ErrNetworkFailure) {
		err = fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
	return Result{Outcome: OutcomeNetworkFailure, Err: err}
}

// OK reports whether the submission succeeded.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Response is the JSON body the endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Result maps the decoded response to a Result.
func (r Response) Result() Result {
	if r.Success {
		return Success(r.Message)
	}
	return Rejected(r.Message)
}

// Package form drives the submit flow of the site's forms: validate, screen
// the honeypot, post the payload once and report the outcome through
// notifications.
//
// A Controller moves through the states
//
//	Idle -> Validating -> Invalid -> Idle
//	Idle -> Validating -> Submitting -> Navigating
//	Idle -> Validating -> Submitting -> Idle
//
// and ignores submits that arrive outside Idle, so at most one request per
// form is ever in flight.
package form

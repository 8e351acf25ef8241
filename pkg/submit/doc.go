// Package submit serialises a form into a flat payload and delivers it to the
// contact endpoint in a single request.
//
// Transports never return errors. Every attempt resolves to a Result whose
// Outcome is one of Success, Rejected or NetworkFailure, so callers handle the
// three cases with a switch instead of unwrapping errors.
package submit

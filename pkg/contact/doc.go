// Package contact serves the endpoint the site's contact form posts to. It
// answers with the same {success, message} contract the client expects,
// validates the payload with the shared Validator and hands accepted
// submissions to a Sink.
package contact

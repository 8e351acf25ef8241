// Package openapi derives contact-form FieldSpecs from the request body schema
// of an OpenAPI 3 operation. The contact endpoint and the terminal session can
// then validate against the same document that describes the HTTP contract.
//
// Properties map to kinds as follows:
//
//	type boolean                 -> checkbox
//	format email                 -> email
//	format tel | phone           -> phone
//	format textarea | multiline  -> multi-line
//	x-kind: <kind>               -> explicit override
//	anything else                -> text
//
// Properties flagged with x-honeypot are left out. x-name-like marks text
// fields validated as personal names; firstName and lastName are name-like by
// default. x-order sorts properties, ties fall back to the property name.
package openapi

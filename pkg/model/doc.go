// Package model defines the field model shared by the page validator, the
// contact endpoint and the terminal session. A Field carries a FieldKind tag
// (text, email, phone, multi-line, checkbox) that selects the validation rule;
// FieldSpec is the DOM-independent description loaded from configuration or
// an OpenAPI request schema. Validity pairs the outcome with a stable Reason
// code plus the human-readable message shown next to the input.
package model

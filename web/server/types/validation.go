package types

import (
	"fmt"

	"go.hackfix.me/purr/schema"
)

// ParamKind is the part of the request an argument is bound from.
type ParamKind string

// Request argument sources.
const (
	ParamBody   ParamKind = "body"
	ParamPath   ParamKind = "param"
	ParamQuery  ParamKind = "query"
	ParamCustom ParamKind = "custom"
)

// Label returns the name used for unnamed arguments of this kind.
func (k ParamKind) Label() string {
	switch k {
	case ParamBody:
		return "request body"
	case ParamPath:
		return "path parameter"
	case ParamQuery:
		return "query parameter"
	default:
		return "input"
	}
}

// ValidationError is the body of a 400 response caused by input that failed
// schema validation. Field and Type are only set when the failure happened
// while binding a request argument.
type ValidationError struct {
	Message string          `json:"message"`
	Field   string          `json:"field,omitempty"`
	Type    ParamKind       `json:"type,omitempty"`
	Errors  string          `json:"errors"`
	Details []schema.Detail `json:"details"`
}

// NewValidationError builds a ValidationError from a schema parse error.
// field and kind may be empty.
func NewValidationError(perr *schema.ParseError, field string, kind ParamKind) *ValidationError {
	details := perr.Details()
	if details == nil {
		details = []schema.Detail{}
	}
	return &ValidationError{
		Message: "Validation failed",
		Field:   field,
		Type:    kind,
		Errors:  perr.Error(),
		Details: details,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Errors)
	}
	return fmt.Sprintf("%s for %s: %s", e.Message, e.Field, e.Errors)
}

package types

import (
	"fmt"
	"net/http"
)

// ErrorLevel is the amount of detail of server error messages returned to
// clients.
type ErrorLevel string

// Error levels.
const (
	// ErrorLevelNone hides server error messages.
	ErrorLevelNone ErrorLevel = "none"
	// ErrorLevelMinimal replaces server error messages with the status text.
	ErrorLevelMinimal ErrorLevel = "minimal"
	// ErrorLevelFull returns server error messages unchanged.
	ErrorLevelFull ErrorLevel = "full"
)

// ErrorLevelFromString parses an ErrorLevel.
func ErrorLevelFromString(s string) (ErrorLevel, error) {
	switch lvl := ErrorLevel(s); lvl {
	case ErrorLevelNone, ErrorLevelMinimal, ErrorLevelFull:
		return lvl, nil
	default:
		return "", fmt.Errorf("invalid error level '%s'", s)
	}
}

// Sanitize returns the outcome with its message reduced to the detail allowed
// by lvl. Only server errors (5xx) are affected.
func (lvl ErrorLevel) Sanitize(out Outcome) Outcome {
	if out.Status < http.StatusInternalServerError {
		return out
	}

	switch lvl {
	case ErrorLevelNone:
		out.Body = Message{}
	case ErrorLevelMinimal:
		out.Body = Message{Message: http.StatusText(out.Status)}
	}

	return out
}

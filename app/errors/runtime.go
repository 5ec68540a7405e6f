package errors

// RuntimeError is an error that happened while running a command. It can
// include a hint that helps the user fix the problem.
type RuntimeError struct {
	*StructuredError
	Hint string
}

// NewRuntimeError returns a new RuntimeError. cause and hint are optional.
func NewRuntimeError(msg string, cause error, hint string, fields ...any) *RuntimeError {
	return &RuntimeError{StructuredError: NewWithCause(msg, cause, fields...), Hint: hint}
}

// Unwrap returns the underlying StructuredError.
func (e *RuntimeError) Unwrap() error {
	return e.StructuredError
}

package schema

import "fmt"

// ParseError is returned when the input doesn't match a schema.
type ParseError struct {
	Issue *Issue
}

// Error returns the formatted issue tree.
func (e *ParseError) Error() string {
	return e.Issue.String()
}

// Details returns one entry per leaf issue. See Flatten.
func (e *ParseError) Details() []Detail {
	return e.Issue.flatten(nil, []Detail{})
}

// ConfigError is returned when a schema is misconfigured, e.g. when a struct
// schema declares a field that its target type doesn't have. It is never
// caused by the decoded input.
type ConfigError struct {
	Schema string
	Err    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid schema %s: %s", e.Schema, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

package types

import (
	"errors"
	"net/http"

	"go.hackfix.me/purr/effect"
	"go.hackfix.me/purr/schema"
)

// MapFailure converts the cause of a failed request into a response
// outcome. cause is usually an error, but it may be any value a deferred
// computation panicked with. The first matching rule wins:
//
//   - *ValidationError: 400 with the error as body
//   - *schema.ParseError: 400 with a ValidationError body
//   - nil, or effect.ErrNoSuchElement: 404 "Resource not found"
//   - kind "ValidationError": 400
//   - kind "NotFoundError": 404
//   - *Error: its own status code
//   - any other error: 500 with the error message
//   - string: 500 with the string as message
//   - anything else: 500 "An unexpected error occurred"
//
// An *effect.DefectError is unwrapped, and its value mapped by the same
// rules.
func MapFailure(cause any) Outcome {
	if derr, ok := cause.(*effect.DefectError); ok {
		return MapFailure(derr.Value)
	}

	if cause == nil {
		return notFound()
	}

	err, ok := cause.(error)
	if !ok {
		if s, ok := cause.(string); ok {
			return Outcome{Status: http.StatusInternalServerError, Body: Message{Message: s}}
		}
		return Outcome{
			Status: http.StatusInternalServerError,
			Body:   Message{Message: "An unexpected error occurred"},
		}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return Outcome{Status: http.StatusBadRequest, Body: verr}
	}

	var perr *schema.ParseError
	if errors.As(err, &perr) {
		return Outcome{Status: http.StatusBadRequest, Body: NewValidationError(perr, "", "")}
	}

	if errors.Is(err, effect.ErrNoSuchElement) {
		return notFound()
	}

	var kerr KindedError
	if errors.As(err, &kerr) {
		switch kerr.ErrorKind() {
		case KindValidation:
			return Outcome{Status: http.StatusBadRequest, Body: Message{Message: err.Error()}}
		case KindNotFound:
			return Outcome{Status: http.StatusNotFound, Body: Message{Message: err.Error()}}
		}
	}

	var terr *Error
	if errors.As(err, &terr) {
		return Outcome{Status: terr.StatusCode, Body: Message{Message: terr.Message}}
	}

	return Outcome{Status: http.StatusInternalServerError, Body: Message{Message: err.Error()}}
}

func notFound() Outcome {
	return Outcome{Status: http.StatusNotFound, Body: Message{Message: "Resource not found"}}
}

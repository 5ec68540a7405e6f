package types

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/purr/effect"
	"go.hackfix.me/purr/schema"
)

func testParseError(t *testing.T) *schema.ParseError {
	t.Helper()
	s := schema.Struct[map[string]any](schema.Field("name", schema.String()))
	_, err := s.Decode(map[string]any{})
	var perr *schema.ParseError
	require.ErrorAs(t, err, &perr)
	return perr
}

func TestMapFailure(t *testing.T) {
	t.Parallel()

	perr := testParseError(t)
	verr := NewValidationError(perr, "request body", ParamBody)
	notFound := Message{Message: "Resource not found"}

	testCases := []struct {
		name      string
		cause     any
		expStatus int
		expBody   any
	}{
		{
			name:      "validation_error",
			cause:     verr,
			expStatus: http.StatusBadRequest,
			expBody:   verr,
		},
		{
			name:      "validation_error_wrapped",
			cause:     fmt.Errorf("binding: %w", verr),
			expStatus: http.StatusBadRequest,
			expBody:   verr,
		},
		{
			name:      "parse_error",
			cause:     perr,
			expStatus: http.StatusBadRequest,
			expBody: &ValidationError{
				Message: "Validation failed",
				Errors:  "{ name: string }\n└─ [\"name\"]\n   └─ is missing",
				Details: []schema.Detail{{Path: []any{"name"}, Message: "is missing"}},
			},
		},
		{
			name:      "nil",
			cause:     nil,
			expStatus: http.StatusNotFound,
			expBody:   notFound,
		},
		{
			name:      "no_such_element",
			cause:     effect.ErrNoSuchElement,
			expStatus: http.StatusNotFound,
			expBody:   notFound,
		},
		{
			name:      "no_such_element_wrapped",
			cause:     fmt.Errorf("cat 999: %w", effect.ErrNoSuchElement),
			expStatus: http.StatusNotFound,
			expBody:   notFound,
		},
		{
			name:      "kind_validation",
			cause:     NewInvalidError("name is too long"),
			expStatus: http.StatusBadRequest,
			expBody:   Message{Message: "name is too long"},
		},
		{
			name:      "kind_not_found",
			cause:     NewNotFoundError("no cat named Tom"),
			expStatus: http.StatusNotFound,
			expBody:   Message{Message: "no cat named Tom"},
		},
		{
			name:      "kind_unknown",
			cause:     &KindError{Kind: "ConflictError", Message: "conflict"},
			expStatus: http.StatusInternalServerError,
			expBody:   Message{Message: "conflict"},
		},
		{
			name:      "http_error",
			cause:     NewError(http.StatusConflict, "already exists"),
			expStatus: http.StatusConflict,
			expBody:   Message{Message: "already exists"},
		},
		{
			name:      "error",
			cause:     errors.New("database is on fire"),
			expStatus: http.StatusInternalServerError,
			expBody:   Message{Message: "database is on fire"},
		},
		{
			name:      "string",
			cause:     "oops",
			expStatus: http.StatusInternalServerError,
			expBody:   Message{Message: "oops"},
		},
		{
			name:      "other",
			cause:     42,
			expStatus: http.StatusInternalServerError,
			expBody:   Message{Message: "An unexpected error occurred"},
		},
		{
			name:      "defect_string",
			cause:     &effect.DefectError{Value: "oops"},
			expStatus: http.StatusInternalServerError,
			expBody:   Message{Message: "oops"},
		},
		{
			name:      "defect_not_found",
			cause:     &effect.DefectError{Value: effect.ErrNoSuchElement},
			expStatus: http.StatusNotFound,
			expBody:   notFound,
		},
		{
			name:      "defect_other",
			cause:     &effect.DefectError{Value: struct{}{}},
			expStatus: http.StatusInternalServerError,
			expBody:   Message{Message: "An unexpected error occurred"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := MapFailure(tc.cause)
			assert.Equal(t, tc.expStatus, out.Status)
			assert.Equal(t, tc.expBody, out.Body)
			assert.Equal(t, out, MapFailure(tc.cause))
		})
	}
}

func TestMapFailureDeterministic(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	causes := []func(string) any{
		func(s string) any { return s },
		func(s string) any { return errors.New(s) },
		func(s string) any { return NewNotFoundError(s) },
		func(s string) any { return NewInvalidError(s) },
		func(s string) any { return NewError(http.StatusTeapot, s) },
		func(s string) any { return &effect.DefectError{Value: s} },
		func(s string) any { return fmt.Errorf("%s: %w", s, effect.ErrNoSuchElement) },
	}

	properties.Property("same cause maps to the same outcome", prop.ForAll(
		func(idx int, msg string) bool {
			cause := causes[idx](msg)
			first := MapFailure(cause)
			second := MapFailure(cause)
			return reflect.DeepEqual(first, second) && first.Status >= 400
		},
		gen.IntRange(0, len(causes)-1),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestErrorLevelSanitize(t *testing.T) {
	t.Parallel()

	serverErr := Outcome{Status: http.StatusInternalServerError, Body: Message{Message: "db: disk I/O error"}}
	clientErr := Outcome{Status: http.StatusNotFound, Body: Message{Message: "Resource not found"}}

	testCases := []struct {
		level     string
		expServer any
	}{
		{level: "full", expServer: Message{Message: "db: disk I/O error"}},
		{level: "minimal", expServer: Message{Message: "Internal Server Error"}},
		{level: "none", expServer: Message{}},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			t.Parallel()

			lvl, err := ErrorLevelFromString(tc.level)
			require.NoError(t, err)
			assert.Equal(t, tc.expServer, lvl.Sanitize(serverErr).Body)
			assert.Equal(t, clientErr, lvl.Sanitize(clientErr))
		})
	}

	_, err := ErrorLevelFromString("verbose")
	assert.EqualError(t, err, "invalid error level 'verbose'")
}

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// String accepts strings.
func String() Schema[string] {
	return newSchema("string", func(raw any) (string, *Issue) {
		s, ok := raw.(string)
		if !ok {
			return "", typeIssue("string", raw)
		}
		return s, nil
	})
}

// NonEmptyString accepts strings with at least one character.
func NonEmptyString() Schema[string] {
	return Refine(String(), "a non empty string", func(s string) bool {
		return s != ""
	})
}

// Bool accepts booleans.
func Bool() Schema[bool] {
	return newSchema("boolean", func(raw any) (bool, *Issue) {
		b, ok := raw.(bool)
		if !ok {
			return false, typeIssue("boolean", raw)
		}
		return b, nil
	})
}

// Int accepts integers of any Go integer type, whole floating point numbers
// (as produced by encoding/json) and integral json.Number values.
func Int() Schema[int] {
	return newSchema("integer", func(raw any) (int, *Issue) {
		if n, ok := raw.(json.Number); ok {
			if i, err := strconv.Atoi(n.String()); err == nil {
				return i, nil
			}
			f, err := n.Float64()
			if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return 0, typeIssue("integer", raw)
			}
			return int(f), nil
		}

		rv := reflect.ValueOf(raw)
		switch {
		case rv.CanInt():
			return int(rv.Int()), nil
		case rv.CanUint():
			if u := rv.Uint(); u <= math.MaxInt {
				return int(u), nil
			}
		case rv.CanFloat():
			f := rv.Float()
			if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
				return int(f), nil
			}
		}

		return 0, typeIssue("integer", raw)
	})
}

// Float accepts numbers of any Go numeric type and json.Number values.
func Float() Schema[float64] {
	return newSchema("number", func(raw any) (float64, *Issue) {
		if n, ok := raw.(json.Number); ok {
			f, err := n.Float64()
			if err != nil {
				return 0, typeIssue("number", raw)
			}
			return f, nil
		}

		rv := reflect.ValueOf(raw)
		switch {
		case rv.CanFloat():
			return rv.Float(), nil
		case rv.CanInt():
			return float64(rv.Int()), nil
		case rv.CanUint():
			return float64(rv.Uint()), nil
		}

		return 0, typeIssue("number", raw)
	})
}

// Literal accepts exactly one of values. It panics with a *ConfigError if no
// values are given.
func Literal[T comparable](values ...T) Schema[T] {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = formatActual(v)
	}
	name := strings.Join(labels, " | ")
	if len(values) == 0 {
		panic(&ConfigError{Schema: "Literal", Err: errors.New("no literal values")})
	}

	return newSchema(name, func(raw any) (T, *Issue) {
		v, ok := raw.(T)
		if !ok || !slices.Contains(values, v) {
			var zero T
			return zero, typeIssue(name, raw)
		}
		return v, nil
	})
}

// IntFromString accepts strings holding a base 10 integer, such as path or
// query parameters.
func IntFromString() Schema[int] {
	return Transform(String(), "IntFromString", func(s string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, errors.New("not an integer")
		}
		return n, nil
	})
}

// Refine accepts the values accepted by s for which pred returns true. name
// describes the refined value, e.g. "a positive integer".
func Refine[T any](s Schema[T], name string, pred func(T) bool) Schema[T] {
	return newSchema(name, func(raw any) (T, *Issue) {
		v, iss := s.parse(raw)
		if iss != nil {
			return v, iss
		}
		if !pred(v) {
			var zero T
			return zero, &Issue{
				Kind:    IssueRefinement,
				Message: fmt.Sprintf("Expected %s, actual %s", name, formatActual(raw)),
			}
		}
		return v, nil
	})
}

// Transform decodes with from and converts the result with fn. An error
// returned by fn becomes a transformation issue.
func Transform[A, B any](from Schema[A], name string, fn func(A) (B, error)) Schema[B] {
	return newSchema(name, func(raw any) (B, *Issue) {
		var zero B
		a, iss := from.parse(raw)
		if iss != nil {
			return zero, iss
		}
		b, err := fn(a)
		if err != nil {
			return zero, &Issue{
				Kind:    IssueTransformation,
				Message: fmt.Sprintf("Unable to decode %s into %s: %s", formatActual(raw), name, err),
			}
		}
		return b, nil
	})
}

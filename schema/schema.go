package schema

import (
	"fmt"
)

// AnySchema is a Schema with its target type erased.
type AnySchema interface {
	fmt.Stringer
	// DecodeUnknown decodes raw and returns the decoded value as any.
	DecodeUnknown(raw any) (any, error)

	parseAny(raw any) (any, *Issue)
}

// Schema describes how to decode an untyped value into a T.
type Schema[T any] interface {
	AnySchema
	// Decode decodes raw into a T. It returns a *ParseError if raw doesn't
	// match the schema, and a *ConfigError if the schema can't produce a T.
	Decode(raw any) (T, error)

	parse(raw any) (T, *Issue)
}

type schema[T any] struct {
	name    string
	parseFn func(raw any) (T, *Issue)
}

var _ Schema[any] = &schema[any]{}

func newSchema[T any](name string, fn func(raw any) (T, *Issue)) *schema[T] {
	return &schema[T]{name: name, parseFn: fn}
}

func (s *schema[T]) String() string {
	return s.name
}

func (s *schema[T]) Decode(raw any) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			cerr, ok := r.(*ConfigError)
			if !ok {
				panic(r)
			}
			var zero T
			out, err = zero, cerr
		}
	}()

	v, iss := s.parseFn(raw)
	if iss != nil {
		var zero T
		return zero, &ParseError{Issue: iss}
	}

	return v, nil
}

func (s *schema[T]) DecodeUnknown(raw any) (any, error) {
	v, err := s.Decode(raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *schema[T]) parse(raw any) (T, *Issue) {
	return s.parseFn(raw)
}

func (s *schema[T]) parseAny(raw any) (any, *Issue) {
	v, iss := s.parseFn(raw)
	if iss != nil {
		return nil, iss
	}
	return v, nil
}

package handler

import (
	"reflect"

	"go.hackfix.me/purr/schema"
	"go.hackfix.me/purr/web/server/types"
)

// Param describes a single request argument.
type Param struct {
	Kind types.ParamKind
	// Name is the path or query parameter name. It's empty for the body, and
	// for bindings of all path or query parameters.
	Name string
	// Schema decodes the raw argument. If nil, the raw value is used as is.
	Schema schema.AnySchema
}

// Label returns the name of the argument used in validation errors.
func (p Param) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Kind.Label()
}

// Binding extracts an argument from the request, and stores its decoded value
// in a request value of a specific type.
type Binding struct {
	Param

	reqType reflect.Type
	extract func(*source) (raw any, ok bool, err error)
	assign  func(req any, v any)
}

func bind[Req, T any](p Param, extract func(*source) (any, bool, error), set func(*Req, T)) Binding {
	return Binding{
		Param:   p,
		reqType: reflect.TypeFor[Req](),
		extract: extract,
		assign: func(req any, v any) {
			tv, _ := v.(T)
			set(req.(*Req), tv) //nolint:forcetypeassert // Checked by Handle.
		},
	}
}

// Body binds the JSON request body decoded with s. An empty body is decoded
// as null.
func Body[Req, T any](s schema.Schema[T], set func(*Req, T)) Binding {
	return bind(Param{Kind: types.ParamBody, Schema: s}, (*source).body, set)
}

// PathParam binds the named path wildcard decoded with s.
func PathParam[Req, T any](name string, s schema.Schema[T], set func(*Req, T)) Binding {
	return bind(Param{Kind: types.ParamPath, Name: name, Schema: s}, func(src *source) (any, bool, error) {
		return src.r.PathValue(name), true, nil
	}, set)
}

// RawPathParam binds the named path wildcard as a string.
func RawPathParam[Req any](name string, set func(*Req, string)) Binding {
	return bind(Param{Kind: types.ParamPath, Name: name}, func(src *source) (any, bool, error) {
		return src.r.PathValue(name), true, nil
	}, set)
}

// PathParams binds an object of all path wildcards of the route, keyed by
// wildcard name, decoded with s.
func PathParams[Req, T any](s schema.Schema[T], set func(*Req, T)) Binding {
	return bind(Param{Kind: types.ParamPath, Schema: s}, func(src *source) (any, bool, error) {
		return src.pathValues(), true, nil
	}, set)
}

// Query binds the first value of the named query parameter decoded with s.
// An absent parameter is decoded as null.
func Query[Req, T any](name string, s schema.Schema[T], set func(*Req, T)) Binding {
	return bind(Param{Kind: types.ParamQuery, Name: name, Schema: s}, func(src *source) (any, bool, error) {
		v, ok := src.queryValue(name)
		if !ok {
			return nil, true, nil
		}
		return v, true, nil
	}, set)
}

// OptionalQuery is like Query, but skips the binding if the parameter is
// absent.
func OptionalQuery[Req, T any](name string, s schema.Schema[T], set func(*Req, T)) Binding {
	return bind(Param{Kind: types.ParamQuery, Name: name, Schema: s}, func(src *source) (any, bool, error) {
		v, ok := src.queryValue(name)
		return v, ok, nil
	}, set)
}

// RawQuery binds the first value of the named query parameter as a string.
func RawQuery[Req any](name string, set func(*Req, string)) Binding {
	return bind(Param{Kind: types.ParamQuery, Name: name}, func(src *source) (any, bool, error) {
		v, _ := src.queryValue(name)
		return v, true, nil
	}, set)
}

// QueryParams binds an object of all query parameters decoded with s.
// Parameters with a single value are strings, others are arrays of strings.
func QueryParams[Req, T any](s schema.Schema[T], set func(*Req, T)) Binding {
	return bind(Param{Kind: types.ParamQuery, Schema: s}, func(src *source) (any, bool, error) {
		return src.queryValues(), true, nil
	}, set)
}

package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// FieldSchema is a named field of a struct schema.
type FieldSchema struct {
	name     string
	schema   AnySchema
	optional bool
}

// Field declares a required field.
func Field(name string, s AnySchema) FieldSchema {
	return FieldSchema{name: name, schema: s}
}

// OptionalField declares a field that may be absent.
func OptionalField(name string, s AnySchema) FieldSchema {
	return FieldSchema{name: name, schema: s, optional: true}
}

func (f FieldSchema) String() string {
	if f.optional {
		return fmt.Sprintf("%s?: %s", f.name, f.schema)
	}
	return fmt.Sprintf("%s: %s", f.name, f.schema)
}

// Struct accepts objects (maps with string keys) and assembles the decoded
// fields into a T, which must be a struct or a map. Struct fields are matched
// by their json tag, or by name. Keys that aren't declared are ignored.
//
// It panics with a *ConfigError if T can't hold the declared fields.
func Struct[T any](fields ...FieldSchema) Schema[T] {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.String()
	}
	name := "{}"
	if len(labels) > 0 {
		name = "{ " + strings.Join(labels, "; ") + " }"
	}

	if err := checkTarget(reflect.TypeFor[T](), fields); err != nil {
		panic(&ConfigError{Schema: name, Err: err})
	}

	return newSchema(name, func(raw any) (T, *Issue) {
		var zero T
		obj, ok := toObject(raw)
		if !ok {
			return zero, typeIssue(name, raw)
		}

		values := make(map[string]any, len(fields))
		var issues []*Issue
		for _, f := range fields {
			fraw, present := obj[f.name]
			if !present {
				if !f.optional {
					issues = append(issues, pointerIssue(f.name, missingIssue()))
				}
				continue
			}
			v, iss := f.schema.parseAny(fraw)
			if iss != nil {
				issues = append(issues, pointerIssue(f.name, iss))
				continue
			}
			values[f.name] = v
		}

		if len(issues) > 0 {
			return zero, &Issue{Kind: IssueComposite, Message: name, Issues: issues}
		}

		return assemble[T](name, values), nil
	})
}

func toObject(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		obj := make(map[string]any, len(m))
		for k, v := range m {
			obj[k] = v
		}
		return obj, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	obj := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		obj[iter.Key().String()] = iter.Value().Interface()
	}

	return obj, true
}

// assemble builds a T out of already decoded values. A failure here means the
// schema and its target type disagree, so it panics with a *ConfigError which
// Decode returns.
func assemble[T any](name string, input any) T {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		panic(&ConfigError{Schema: name, Err: err})
	}
	if err = dec.Decode(input); err != nil {
		panic(&ConfigError{Schema: name, Err: err})
	}

	return out
}

func checkTarget(t reflect.Type, fields []FieldSchema) error {
	switch t.Kind() {
	case reflect.Interface:
		return nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return fmt.Errorf("target type %s must have string keys", t)
		}
		return nil
	case reflect.Struct:
	default:
		return fmt.Errorf("target type %s must be a struct or a map", t)
	}

	var names []string
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		names = append(names, name)
	}

	var errs []error
	for _, f := range fields {
		found := false
		for _, n := range names {
			if strings.EqualFold(n, f.name) {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("target type %s has no field %q", t, f.name))
		}
	}

	return errors.Join(errs...)
}

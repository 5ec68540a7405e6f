package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Array accepts slices and arrays whose elements are all accepted by elem.
// Every failing element is reported under its index.
func Array[T any](elem Schema[T]) Schema[[]T] {
	name := fmt.Sprintf("Array<%s>", elem)
	return newSchema(name, func(raw any) ([]T, *Issue) {
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, typeIssue(name, raw)
		}

		out := make([]T, 0, rv.Len())
		var issues []*Issue
		for i := range rv.Len() {
			v, iss := elem.parse(rv.Index(i).Interface())
			if iss != nil {
				issues = append(issues, pointerIssue(i, iss))
				continue
			}
			out = append(out, v)
		}

		if len(issues) > 0 {
			return nil, &Issue{Kind: IssueComposite, Message: name, Issues: issues}
		}

		return out, nil
	})
}

// Union accepts values accepted by any of members, trying them in order.
// It panics with a *ConfigError if no members are given.
func Union[T any](members ...Schema[T]) Schema[T] {
	labels := make([]string, len(members))
	for i, m := range members {
		labels[i] = m.String()
	}
	name := strings.Join(labels, " | ")
	if len(members) == 0 {
		panic(&ConfigError{Schema: "Union", Err: errors.New("no union members")})
	}

	return newSchema(name, func(raw any) (T, *Issue) {
		issues := make([]*Issue, 0, len(members))
		for _, m := range members {
			v, iss := m.parse(raw)
			if iss == nil {
				return v, nil
			}
			issues = append(issues, iss)
		}

		var zero T
		return zero, &Issue{Kind: IssueUnion, Message: name, Issues: issues}
	})
}

package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSON compiles a JSON Schema (draft 2020-12) document into a Schema. Values
// that validate are assembled into a T the same way Struct does it.
//
// Validation failures are converted into issues located by the instance
// location reported by the validator. Path segments are always strings, even
// for array indices.
func JSON[T any](name, document string) (Schema[T], error) {
	url := fmt.Sprintf("mem://purr/%s.schema.json", name)

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(url, strings.NewReader(document)); err != nil {
		return nil, &ConfigError{Schema: name, Err: fmt.Errorf("failed loading JSON schema: %w", err)}
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, &ConfigError{Schema: name, Err: fmt.Errorf("failed compiling JSON schema: %w", err)}
	}

	return newSchema(name, func(raw any) (T, *Issue) {
		var zero T
		if err := compiled.Validate(raw); err != nil {
			var verr *jsonschema.ValidationError
			if !errors.As(err, &verr) {
				return zero, typeIssue(name, raw)
			}
			return zero, &Issue{Kind: IssueComposite, Message: name, Issues: convertCauses("", verr)}
		}

		return assemble[T](name, raw), nil
	}), nil
}

// convertCauses converts the failures below e into issues, with pointers
// relative to the instance location parent.
func convertCauses(parent string, e *jsonschema.ValidationError) []*Issue {
	if len(e.Causes) == 0 {
		return []*Issue{convertLeaf(parent, e)}
	}

	var issues []*Issue
	for _, cause := range e.Causes {
		// Causes with an empty message only group failures of the same
		// instance, so their causes are spliced in directly.
		if cause.Message == "" && len(cause.Causes) > 0 {
			issues = append(issues, convertCauses(parent, cause)...)
			continue
		}
		if len(cause.Causes) == 0 {
			issues = append(issues, convertLeaf(parent, cause))
			continue
		}

		kind := IssueComposite
		if keyword := lastSegment(cause.KeywordLocation); keyword == "anyOf" || keyword == "oneOf" {
			kind = IssueUnion
		}
		node := &Issue{
			Kind:    kind,
			Message: cause.Message,
			Issues:  convertCauses(cause.InstanceLocation, cause),
		}
		issues = append(issues, locate(parent, cause.InstanceLocation, node))
	}

	return issues
}

func convertLeaf(parent string, e *jsonschema.ValidationError) *Issue {
	kind := IssueRefinement
	switch lastSegment(e.KeywordLocation) {
	case "type", "const", "enum":
		kind = IssueType
	case "required", "dependentRequired":
		kind = IssueMissing
	case "additionalProperties", "unevaluatedProperties", "propertyNames":
		kind = IssueUnexpected
	}

	return locate(parent, e.InstanceLocation, &Issue{Kind: kind, Message: e.Message})
}

// locate wraps node in one pointer issue per JSON pointer segment between the
// parent and child instance locations.
func locate(parent, child string, node *Issue) *Issue {
	rel := strings.TrimPrefix(child, parent)
	segments := strings.Split(strings.Trim(rel, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		seg := strings.NewReplacer("~1", "/", "~0", "~").Replace(segments[i])
		node = pointerIssue(seg, node)
	}

	return node
}

func lastSegment(pointer string) string {
	if idx := strings.LastIndex(pointer, "/"); idx >= 0 {
		return pointer[idx+1:]
	}
	return pointer
}

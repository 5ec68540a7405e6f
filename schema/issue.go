package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IssueKind is the kind of a node in an issue tree.
type IssueKind uint8

const (
	// IssueType means the value has the wrong type.
	IssueType IssueKind = iota
	// IssueMissing means a required key is absent.
	IssueMissing
	// IssueUnexpected means a key or value isn't allowed.
	IssueUnexpected
	// IssueRefinement means the value has the right type but fails a predicate.
	IssueRefinement
	// IssueTransformation means the value couldn't be converted.
	IssueTransformation
	// IssuePointer locates its children under a key or index.
	IssuePointer
	// IssueComposite groups several failures of one value.
	IssueComposite
	// IssueUnion holds the failure of every member of a union.
	IssueUnion
)

func (k IssueKind) String() string {
	switch k {
	case IssueType:
		return "Type"
	case IssueMissing:
		return "Missing"
	case IssueUnexpected:
		return "Unexpected"
	case IssueRefinement:
		return "Refinement"
	case IssueTransformation:
		return "Transformation"
	case IssuePointer:
		return "Pointer"
	case IssueComposite:
		return "Composite"
	case IssueUnion:
		return "Union"
	default:
		return fmt.Sprintf("IssueKind(%d)", uint8(k))
	}
}

// Issue is a node in the tree describing why a value failed to decode.
// Leaves carry a Message. Pointer nodes carry a Key (a string for struct
// fields, an int for array elements). Composite and Union nodes carry the
// description of the schema that failed as their Message.
type Issue struct {
	Kind    IssueKind
	Key     any
	Message string
	Issues  []*Issue
}

// IsLeaf returns true if the issue has no children.
func (i *Issue) IsLeaf() bool {
	switch i.Kind {
	case IssuePointer, IssueComposite, IssueUnion:
		return false
	default:
		return true
	}
}

// String renders the issue tree, e.g.:
//
//	{ id: string; name: string }
//	├─ ["id"]
//	│  └─ is missing
//	└─ ["name"]
//	   └─ is missing
func (i *Issue) String() string {
	var sb strings.Builder
	sb.WriteString(i.label())
	i.drawChildren(&sb, "")
	return sb.String()
}

func (i *Issue) drawChildren(sb *strings.Builder, indent string) {
	for idx, child := range i.Issues {
		branch, next := "├─ ", "│  "
		if idx == len(i.Issues)-1 {
			branch, next = "└─ ", "   "
		}
		sb.WriteString("\n")
		sb.WriteString(indent)
		sb.WriteString(branch)
		sb.WriteString(child.label())
		child.drawChildren(sb, indent+next)
	}
}

func (i *Issue) label() string {
	if i.Kind != IssuePointer {
		return i.Message
	}
	if idx, ok := i.Key.(int); ok {
		return fmt.Sprintf("[%d]", idx)
	}
	return fmt.Sprintf("[%s]", strconv.Quote(fmt.Sprint(i.Key)))
}

func (i *Issue) flatten(path []any, out []Detail) []Detail {
	switch i.Kind {
	case IssuePointer:
		next := make([]any, len(path), len(path)+1)
		copy(next, path)
		next = append(next, i.Key)
		for _, child := range i.Issues {
			out = child.flatten(next, out)
		}
	case IssueComposite, IssueUnion:
		for _, child := range i.Issues {
			out = child.flatten(path, out)
		}
	default:
		p := make([]any, len(path))
		copy(p, path)
		out = append(out, Detail{Path: p, Message: i.Message})
	}

	return out
}

// Detail is a single leaf of an issue tree together with its path from the
// decode root.
type Detail struct {
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

// Format renders the issue tree of a *ParseError. Other errors are rendered
// with their Error method.
func Format(err error) string {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Issue.String()
	}
	return err.Error()
}

// Flatten returns one Detail per leaf issue of a *ParseError, in tree order.
// It returns nil for other errors.
func Flatten(err error) []Detail {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return nil
	}
	return perr.Details()
}

func typeIssue(expected string, actual any) *Issue {
	return &Issue{Kind: IssueType, Message: fmt.Sprintf("Expected %s, actual %s", expected, formatActual(actual))}
}

func missingIssue() *Issue {
	return &Issue{Kind: IssueMissing, Message: "is missing"}
}

func pointerIssue(key any, child *Issue) *Issue {
	return &Issue{Kind: IssuePointer, Key: key, Issues: []*Issue{child}}
}

func formatActual(v any) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", v)
}

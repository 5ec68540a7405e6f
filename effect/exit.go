package effect

import "fmt"

// ExitKind is the way an Effect ended.
type ExitKind uint8

const (
	ExitSuccess ExitKind = iota
	ExitFailure
	ExitDefect
)

func (k ExitKind) String() string {
	switch k {
	case ExitSuccess:
		return "success"
	case ExitFailure:
		return "failure"
	case ExitDefect:
		return "defect"
	default:
		return fmt.Sprintf("ExitKind(%d)", uint8(k))
	}
}

// Exit is the result of executing an Effect. Value is set on success; Cause
// holds the error on failure, or the panic value on defect.
type Exit struct {
	Kind  ExitKind
	Value any
	Cause any
}

// DefectError wraps the value an Effect panicked with.
type DefectError struct {
	Value any
}

// Error implements the error interface.
func (e *DefectError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *DefectError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

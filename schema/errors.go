package schema

import "fmt"

type ErrorKind int

const (
	UnknownVariant ErrorKind = iota + 1
	MissingField
	TypeMismatch
	EmptyValue
	InvalidValue
	UnexpectedField
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownVariant:
		return "unknown variant"
	case MissingField:
		return "missing field"
	case TypeMismatch:
		return "type mismatch"
	case EmptyValue:
		return "empty value"
	case InvalidValue:
		return "invalid value"
	case UnexpectedField:
		return "unexpected field"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ValidationError reports the first schema violation found in a payload.
// Path locates the enclosing object (e.g. "pages[1].elements[0]"), empty at the root.
type ValidationError struct {
	Kind     ErrorKind
	Path     string
	Field    string
	Expected string
	Actual   string
}

func (e *ValidationError) Error() string {
	var msg string
	switch e.Kind {
	case UnknownVariant:
		msg = fmt.Sprintf("unknown element type %q", e.Actual)
	case MissingField:
		msg = fmt.Sprintf("missing field %q", e.Field)
	case TypeMismatch:
		msg = fmt.Sprintf("field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	case EmptyValue:
		msg = fmt.Sprintf("field %q must not be empty", e.Field)
	case InvalidValue:
		msg = fmt.Sprintf("field %q: invalid value %s (%s)", e.Field, e.Actual, e.Expected)
	case UnexpectedField:
		msg = fmt.Sprintf("unexpected field %q", e.Field)
	default:
		msg = e.Kind.String()
	}
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

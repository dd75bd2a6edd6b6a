package sqlbind

import "fmt"

// ErrorKind classifies resolution failures.
type ErrorKind int

const (
	// KindNotFound marks a placeholder with no matching bound value. This
	// covers index 0, indices past the bound count, and malformed
	// placeholder text, which parses to index 0.
	KindNotFound ErrorKind = iota
	// KindSerialization marks a bound-value payload that could not be
	// decoded.
	KindSerialization
	// KindUnsupported marks a query or statement construct the resolver
	// does not handle, including exhausted recursion depth.
	KindUnsupported
)

// Error is the structured failure type returned by all resolver operations.
// Detail carries the literal placeholder text for KindNotFound, the decoder
// message for KindSerialization, and the construct name for KindUnsupported.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("parameter %s not found.", e.Detail)
	case KindSerialization:
		return fmt.Sprintf("serialization: %s", e.Detail)
	case KindUnsupported:
		return fmt.Sprintf("unsupported construct: %s", e.Detail)
	default:
		return fmt.Sprintf("sqlbind error: %s", e.Detail)
	}
}

// Is matches errors by kind so callers can test with errors.Is against the
// exported sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Detail == "" || t.Detail == e.Detail)
}

// Kind sentinels for errors.Is.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrSerialization = &Error{Kind: KindSerialization}
	ErrUnsupported   = &Error{Kind: KindUnsupported}
)

func notFoundErr(label string) *Error {
	return &Error{Kind: KindNotFound, Detail: label}
}

func serializationErr(format string, a ...any) *Error {
	return &Error{Kind: KindSerialization, Detail: fmt.Sprintf(format, a...)}
}

func unsupportedErr(format string, a ...any) *Error {
	return &Error{Kind: KindUnsupported, Detail: fmt.Sprintf(format, a...)}
}

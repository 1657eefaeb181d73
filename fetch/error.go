package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// Kind represents the cause class of a failed fetch
type Kind string

const (
	// KindTransport covers request construction, network failures and
	// responses that cannot carry JSON (non-2xx status).
	KindTransport Kind = "TRANSPORT"
	// KindSerialization covers bodies that are not JSON or do not match the
	// expected payload shape.
	KindSerialization Kind = "SERIALIZATION"
)

// Error is the single error type surfaced by a fetch
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Cause
}

// Dump renders a multi-line diagnostic for display
func (e *Error) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Failed!\n%s {\n", kindName(e.Kind))
	fmt.Fprintf(&b, "    message: %q,\n", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, "    cause: %q,\n", e.Cause.Error())
	}
	b.WriteString("}")
	return b.String()
}

func kindName(k Kind) string {
	switch k {
	case KindTransport:
		return "Transport"
	case KindSerialization:
		return "Serialization"
	default:
		return string(k)
	}
}

// Transport creates a transport-level error
func Transport(cause error, message string) *Error {
	return &Error{Kind: KindTransport, Message: message, Cause: cause}
}

// Serialization creates a payload decoding error
func Serialization(cause error, message string) *Error {
	return &Error{Kind: KindSerialization, Message: message, Cause: cause}
}

// From normalizes err into an *Error. Foreign errors become transport errors.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return Transport(err, "request failed")
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool { return IsKind(err, KindTransport) }

// IsSerialization reports whether err is a decoding failure
func IsSerialization(err error) bool { return IsKind(err, KindSerialization) }

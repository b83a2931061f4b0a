// Package failure defines the closed set of errors produced while reading
// and decoding host facts.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// SourceUnavailable means the raw source could not be read: missing
	// file, permission denied, failed native call or command.
	SourceUnavailable Kind = iota + 1
	// Decode means the source was read but its content is malformed.
	Decode
	// InvalidDeviceKind means a device name does not carry the prefix
	// required by a typed constructor.
	InvalidDeviceKind
	// UnsupportedPlatform means the fact has no implementation on this OS.
	UnsupportedPlatform
)

func (k Kind) String() string {
	switch k {
	case SourceUnavailable:
		return "source unavailable"
	case Decode:
		return "decode error"
	case InvalidDeviceKind:
		return "invalid device kind"
	case UnsupportedPlatform:
		return "unsupported platform"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels usable with errors.Is.
var (
	ErrSourceUnavailable   = &Error{Kind: SourceUnavailable}
	ErrDecode              = &Error{Kind: Decode}
	ErrInvalidDeviceKind   = &Error{Kind: InvalidDeviceKind}
	ErrUnsupportedPlatform = &Error{Kind: UnsupportedPlatform}
)

// Error is the single error type returned by readers and decoders.
type Error struct {
	Kind Kind
	// Op names the fact or reader, e.g. "net/dev" or "proc/stat".
	Op string
	// Input is the raw offending input: a path, a command line, a sysctl
	// name or the line fragment that failed to decode.
	Input string
	// Expected and Actual are set for field-count mismatches.
	Expected int
	Actual   int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Expected != 0 || e.Actual != 0 {
		fmt.Fprintf(&b, ": expected %d fields, got %d", e.Expected, e.Actual)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Input != "" {
		fmt.Fprintf(&b, " (input %q)", e.Input)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the package sentinels work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Input == "" && t.Err == nil
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// Unavailable wraps an I/O or native-call failure.
func Unavailable(op, input string, err error) *Error {
	return &Error{Kind: SourceUnavailable, Op: op, Input: input, Err: err}
}

// Malformed reports content that could not be decoded.
func Malformed(op, input string, err error) *Error {
	return &Error{Kind: Decode, Op: op, Input: input, Err: err}
}

// Malformedf is Malformed with a formatted cause.
func Malformedf(op, input, format string, args ...any) *Error {
	return Malformed(op, input, fmt.Errorf(format, args...))
}

// FieldCount reports a record whose token count does not match its layout.
func FieldCount(op, line string, expected, actual int) *Error {
	return &Error{Kind: Decode, Op: op, Input: line, Expected: expected, Actual: actual}
}

// MissingKey reports a required key absent from a key:value listing.
func MissingKey(op, key string) *Error {
	return &Error{Kind: Decode, Op: op, Input: key, Err: fmt.Errorf("missing key %q", key)}
}

// InvalidDevice reports a device name without the required prefix.
func InvalidDevice(name, prefix string) *Error {
	return &Error{
		Kind:  InvalidDeviceKind,
		Op:    "block",
		Input: name,
		Err:   fmt.Errorf("device name must start with %q", prefix),
	}
}

// Unsupported reports a fact that the current OS does not implement.
func Unsupported(op, goos string) *Error {
	return &Error{Kind: UnsupportedPlatform, Op: op, Input: goos}
}

package sqlcraft

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for the build and validation stages.
var (
	// ErrArgument is returned when a builder call receives input it cannot
	// turn into a statement, such as an empty INSERT data set or an UPDATE
	// without a WHERE condition.
	ErrArgument = errors.New("sqlcraft: invalid argument")

	// ErrUnsupported is returned when a construct is not available under the
	// active dialect, such as RIGHT JOIN on the embedded engine.
	ErrUnsupported = errors.New("sqlcraft: unsupported operation")

	// ErrPermission is returned when the sandbox refuses to execute a
	// statement, either because its leading verb is not allow-listed or
	// because the text matches a banned fragment.
	ErrPermission = errors.New("sqlcraft: permission denied")
)

// ArgumentError reports a builder call that cannot produce a statement.
type ArgumentError struct {
	msg string
}

// Error returns the error string.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("sqlcraft: invalid argument: %s", e.msg)
}

// Is reports whether the target error matches ArgumentError.
// This allows errors.Is(err, ErrArgument) to return true.
func (e *ArgumentError) Is(err error) bool {
	return err == ErrArgument
}

// NewArgumentError returns a new ArgumentError with a formatted message.
func NewArgumentError(format string, args ...any) *ArgumentError {
	return &ArgumentError{msg: fmt.Sprintf(format, args...)}
}

// IsArgument returns true if the error is an ArgumentError.
func IsArgument(err error) bool {
	if err == nil {
		return false
	}
	var e *ArgumentError
	return errors.As(err, &e) || errors.Is(err, ErrArgument)
}

// UnsupportedError reports a construct the active dialect cannot express.
type UnsupportedError struct {
	Op      string // Construct that was requested (e.g., "RIGHT JOIN")
	Dialect string // Dialect that cannot express it
}

// Error returns the error string.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("sqlcraft: %s is not supported by the %s dialect", e.Op, e.Dialect)
}

// Is reports whether the target error matches UnsupportedError.
func (e *UnsupportedError) Is(err error) bool {
	return err == ErrUnsupported
}

// NewUnsupportedError returns a new UnsupportedError for the given construct.
func NewUnsupportedError(op, dialect string) *UnsupportedError {
	return &UnsupportedError{Op: op, Dialect: dialect}
}

// IsUnsupported returns true if the error is an UnsupportedError.
func IsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupported)
}

// PermissionError reports a statement the sandbox refused to execute.
type PermissionError struct {
	Verb   string // Leading verb of the statement, uppercased ("" if the denial was substring-based)
	Reason string // Human-readable denial reason
}

// Error returns the error string.
func (e *PermissionError) Error() string {
	if e.Verb != "" {
		return fmt.Sprintf("sqlcraft: permission denied: verb %s: %s", e.Verb, e.Reason)
	}
	return fmt.Sprintf("sqlcraft: permission denied: %s", e.Reason)
}

// Is reports whether the target error matches PermissionError.
func (e *PermissionError) Is(err error) bool {
	return err == ErrPermission
}

// NewPermissionError returns a new PermissionError for the given verb.
func NewPermissionError(verb, reason string) *PermissionError {
	return &PermissionError{Verb: verb, Reason: reason}
}

// IsPermission returns true if the error is a PermissionError.
func IsPermission(err error) bool {
	if err == nil {
		return false
	}
	var e *PermissionError
	return errors.As(err, &e) || errors.Is(err, ErrPermission)
}

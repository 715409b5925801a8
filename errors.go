package storago

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for adapter and coercion operations.
var (
	// ErrDatabaseNotConnected is returned by every statement-issuing call on an
	// adapter that has no open connection. The driver is never reached.
	ErrDatabaseNotConnected = errors.New("storago: database not connected, please call Connect first")

	// ErrInvalidValue is returned when a value cannot be converted to or from
	// the storage representation of its field type.
	ErrInvalidValue = errors.New("storago: invalid value")
)

// IsNotConnected returns true if the error is, or wraps, ErrDatabaseNotConnected.
func IsNotConnected(err error) bool {
	return err != nil && errors.Is(err, ErrDatabaseNotConnected)
}

// ValueError describes a value that could not be coerced for a field type.
type ValueError struct {
	Type  string // Declared field type, e.g. "INTEGER"
	Value any    // Offending value
	Err   error  // Underlying parse error, if any
}

// Error returns the error string.
func (e *ValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storago: invalid %s value %v (%T): %v", e.Type, e.Value, e.Value, e.Err)
	}
	return fmt.Sprintf("storago: invalid %s value %v (%T)", e.Type, e.Value, e.Value)
}

// Is reports whether the target error matches ErrInvalidValue.
func (e *ValueError) Is(err error) bool {
	return err == ErrInvalidValue
}

// Unwrap returns the underlying error.
func (e *ValueError) Unwrap() error {
	return e.Err
}

// NewValueError returns a new ValueError.
func NewValueError(typ string, value any, err error) *ValueError {
	return &ValueError{Type: typ, Value: value, Err: err}
}

// IsInvalidValue returns true if the error is a ValueError or wraps ErrInvalidValue.
func IsInvalidValue(err error) bool {
	if err == nil {
		return false
	}
	var e *ValueError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidValue)
}

// ValidationError represents a failure converting the value of a named field.
type ValidationError struct {
	Name string // Field name
	Err  error  // Underlying coercion error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("storago: field %q: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given field.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// SchemaError reports an invalid schema declaration.
type SchemaError struct {
	Schema string
	msg    string
}

// Error returns the error string.
func (e *SchemaError) Error() string {
	if e.Schema == "" {
		return "storago: schema: " + e.msg
	}
	return fmt.Sprintf("storago: schema %q: %s", e.Schema, e.msg)
}

// NewSchemaError returns a new SchemaError with a formatted message.
func NewSchemaError(schema, format string, args ...any) *SchemaError {
	return &SchemaError{Schema: schema, msg: fmt.Sprintf(format, args...)}
}

// IsSchemaError returns true if the error is a SchemaError.
func IsSchemaError(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaError
	return errors.As(err, &e)
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDatasetNotFound signals an unknown dataset name.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrCustomerNotFound signals an unknown customer id.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrInvalidQuery signals a query descriptor that failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnknownField signals a query that references a field with no accessor.
	// This is a caller configuration bug, never a data problem.
	ErrUnknownField = errors.New("configuration error: unknown field")
	// ErrFieldTypeMismatch signals a filter applied to a field of the wrong type.
	ErrFieldTypeMismatch = errors.New("configuration error: field type mismatch")

	// ErrUnknownActivity signals an activity kind outside the closed set.
	ErrUnknownActivity = errors.New("unknown activity kind")
	// ErrInvalidActivity signals an activity payload that failed decoding or validation.
	ErrInvalidActivity = errors.New("invalid activity")
	// ErrBusClosed signals a publish or subscribe on a closed event bus.
	ErrBusClosed = errors.New("event bus closed")
)

// UnknownFieldError wraps ErrUnknownField with the offending field and pipeline stage.
type UnknownFieldError struct {
	Field string
	Stage string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: %q referenced by %s", ErrUnknownField.Error(), e.Field, e.Stage)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// NewUnknownField creates an unknown field configuration error.
func NewUnknownField(field, stage string) error {
	return &UnknownFieldError{Field: field, Stage: stage}
}

// FieldTypeError wraps ErrFieldTypeMismatch with the field, its type and the expected one.
type FieldTypeError struct {
	Field    string
	Actual   string
	Expected string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s: %q is %s, want %s",
		ErrFieldTypeMismatch.Error(), e.Field, e.Actual, e.Expected)
}

func (e *FieldTypeError) Unwrap() error { return ErrFieldTypeMismatch }

// NewFieldTypeMismatch creates a field type configuration error.
func NewFieldTypeMismatch(field, actual, expected string) error {
	return &FieldTypeError{Field: field, Actual: actual, Expected: expected}
}

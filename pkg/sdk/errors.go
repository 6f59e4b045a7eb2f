package listquery

import "github.com/kailas-cloud/listquery/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery      = domain.ErrInvalidQuery
	ErrUnknownField      = domain.ErrUnknownField
	ErrFieldTypeMismatch = domain.ErrFieldTypeMismatch
)

// UnknownFieldError names the field and pipeline stage of an unknown-field error.
// Use errors.As() to extract it.
type UnknownFieldError = domain.UnknownFieldError

// FieldTypeError names the field and the types involved in a type mismatch.
type FieldTypeError = domain.FieldTypeError

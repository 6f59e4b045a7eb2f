package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kailas-cloud/listquery/internal/domain"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest        = "bad_request"
	CodeValidationFailed  = "validation_failed"
	CodeNotFound          = "not_found"
	CodeDatasetNotFound   = "dataset_not_found"
	CodeCustomerNotFound  = "customer_not_found"
	CodeUnknownField      = "unknown_field"
	CodeFieldTypeMismatch = "field_type_mismatch"
	CodeUnknownActivity   = "unknown_activity"
	CodeInvalidActivity   = "invalid_activity"
	CodeUnavailable       = "unavailable"
	CodeMethodNotAllowed  = "method_not_allowed"
	CodeInternalError     = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		unknownFieldHandler,
		fieldTypeHandler,
		sentinelHandler(domain.ErrDatasetNotFound, http.StatusNotFound, CodeDatasetNotFound),
		sentinelHandler(domain.ErrCustomerNotFound, http.StatusNotFound, CodeCustomerNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrUnknownActivity, http.StatusBadRequest, CodeUnknownActivity),
		sentinelHandler(domain.ErrInvalidActivity, http.StatusBadRequest, CodeInvalidActivity),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrBusClosed, http.StatusServiceUnavailable, CodeUnavailable),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDatasetNotFound,
		domain.ErrCustomerNotFound,
		domain.ErrNotFound,
		domain.ErrUnknownField,
		domain.ErrFieldTypeMismatch,
		domain.ErrUnknownActivity,
		domain.ErrInvalidActivity,
		domain.ErrInvalidQuery,
		domain.ErrBusClosed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// unknownFieldHandler reports the offending field and pipeline stage.
func unknownFieldHandler(w http.ResponseWriter, err error, _ string) bool {
	var ufe *domain.UnknownFieldError
	if !errors.As(err, &ufe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    CodeUnknownField,
		Message: ufe.Error(),
		Field:   ufe.Field,
		Stage:   ufe.Stage,
	})
	return true
}

func fieldTypeHandler(w http.ResponseWriter, err error, _ string) bool {
	var fte *domain.FieldTypeError
	if !errors.As(err, &fte) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    CodeFieldTypeMismatch,
		Message: fte.Error(),
		Field:   fte.Field,
	})
	return true
}

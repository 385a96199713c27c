// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Catalog errors
	CodeUnknownClass     Code = "UNKNOWN_CLASS"
	CodeInvalidClassData Code = "INVALID_CLASS_DATA"

	// Session errors
	CodeNotLoaded Code = "NOT_LOADED"

	// Request errors
	CodeInvalidRequest   Code = "INVALID_REQUEST"
	CodeInvalidOperation Code = "INVALID_OPERATION"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad input
	case CodeInvalidRequest,
		CodeInvalidOperation:
		return http.StatusBadRequest

	// Resource doesn't exist
	case CodeUnknownClass,
		CodeNotFound:
		return http.StatusNotFound

	// State doesn't allow operation
	case CodeNotLoaded:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

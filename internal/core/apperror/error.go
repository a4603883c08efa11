// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes following domain-driven design
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"
	CodeCommit   = "COMMIT_FAILURE"

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Business rule violations (400/422)
	CodeInsufficientStock         = "INSUFFICIENT_STOCK"
	CodeInsufficientLoyaltyPoints = "INSUFFICIENT_LOYALTY_POINTS"
	CodeExcessiveReturnQuantity   = "EXCESSIVE_RETURN_QUANTITY"
	CodeRefundAmountMismatch      = "REFUND_AMOUNT_MISMATCH"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict        = "CONFLICT"
	CodeDuplicate       = "DUPLICATE_ENTRY"
	CodeAlreadyReturned = "ALREADY_RETURNED"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInsufficientStock creates a stock shortage error.
// Reports requested vs. available so the cashier can correct the basket.
func NewInsufficientStock(barcode string, requested, available int) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    fmt.Sprintf("Insufficient stock for barcode %s", barcode),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"barcode":   barcode,
			"requested": requested,
			"available": available,
		},
	}
}

// NewInsufficientLoyaltyPoints creates a loyalty balance error.
func NewInsufficientLoyaltyPoints(requested, available int) *AppError {
	return &AppError{
		Code:       CodeInsufficientLoyaltyPoints,
		Message:    "Insufficient loyalty points",
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"requested": requested,
			"available": available,
		},
	}
}

// NewAlreadyReturned is returned when an invoice already has a return against it.
func NewAlreadyReturned(invoiceNumber string) *AppError {
	return &AppError{
		Code:       CodeAlreadyReturned,
		Message:    "Invoice has already been returned",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"invoice_number": invoiceNumber},
	}
}

// NewExcessiveReturnQuantity is returned when a return line exceeds the invoiced quantity.
func NewExcessiveReturnQuantity(invoiceItemID string, requested, original int) *AppError {
	return &AppError{
		Code:       CodeExcessiveReturnQuantity,
		Message:    fmt.Sprintf("Return quantity (%d) cannot exceed original quantity (%d)", requested, original),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"invoice_item_id": invoiceItemID,
			"requested":       requested,
			"original":        original,
		},
	}
}

// NewRefundAmountMismatch is returned when the declared refund does not match the computed total.
func NewRefundAmountMismatch(method, declared, computed string) *AppError {
	return &AppError{
		Code:       CodeRefundAmountMismatch,
		Message:    fmt.Sprintf("Declared %s amount (%s) must equal return amount (%s)", method, declared, computed),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"return_method": method,
			"declared":      declared,
			"computed":      computed,
		},
	}
}

// NewCommitFailure wraps a storage failure during the commit phase (503, safe to retry).
// The transaction has been rolled back; no partial state was persisted.
func NewCommitFailure(err error) *AppError {
	return &AppError{
		Code:       CodeCommit,
		Message:    "Transaction could not be committed, please retry",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// HasCode checks the error chain for a specific code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

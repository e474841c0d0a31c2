package model

import (
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	ErrCodeOrderTooLarge   = "ORDER_TOO_LARGE"
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeCartNotFound    = "CART_NOT_FOUND"
	ErrCodeOrderNotFound   = "ORDER_NOT_FOUND"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsNotFound reports whether the error denotes a missing resource.
func (e *DomainError) IsNotFound() bool {
	return strings.HasSuffix(e.Code, "_NOT_FOUND")
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a domain error for malformed input.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrCartNotFound    = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrEmptyCart       = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, fmt.Sprintf("Quantity must be between 1 and %d", MaxItemQuantity))
	ErrOrderTooLarge   = NewDomainError(ErrCodeOrderTooLarge, "Order total exceeds the maximum amount")
)

// StoreError wraps a failure of the underlying database.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that wrapped copies with a richer
// message still satisfy errors.Is against the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithMessage returns a copy of the error carrying a formatted message
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrNotFound                = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists           = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput            = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict     = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInsufficientStock       = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidProductState     = NewDomainError("INVALID_PRODUCT_STATE", "Product snapshot violates pricing invariants")
	ErrInconsistentReturnState = NewDomainError("INCONSISTENT_RETURN_STATE", "Sale item has more returned than sold")
	ErrDuplicateRequest        = NewDomainError("DUPLICATE_REQUEST", "Request with this idempotency key was already processed")
)

package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is used when a request body or query fails binding
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodePricingRule is used when product pricing fields break a pricing rule
	ErrCodePricingRule = "ERR_PRICING_RULE"
	// ErrCodeReturnRejected is used when a return request fails reconciliation
	ErrCodeReturnRejected = "ERR_RETURN_REJECTED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrentModification is used when optimistic locking fails
	ErrCodeConcurrentModification = "ERR_CONCURRENT_MODIFICATION"
	// ErrCodeDuplicateRequest is used when an Idempotency-Key was already seen
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

// State error codes. The caller must refetch before trying again.
const (
	ErrCodeInvalidProductState     = "ERR_INVALID_PRODUCT_STATE"
	ErrCodeInconsistentReturnState = "ERR_INCONSISTENT_RETURN_STATE"
	ErrCodeStaleReturn             = "ERR_STALE_RETURN"
)

// Business rule error codes
const (
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodePricingRule:    http.StatusUnprocessableEntity,
	ErrCodeReturnRejected: http.StatusUnprocessableEntity,

	ErrCodeNotFound:               http.StatusNotFound,
	ErrCodeAlreadyExists:          http.StatusConflict,
	ErrCodeConflict:               http.StatusConflict,
	ErrCodeConcurrentModification: http.StatusConflict,
	ErrCodeDuplicateRequest:       http.StatusConflict,

	ErrCodeInvalidProductState:     http.StatusConflict,
	ErrCodeInconsistentReturnState: http.StatusConflict,
	ErrCodeStaleReturn:             http.StatusConflict,

	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"CONCURRENCY_CONFLICT":      ErrCodeConcurrentModification,
	"INSUFFICIENT_STOCK":        ErrCodeInsufficientStock,
	"INVALID_PRODUCT_STATE":     ErrCodeInvalidProductState,
	"INCONSISTENT_RETURN_STATE": ErrCodeInconsistentReturnState,
	"DUPLICATE_REQUEST":         ErrCodeDuplicateRequest,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unmapped codes are business rule violations.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeBusinessRule
}

package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodePricingRule, http.StatusUnprocessableEntity},
		{ErrCodeReturnRejected, http.StatusUnprocessableEntity},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrentModification, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeInvalidProductState, http.StatusConflict},
		{ErrCodeInconsistentReturnState, http.StatusConflict},
		{ErrCodeStaleReturn, http.StatusConflict},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrentModification},
		{"INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"INVALID_PRODUCT_STATE", ErrCodeInvalidProductState},
		{"INCONSISTENT_RETURN_STATE", ErrCodeInconsistentReturnState},
		{"DUPLICATE_REQUEST", ErrCodeDuplicateRequest},
		// API codes pass through unchanged
		{ErrCodeValidation, ErrCodeValidation},
		// Unmapped domain codes are business rule violations
		{"NO_ITEMS", ErrCodeBusinessRule},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainErrorCodeMappingTargetsKnownCodes(t *testing.T) {
	for domainCode, apiCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[apiCode]
		assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, apiCode)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Sale not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Sale not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Details)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "items", Code: "required", Message: "This field is required"},
		{Field: "note", Code: "max", Message: "Must be at most 500 characters"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "items", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	available := 3
	resp := NewDetailedErrorResponse(ErrCodeReturnRejected, "Return rejected", "req-1", []ValidationDetail{
		{Field: "items", Code: "quantityExceedsAvailable", Message: "exceeds", SaleItemID: "abc", Available: &available},
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeReturnRejected, errObj["code"])
	assert.Equal(t, "req-1", errObj["request_id"])
	detail := errObj["details"].([]any)[0].(map[string]any)
	assert.Equal(t, "abc", detail["sale_item_id"])
	assert.Equal(t, float64(3), detail["available"])
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
	}{
		{100, 10, 10},
		{101, 10, 11},
		{0, 10, 0},
		{9, 10, 1},
		{5, 0, 0},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}

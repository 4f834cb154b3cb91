package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// parseID reads the :id path parameter. On failure it writes a 400 and
// returns false.
func (h *BaseHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// BindError answers a failed ShouldBind* call. Validator failures carry
// per-field details; malformed bodies get a plain 400.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		h.ValidationError(c, middleware.ValidationDetails(verrs))
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
			"Request body exceeds maximum allowed size")
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
}

// HandleDomainError converts service errors to HTTP responses. Pricing field
// errors and rejected returns carry per-field details; domain errors are
// mapped by code; anything else is a 500.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var fieldErrs catalog.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusUnprocessableEntity, dto.NewDetailedErrorResponse(
			dto.ErrCodePricingRule, "Pricing fields are invalid", requestID, fieldErrorDetails(fieldErrs)))
		return
	}

	var returnErrs trade.ReturnErrors
	if errors.As(err, &returnErrs) {
		code, message := dto.ErrCodeReturnRejected, "Return request is invalid"
		if returnErrs.HasFatal() {
			code, message = dto.ErrCodeStaleReturn, "Return request does not match the sale; reload the sale and retry"
		}
		c.JSON(dto.GetHTTPStatus(code), dto.NewDetailedErrorResponse(
			code, message, requestID, returnErrorDetails(returnErrs)))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	_ = c.Error(err)
	h.InternalError(c, "An unexpected error occurred")
}

func fieldErrorDetails(errs catalog.FieldErrors) []dto.ValidationDetail {
	details := make([]dto.ValidationDetail, 0, len(errs))
	for _, e := range errs {
		details = append(details, dto.ValidationDetail{
			Field:   e.Field,
			Code:    e.Code,
			Message: e.Message(),
		})
	}
	return details
}

func returnErrorDetails(errs trade.ReturnErrors) []dto.ValidationDetail {
	details := make([]dto.ValidationDetail, 0, len(errs))
	for _, e := range errs {
		d := dto.ValidationDetail{
			Field:     e.Field,
			Code:      e.Code,
			Message:   returnErrorMessage(e),
			Available: e.Available,
		}
		if e.SaleItemID != nil {
			d.SaleItemID = e.SaleItemID.String()
		}
		details = append(details, d)
	}
	return details
}

func returnErrorMessage(e trade.ReturnError) string {
	switch e.Code {
	case trade.CodeItemsRequired:
		return "at least one item with a positive quantity is required"
	case trade.CodeInvalidQuantity:
		return "quantity must not be negative"
	case trade.CodeQuantityExceedsAvailable:
		if e.Available != nil {
			return fmt.Sprintf("only %d left to return", *e.Available)
		}
		return "exceeds the quantity left to return"
	case trade.CodeUnknownItem:
		return "item does not belong to this sale"
	case trade.CodeInconsistentState:
		return "item has more returned than sold"
	default:
		return e.Code
	}
}

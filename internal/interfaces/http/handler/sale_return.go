package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/pos/backend/internal/application/trade"
)

// ReturnService is the return use-case surface the handler needs
type ReturnService interface {
	Preview(ctx context.Context, saleID uuid.UUID, req tradeapp.ReturnRequest) (*tradeapp.ReturnPreviewResponse, error)
	Commit(ctx context.Context, saleID uuid.UUID, req tradeapp.ReturnRequest) (*tradeapp.ReturnCommitResponse, error)
	ListReturns(ctx context.Context, saleID uuid.UUID) ([]tradeapp.SaleReturnResponse, error)
}

// ReturnHandler handles returns against a recorded sale
type ReturnHandler struct {
	BaseHandler
	returnService ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Preview godoc
// @Summary      Preview a return
// @Description  Validates the requested quantities and prices the refund without writing anything. The result is advisory; problems are listed in errors with valid=false.
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID"
// @Param        request body tradeapp.ReturnRequest true "Items to return"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnPreviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/{id}/returns/preview [post]
func (h *ReturnHandler) Preview(c *gin.Context) {
	saleID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req tradeapp.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	preview, err := h.returnService.Preview(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, preview)
}

// Commit godoc
// @Summary      Commit a return
// @Description  Re-validates against the locked sale, restocks and records the refund. Send expectedVersion from the preview to fail with 409 if the sale changed.
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID"
// @Param        Idempotency-Key header string false "Retry-safe request key"
// @Param        request body tradeapp.ReturnRequest true "Items to return"
// @Success      201 {object} dto.Response{data=tradeapp.ReturnCommitResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/{id}/returns [post]
func (h *ReturnHandler) Commit(c *gin.Context) {
	saleID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req tradeapp.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.returnService.Commit(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// List godoc
// @Summary      List returns of a sale
// @Tags         returns
// @Produce      json
// @Param        id path string true "Sale ID"
// @Success      200 {object} dto.Response{data=[]tradeapp.SaleReturnResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/{id}/returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
	saleID, ok := h.parseID(c)
	if !ok {
		return
	}

	returns, err := h.returnService.ListReturns(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, returns)
}

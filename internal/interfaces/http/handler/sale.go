package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/pos/backend/internal/application/trade"
)

// SaleService is the sale use-case surface the handler needs
type SaleService interface {
	Create(ctx context.Context, req tradeapp.CreateSaleRequest) (*tradeapp.SaleResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*tradeapp.SaleResponse, error)
	List(ctx context.Context, filter tradeapp.SaleListFilter) ([]tradeapp.SaleListItemResponse, int64, error)
	Summary(ctx context.Context, filter tradeapp.SalesSummaryFilter) (*tradeapp.SalesSummaryResponse, error)
}

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create godoc
// @Summary      Record a sale
// @Description  Prices every line, takes the quantities out of stock and stores the sale in one transaction.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Retry-safe request key"
// @Param        request body tradeapp.CreateSaleRequest true "Sale lines"
// @Success      201 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetByID godoc
// @Summary      Get a sale
// @Description  The sale with its items and the quantity still returnable per item.
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID"
// @Success      200 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/{id} [get]
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        from query string false "RFC3339 lower bound (inclusive)"
// @Param        to query string false "RFC3339 upper bound (exclusive)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.SaleListItemResponse,meta=dto.Meta}
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter tradeapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, sales, total, page, pageSize)
}

// Summary godoc
// @Summary      Sales summary
// @Description  Gross sales, refunds and net for sales and returns created in [from, to).
// @Tags         sales
// @Produce      json
// @Param        from query string false "RFC3339 lower bound (inclusive)"
// @Param        to query string false "RFC3339 upper bound (exclusive)"
// @Success      200 {object} dto.Response{data=tradeapp.SalesSummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/summary [get]
func (h *SaleHandler) Summary(c *gin.Context) {
	var filter tradeapp.SalesSummaryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	summary, err := h.saleService.Summary(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

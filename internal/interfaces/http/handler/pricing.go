package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/pos/backend/internal/application/catalog"
)

// PricingHandler exposes the discount calculators used by product forms
type PricingHandler struct {
	BaseHandler
	pricingService *catalogapp.PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *catalogapp.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// DiscountPrice godoc
// @Summary      Discount price from percent
// @Description  The price that takes the given percent of the margin off the sale price. derivable is false when there is no margin.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.DiscountPriceRequest true "Prices and percent"
// @Success      200 {object} dto.Response{data=catalogapp.DiscountConversionResponse}
// @Router       /pricing/discount-price [post]
func (h *PricingHandler) DiscountPrice(c *gin.Context) {
	var req catalogapp.DiscountPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.Success(c, h.pricingService.DiscountPriceFromPercent(req))
}

// DiscountPercent godoc
// @Summary      Discount percent from price
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.DiscountPercentRequest true "Prices"
// @Success      200 {object} dto.Response{data=catalogapp.DiscountConversionResponse}
// @Router       /pricing/discount-percent [post]
func (h *PricingHandler) DiscountPercent(c *gin.Context) {
	var req catalogapp.DiscountPercentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.Success(c, h.pricingService.DiscountPercentFromPrice(req))
}

// Validate godoc
// @Summary      Validate discount fields
// @Description  Lists every pricing rule a draft product breaks. Always 200; check valid.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ValidateDiscountRequest true "Draft pricing"
// @Success      200 {object} dto.Response{data=catalogapp.ValidateDiscountResponse}
// @Router       /pricing/validate [post]
func (h *PricingHandler) Validate(c *gin.Context) {
	var req catalogapp.ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.Success(c, h.pricingService.ValidateDiscount(req))
}

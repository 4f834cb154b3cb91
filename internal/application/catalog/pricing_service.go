package catalog

import (
	"github.com/pos/backend/internal/domain/catalog"
)

// PricingService exposes the pure pricing rules to clients that recompute
// discount fields while a product form is being edited
type PricingService struct{}

// NewPricingService creates a new PricingService
func NewPricingService() *PricingService {
	return &PricingService{}
}

// DiscountPriceFromPercent derives the discount price for a percent of margin
func (s *PricingService) DiscountPriceFromPercent(req DiscountPriceRequest) DiscountConversionResponse {
	price := catalog.DiscountPriceFromPercent(req.PurchasePrice, req.SalePrice, req.DiscountPercent)
	resp := DiscountConversionResponse{DiscountPrice: price, Derivable: price != nil}
	if price != nil {
		pct := req.DiscountPercent
		resp.DiscountPercent = &pct
	}
	return resp
}

// DiscountPercentFromPrice derives the percent of margin for a discount price
func (s *PricingService) DiscountPercentFromPrice(req DiscountPercentRequest) DiscountConversionResponse {
	percent := catalog.DiscountPercentFromPrice(req.PurchasePrice, req.SalePrice, req.DiscountPrice)
	resp := DiscountConversionResponse{DiscountPercent: percent, Derivable: percent != nil}
	if percent != nil {
		price := req.DiscountPrice
		resp.DiscountPrice = &price
	}
	return resp
}

// ValidateDiscount reports every pricing rule the draft violates
func (s *PricingService) ValidateDiscount(req ValidateDiscountRequest) ValidateDiscountResponse {
	errs := catalog.ValidateDiscountFields(catalog.Pricing{
		PurchasePrice:   req.PurchasePrice,
		SalePrice:       req.SalePrice,
		HasDiscount:     req.HasDiscount,
		DiscountPrice:   req.DiscountPrice,
		DiscountPercent: req.DiscountPercent,
	})
	return ValidateDiscountResponse{
		Valid:  len(errs) == 0,
		Errors: ToFieldErrorResponses(errs),
	}
}

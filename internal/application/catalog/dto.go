package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ==================== Product DTOs ====================

// CreateProductRequest represents a request to create a product.
// Numeric fields accept JSON numbers or numeric strings.
type CreateProductRequest struct {
	Code            string            `json:"code" binding:"required,min=1,max=50"`
	Name            string            `json:"name" binding:"required,min=1,max=200"`
	PurchasePrice   decimal.Decimal   `json:"purchasePrice"`
	SalePrice       decimal.Decimal   `json:"salePrice"`
	HasDiscount     bool              `json:"hasDiscount"`
	DiscountPrice   *decimal.Decimal  `json:"discountPrice"`
	DiscountPercent *decimal.Decimal  `json:"discountPercent"`
	DiscountSource  string            `json:"discountSource" binding:"omitempty,oneof=price percent"`
	Stock           valueobject.Count `json:"stock" binding:"gte=0"`
}

// UpdateProductRequest represents a partial product update. Pricing fields
// that are omitted keep their stored values.
type UpdateProductRequest struct {
	Name            *string            `json:"name" binding:"omitempty,min=1,max=200"`
	PurchasePrice   *decimal.Decimal   `json:"purchasePrice"`
	SalePrice       *decimal.Decimal   `json:"salePrice"`
	HasDiscount     *bool              `json:"hasDiscount"`
	DiscountPrice   *decimal.Decimal   `json:"discountPrice"`
	DiscountPercent *decimal.Decimal   `json:"discountPercent"`
	DiscountSource  string             `json:"discountSource" binding:"omitempty,oneof=price percent"`
	Stock           *valueobject.Count `json:"stock" binding:"omitempty,gte=0"`
	Version         int                `json:"version"`
}

// touchesPricing reports whether any pricing field was supplied
func (r UpdateProductRequest) touchesPricing() bool {
	return r.PurchasePrice != nil || r.SalePrice != nil || r.HasDiscount != nil ||
		r.DiscountPrice != nil || r.DiscountPercent != nil
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID        `json:"id"`
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	PurchasePrice   decimal.Decimal  `json:"purchasePrice"`
	SalePrice       decimal.Decimal  `json:"salePrice"`
	HasDiscount     bool             `json:"hasDiscount"`
	DiscountPrice   *decimal.Decimal `json:"discountPrice"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	Stock           int              `json:"stock"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		PurchasePrice:   p.PurchasePrice,
		SalePrice:       p.SalePrice,
		HasDiscount:     p.HasDiscount,
		DiscountPrice:   p.DiscountPrice,
		DiscountPercent: p.DiscountPercent,
		Stock:           p.Stock,
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=code name sale_price stock created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuoteResponse is the point-of-sale price of one unit of a product
type QuoteResponse struct {
	ProductID            uuid.UUID        `json:"productId"`
	SalePrice            decimal.Decimal  `json:"salePrice"`
	DiscountPrice        *decimal.Decimal `json:"discountPrice"`
	ManualDiscountAmount decimal.Decimal  `json:"manualDiscountAmount"`
	MaxManualDiscount    decimal.Decimal  `json:"maxManualDiscount"`
	UnitPrice            decimal.Decimal  `json:"unitPrice"`
	Stock                int              `json:"stock"`
}

// ==================== Pricing DTOs ====================

// DiscountPriceRequest asks for the discount price matching a percent of margin
type DiscountPriceRequest struct {
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	SalePrice       decimal.Decimal `json:"salePrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// DiscountPercentRequest asks for the percent of margin matching a discount price
type DiscountPercentRequest struct {
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	DiscountPrice decimal.Decimal `json:"discountPrice"`
}

// DiscountConversionResponse carries both discount fields. A null value
// means the product has no margin to discount.
type DiscountConversionResponse struct {
	DiscountPrice   *decimal.Decimal `json:"discountPrice"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	Derivable       bool             `json:"derivable"`
}

// ValidateDiscountRequest is a draft of a product's pricing fields
type ValidateDiscountRequest struct {
	PurchasePrice   decimal.Decimal  `json:"purchasePrice"`
	SalePrice       decimal.Decimal  `json:"salePrice"`
	HasDiscount     bool             `json:"hasDiscount"`
	DiscountPrice   *decimal.Decimal `json:"discountPrice"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
}

// FieldErrorResponse is one pricing validation failure
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidateDiscountResponse lists all violated pricing rules
type ValidateDiscountResponse struct {
	Valid  bool                 `json:"valid"`
	Errors []FieldErrorResponse `json:"errors"`
}

// ToFieldErrorResponses converts domain field errors for API output
func ToFieldErrorResponses(errs catalog.FieldErrors) []FieldErrorResponse {
	out := make([]FieldErrorResponse, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldErrorResponse{Field: e.Field, Code: e.Code, Message: e.Message()})
	}
	return out
}

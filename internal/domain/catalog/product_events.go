package catalog

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated        = "ProductCreated"
	EventTypeProductPricingChanged = "ProductPricingChanged"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Stock     int             `json:"stock"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		SalePrice:       product.SalePrice,
		Stock:           product.Stock,
	}
}

// ProductPricingChangedEvent is published when prices or the standing discount change
type ProductPricingChangedEvent struct {
	shared.BaseDomainEvent
	ProductID        uuid.UUID        `json:"product_id"`
	OldPurchasePrice decimal.Decimal  `json:"old_purchase_price"`
	NewPurchasePrice decimal.Decimal  `json:"new_purchase_price"`
	OldSalePrice     decimal.Decimal  `json:"old_sale_price"`
	NewSalePrice     decimal.Decimal  `json:"new_sale_price"`
	HasDiscount      bool             `json:"has_discount"`
	DiscountPrice    *decimal.Decimal `json:"discount_price,omitempty"`
}

// NewProductPricingChangedEvent creates a new ProductPricingChangedEvent
func NewProductPricingChangedEvent(product *Product, old Pricing) *ProductPricingChangedEvent {
	return &ProductPricingChangedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeProductPricingChanged, AggregateTypeProduct, product.ID),
		ProductID:        product.ID,
		OldPurchasePrice: old.PurchasePrice,
		NewPurchasePrice: product.PurchasePrice,
		OldSalePrice:     old.SalePrice,
		NewSalePrice:     product.SalePrice,
		HasDiscount:      product.HasDiscount,
		DiscountPrice:    product.DiscountPrice,
	}
}

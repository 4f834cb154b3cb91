package catalog

import (
	"strings"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Pricing is the price-bearing part of a product. Every pricing rule works
// on a Pricing value so callers can evaluate drafts without a stored product.
type Pricing struct {
	PurchasePrice   decimal.Decimal
	SalePrice       decimal.Decimal
	HasDiscount     bool
	DiscountPrice   *decimal.Decimal
	DiscountPercent *decimal.Decimal
}

// Margin returns salePrice - purchasePrice
func (p Pricing) Margin() decimal.Decimal {
	return p.SalePrice.Sub(p.PurchasePrice)
}

// Product represents a sellable item with a standing discount and stock.
// It is the aggregate root for catalog operations.
type Product struct {
	shared.BaseAggregateRoot
	Pricing
	Code  string
	Name  string
	Stock int

	// stock as loaded, kept once SetStock is called so the repository
	// can refuse to overwrite a concurrent sale or return
	stockSet    bool
	loadedStock int
}

// NewProduct creates a product after running the full pricing validation
func NewProduct(code, name string, pricing PricingChange, stock int) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, FieldErrors{{Field: FieldStock, Code: CodeMustBeNonNegative}}
	}

	resolved, err := pricing.Resolve()
	if err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Pricing:           resolved,
		Code:              strings.ToUpper(code),
		Name:              name,
		Stock:             stock,
	}
	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Rename updates the display name
func (p *Product) Rename(name string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if p.Name == name {
		return nil
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// ChangePricing replaces prices and the standing discount.
// On validation failure the product is left untouched. The version is
// bumped by the repository when the change is saved.
func (p *Product) ChangePricing(change PricingChange) error {
	resolved, err := change.Resolve()
	if err != nil {
		return err
	}

	old := p.Pricing
	p.Pricing = resolved
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductPricingChangedEvent(p, old))
	return nil
}

// SetStock overwrites the on-hand stock count
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return FieldErrors{{Field: FieldStock, Code: CodeMustBeNonNegative}}
	}
	if !p.stockSet {
		p.loadedStock = p.Stock
		p.stockSet = true
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	return nil
}

// PendingStockChange reports whether SetStock was called since the product
// was loaded and, if so, the stock level it was loaded with
func (p *Product) PendingStockChange() (loaded int, ok bool) {
	return p.loadedStock, p.stockSet
}

// ClearStockChange forgets a saved stock overwrite
func (p *Product) ClearStockChange() {
	p.stockSet = false
	p.loadedStock = 0
}

// validateProductCode validates the product code (SKU)
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

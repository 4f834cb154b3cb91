package catalog

import (
	"fmt"
	"strings"

	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Field names as clients know them
const (
	FieldDiscount        = "discount"
	FieldDiscountPrice   = "discountPrice"
	FieldDiscountPercent = "discountPercent"
	FieldSalePrice       = "salePrice"
	FieldPurchasePrice   = "purchasePrice"
	FieldStock           = "stock"
	FieldManualDiscount  = "manualDiscountAmount"
)

// Validation codes
const (
	CodeRequired           = "required"
	CodeMustBePositive     = "mustBePositive"
	CodeMustBeNonNegative  = "mustBeNonNegative"
	CodeMustBeLessThanSale = "mustBeLessThanSale"
	CodeBelowCost          = "belowCost"
	CodeTooHigh            = "tooHigh"
	CodeAboveMargin        = "aboveMargin"
	CodeNoMargin           = "noMargin"
	CodeExceedsMax         = "exceedsMax"
)

var fieldErrorMessages = map[string]string{
	CodeRequired:           "either a discount price or a discount percent is required",
	CodeMustBePositive:     "must be greater than zero",
	CodeMustBeNonNegative:  "must not be negative",
	CodeMustBeLessThanSale: "must be less than the sale price",
	CodeBelowCost:          "must not be below the purchase price",
	CodeTooHigh:            "must be less than 100",
	CodeAboveMargin:        "exceeds the available profit margin",
	CodeNoMargin:           "product has no profit margin to discount",
	CodeExceedsMax:         "exceeds the largest discount allowed for this product",
}

// FieldError is a field-tagged validation failure
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

// Message returns a human readable description of the failure
func (e FieldError) Message() string {
	if msg, ok := fieldErrorMessages[e.Code]; ok {
		return msg
	}
	return e.Code
}

// FieldErrors is a list of validation failures. It implements error so it
// can travel through error returns and be recovered with errors.As.
type FieldErrors []FieldError

func (errs FieldErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Code))
	}
	return "invalid pricing: " + strings.Join(parts, ", ")
}

// Has reports whether the list contains the field/code pair
func (errs FieldErrors) Has(field, code string) bool {
	for _, e := range errs {
		if e.Field == field && e.Code == code {
			return true
		}
	}
	return false
}

// ValidateDiscountFields checks the standing discount of a product snapshot.
// Every violated rule yields its own error; discount rules only apply when
// HasDiscount is set.
func ValidateDiscountFields(p Pricing) FieldErrors {
	var errs FieldErrors

	if p.SalePrice.LessThan(p.PurchasePrice) {
		errs = append(errs, FieldError{Field: FieldSalePrice, Code: CodeBelowCost})
	}
	if !p.HasDiscount {
		return errs
	}

	if p.DiscountPrice == nil && p.DiscountPercent == nil {
		return append(errs, FieldError{Field: FieldDiscount, Code: CodeRequired})
	}

	if dp := p.DiscountPrice; dp != nil {
		if !dp.IsPositive() {
			errs = append(errs, FieldError{Field: FieldDiscountPrice, Code: CodeMustBePositive})
		}
		if dp.GreaterThanOrEqual(p.SalePrice) {
			errs = append(errs, FieldError{Field: FieldDiscountPrice, Code: CodeMustBeLessThanSale})
		}
		if dp.LessThan(p.PurchasePrice) {
			errs = append(errs, FieldError{Field: FieldDiscountPrice, Code: CodeBelowCost})
		}
	}

	if pct := p.DiscountPercent; pct != nil {
		if !pct.IsPositive() {
			errs = append(errs, FieldError{Field: FieldDiscountPercent, Code: CodeMustBePositive})
		}
		if pct.GreaterThanOrEqual(valueobject.Hundred) {
			errs = append(errs, FieldError{Field: FieldDiscountPercent, Code: CodeTooHigh})
		}
		if p.Margin().IsPositive() && rawDiscountPrice(p.PurchasePrice, p.SalePrice, *pct).LessThan(p.PurchasePrice) {
			errs = append(errs, FieldError{Field: FieldDiscountPercent, Code: CodeAboveMargin})
		}
	}

	return errs
}

// DiscountSource names the discount field the user edited last
type DiscountSource string

const (
	DiscountSourcePrice   DiscountSource = "price"
	DiscountSourcePercent DiscountSource = "percent"
)

// PricingChange is a requested set of prices. Only the discount field named
// by Source is authoritative; the other one is derived from it.
type PricingChange struct {
	PurchasePrice   decimal.Decimal
	SalePrice       decimal.Decimal
	HasDiscount     bool
	DiscountPrice   *decimal.Decimal
	DiscountPercent *decimal.Decimal
	Source          DiscountSource
}

// source picks the authoritative field. Without an explicit source the
// price wins over the percent.
func (c PricingChange) source() DiscountSource {
	switch c.Source {
	case DiscountSourcePrice, DiscountSourcePercent:
		return c.Source
	}
	if c.DiscountPrice != nil {
		return DiscountSourcePrice
	}
	if c.DiscountPercent != nil {
		return DiscountSourcePercent
	}
	return ""
}

// Resolve validates the change and fills in the derived discount field.
// It returns FieldErrors when the change cannot be applied.
func (c PricingChange) Resolve() (Pricing, error) {
	var errs FieldErrors
	if c.PurchasePrice.IsNegative() {
		errs = append(errs, FieldError{Field: FieldPurchasePrice, Code: CodeMustBeNonNegative})
	}
	if c.SalePrice.IsNegative() {
		errs = append(errs, FieldError{Field: FieldSalePrice, Code: CodeMustBeNonNegative})
	}
	if len(errs) > 0 {
		return Pricing{}, errs
	}

	p := Pricing{
		PurchasePrice: valueobject.RoundMoney(c.PurchasePrice),
		SalePrice:     valueobject.RoundMoney(c.SalePrice),
		HasDiscount:   c.HasDiscount,
	}
	if !c.HasDiscount {
		if errs := ValidateDiscountFields(p); len(errs) > 0 {
			return Pricing{}, errs
		}
		return p, nil
	}

	switch c.source() {
	case DiscountSourcePrice:
		if c.DiscountPrice != nil {
			p.DiscountPrice = valueobject.DecimalPtr(valueobject.RoundMoney(*c.DiscountPrice))
		}
	case DiscountSourcePercent:
		if c.DiscountPercent != nil {
			p.DiscountPercent = valueobject.DecimalPtr(c.DiscountPercent.Round(2))
		}
	}

	if errs := ValidateDiscountFields(p); len(errs) > 0 {
		return Pricing{}, errs
	}

	if p.DiscountPrice != nil {
		p.DiscountPercent = DiscountPercentFromPrice(p.PurchasePrice, p.SalePrice, *p.DiscountPrice)
		return p, nil
	}

	p.DiscountPrice = DiscountPriceFromPercent(p.PurchasePrice, p.SalePrice, *p.DiscountPercent)
	if p.DiscountPrice == nil {
		return Pricing{}, FieldErrors{{Field: FieldDiscountPercent, Code: CodeNoMargin}}
	}
	return p, nil
}

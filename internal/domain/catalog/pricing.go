package catalog

import (
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// EffectiveUnitPrice returns the price a sale line is charged per unit.
// A positive manual discount is subtracted from the sale price, floored at
// zero. The standing discount price is not applied at the point of sale.
func EffectiveUnitPrice(p Pricing, manualDiscount *decimal.Decimal) decimal.Decimal {
	price := p.SalePrice
	if manualDiscount != nil && manualDiscount.IsPositive() {
		price = price.Sub(*manualDiscount)
	}
	return valueobject.MaxDecimal(price, decimal.Zero)
}

// MaxManualDiscount returns the largest manual discount a sale line may take.
// With a standing discount it is the gap between sale and discount price,
// otherwise the line may go down to zero.
func MaxManualDiscount(p Pricing) (decimal.Decimal, error) {
	if p.SalePrice.IsNegative() {
		return decimal.Zero, shared.ErrInvalidProductState.WithMessage("sale price %s is negative", p.SalePrice)
	}
	if p.HasDiscount && p.DiscountPrice != nil {
		gap := p.SalePrice.Sub(*p.DiscountPrice)
		if gap.IsNegative() {
			return decimal.Zero, shared.ErrInvalidProductState.WithMessage(
				"discount price %s exceeds sale price %s", p.DiscountPrice, p.SalePrice)
		}
		return gap, nil
	}
	return p.SalePrice, nil
}

// DiscountPriceFromPercent converts a percent of the profit margin into a
// discount price. Returns nil when there is no margin to discount or the
// percent is out of range. The result never falls below the purchase price.
func DiscountPriceFromPercent(purchasePrice, salePrice, percent decimal.Decimal) *decimal.Decimal {
	if !purchasePrice.IsPositive() || !salePrice.GreaterThan(purchasePrice) {
		return nil
	}
	if !percent.IsPositive() || percent.GreaterThan(valueobject.Hundred) {
		return nil
	}

	price := rawDiscountPrice(purchasePrice, salePrice, percent)
	price = valueobject.MaxDecimal(price, purchasePrice)
	return valueobject.DecimalPtr(valueobject.RoundMoney(price))
}

// DiscountPercentFromPrice converts a discount price back into a percent of
// the profit margin, rounded to two places. Returns nil when there is no
// margin or the price lies outside [purchasePrice, salePrice].
func DiscountPercentFromPrice(purchasePrice, salePrice, discountPrice decimal.Decimal) *decimal.Decimal {
	if !purchasePrice.IsPositive() || !salePrice.GreaterThan(purchasePrice) {
		return nil
	}
	if discountPrice.LessThan(purchasePrice) || discountPrice.GreaterThan(salePrice) {
		return nil
	}

	profit := salePrice.Sub(purchasePrice)
	discount := salePrice.Sub(discountPrice)
	percent := valueobject.RatioPercent(discount, profit)
	return valueobject.DecimalPtr(percent.Round(2))
}

// rawDiscountPrice is salePrice - margin*percent/100 before the cost clamp
func rawDiscountPrice(purchasePrice, salePrice, percent decimal.Decimal) decimal.Decimal {
	profit := salePrice.Sub(purchasePrice)
	return salePrice.Sub(valueobject.PercentOf(profit, percent))
}

// PriceSaleLine bounds a manual discount by MaxManualDiscount and returns
// the unit price to charge. Out-of-range discounts come back as FieldErrors.
func PriceSaleLine(p Pricing, manualDiscount *decimal.Decimal) (decimal.Decimal, error) {
	maxDiscount, err := MaxManualDiscount(p)
	if err != nil {
		return decimal.Zero, err
	}
	if manualDiscount != nil {
		if manualDiscount.IsNegative() {
			return decimal.Zero, FieldErrors{{Field: FieldManualDiscount, Code: CodeMustBeNonNegative}}
		}
		if manualDiscount.GreaterThan(maxDiscount) {
			return decimal.Zero, FieldErrors{{Field: FieldManualDiscount, Code: CodeExceedsMax}}
		}
	}
	return EffectiveUnitPrice(p, manualDiscount), nil
}

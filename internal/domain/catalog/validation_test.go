package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDiscountFields(t *testing.T) {
	base := func() Pricing {
		return Pricing{PurchasePrice: d("10"), SalePrice: d("20"), HasDiscount: true}
	}

	tests := []struct {
		name  string
		edit  func(p *Pricing)
		field string
		code  string
	}{
		{"nothing supplied", func(p *Pricing) {}, FieldDiscount, CodeRequired},
		{"zero price", func(p *Pricing) { p.DiscountPrice = dp("0") }, FieldDiscountPrice, CodeMustBePositive},
		{"price at sale price", func(p *Pricing) { p.DiscountPrice = dp("20") }, FieldDiscountPrice, CodeMustBeLessThanSale},
		{"price above sale price", func(p *Pricing) { p.DiscountPrice = dp("25") }, FieldDiscountPrice, CodeMustBeLessThanSale},
		{"price below cost", func(p *Pricing) { p.DiscountPrice = dp("9.99") }, FieldDiscountPrice, CodeBelowCost},
		{"zero percent", func(p *Pricing) { p.DiscountPercent = dp("0") }, FieldDiscountPercent, CodeMustBePositive},
		{"percent of 100", func(p *Pricing) { p.DiscountPercent = dp("100") }, FieldDiscountPercent, CodeTooHigh},
		{"percent beyond margin", func(p *Pricing) { p.DiscountPercent = dp("120") }, FieldDiscountPercent, CodeAboveMargin},
		{"sale below cost", func(p *Pricing) { p.SalePrice = d("5"); p.DiscountPrice = dp("4") }, FieldSalePrice, CodeBelowCost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.edit(&p)
			errs := ValidateDiscountFields(p)
			assert.True(t, errs.Has(tt.field, tt.code), "expected %s:%s in %v", tt.field, tt.code, errs)
		})
	}

	t.Run("valid price", func(t *testing.T) {
		p := base()
		p.DiscountPrice = dp("15")
		assert.Empty(t, ValidateDiscountFields(p))
	})

	t.Run("price equal to cost is valid", func(t *testing.T) {
		p := base()
		p.DiscountPrice = dp("10")
		assert.Empty(t, ValidateDiscountFields(p))
	})

	t.Run("valid percent", func(t *testing.T) {
		p := base()
		p.DiscountPercent = dp("99")
		assert.Empty(t, ValidateDiscountFields(p))
	})

	t.Run("discount rules skipped without discount", func(t *testing.T) {
		p := Pricing{PurchasePrice: d("10"), SalePrice: d("20"), DiscountPrice: dp("50")}
		assert.Empty(t, ValidateDiscountFields(p))
	})

	t.Run("sale below cost reported without discount", func(t *testing.T) {
		p := Pricing{PurchasePrice: d("10"), SalePrice: d("8")}
		errs := ValidateDiscountFields(p)
		require.Len(t, errs, 1)
		assert.Equal(t, FieldError{Field: FieldSalePrice, Code: CodeBelowCost}, errs[0])
	})

	t.Run("independent violations are all reported", func(t *testing.T) {
		p := base()
		p.DiscountPrice = dp("0")
		p.DiscountPercent = dp("150")
		errs := ValidateDiscountFields(p)
		assert.True(t, errs.Has(FieldDiscountPrice, CodeMustBePositive))
		assert.True(t, errs.Has(FieldDiscountPrice, CodeBelowCost))
		assert.True(t, errs.Has(FieldDiscountPercent, CodeTooHigh))
		assert.True(t, errs.Has(FieldDiscountPercent, CodeAboveMargin))
	})

	t.Run("above margin needs a positive margin", func(t *testing.T) {
		p := Pricing{PurchasePrice: d("10"), SalePrice: d("10"), HasDiscount: true, DiscountPercent: dp("50")}
		assert.False(t, ValidateDiscountFields(p).Has(FieldDiscountPercent, CodeAboveMargin))
	})
}

func TestFieldErrors_Error(t *testing.T) {
	var err error = FieldErrors{
		{Field: FieldDiscountPrice, Code: CodeBelowCost},
		{Field: FieldSalePrice, Code: CodeBelowCost},
	}
	assert.Equal(t, "invalid pricing: discountPrice: belowCost, salePrice: belowCost", err.Error())

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe, 2)
	assert.Equal(t, "must not be below the purchase price", fe[0].Message())
}

func TestPricingChange_Resolve(t *testing.T) {
	t.Run("price source derives percent", func(t *testing.T) {
		p, err := PricingChange{
			PurchasePrice: d("10"), SalePrice: d("20"), HasDiscount: true,
			DiscountPrice: dp("15"), DiscountPercent: dp("80"), Source: DiscountSourcePrice,
		}.Resolve()
		require.NoError(t, err)
		require.NotNil(t, p.DiscountPercent)
		assertDecimal(t, "50", *p.DiscountPercent)
		assertDecimal(t, "15", *p.DiscountPrice)
	})

	t.Run("percent source derives price", func(t *testing.T) {
		p, err := PricingChange{
			PurchasePrice: d("10"), SalePrice: d("12"), HasDiscount: true,
			DiscountPrice: dp("11.99"), DiscountPercent: dp("90"), Source: DiscountSourcePercent,
		}.Resolve()
		require.NoError(t, err)
		require.NotNil(t, p.DiscountPrice)
		assertDecimal(t, "10.20", *p.DiscountPrice)
		assertDecimal(t, "90", *p.DiscountPercent)
	})

	t.Run("price wins without explicit source", func(t *testing.T) {
		p, err := PricingChange{
			PurchasePrice: d("10"), SalePrice: d("20"), HasDiscount: true,
			DiscountPrice: dp("12"), DiscountPercent: dp("10"),
		}.Resolve()
		require.NoError(t, err)
		assertDecimal(t, "80", *p.DiscountPercent)
	})

	t.Run("price at cost derives full margin percent", func(t *testing.T) {
		p, err := PricingChange{
			PurchasePrice: d("10"), SalePrice: d("20"), HasDiscount: true, DiscountPrice: dp("10"),
		}.Resolve()
		require.NoError(t, err)
		assertDecimal(t, "100", *p.DiscountPercent)
	})

	t.Run("discount cleared when disabled", func(t *testing.T) {
		p, err := PricingChange{
			PurchasePrice: d("10"), SalePrice: d("20"), DiscountPrice: dp("15"),
		}.Resolve()
		require.NoError(t, err)
		assert.False(t, p.HasDiscount)
		assert.Nil(t, p.DiscountPrice)
		assert.Nil(t, p.DiscountPercent)
	})

	t.Run("prices rounded to cents", func(t *testing.T) {
		p, err := PricingChange{PurchasePrice: d("10.004"), SalePrice: d("19.995")}.Resolve()
		require.NoError(t, err)
		assertDecimal(t, "10", p.PurchasePrice)
		assertDecimal(t, "20", p.SalePrice)
	})

	t.Run("negative prices rejected", func(t *testing.T) {
		_, err := PricingChange{PurchasePrice: d("-1"), SalePrice: d("-2")}.Resolve()
		var fe FieldErrors
		require.True(t, errors.As(err, &fe))
		assert.True(t, fe.Has(FieldPurchasePrice, CodeMustBeNonNegative))
		assert.True(t, fe.Has(FieldSalePrice, CodeMustBeNonNegative))
	})

	t.Run("percent without margin", func(t *testing.T) {
		_, err := PricingChange{
			PurchasePrice: d("10"), SalePrice: d("10"), HasDiscount: true, DiscountPercent: dp("20"),
		}.Resolve()
		var fe FieldErrors
		require.True(t, errors.As(err, &fe))
		assert.True(t, fe.Has(FieldDiscountPercent, CodeNoMargin))
	})

	t.Run("validation failure surfaces field errors", func(t *testing.T) {
		_, err := PricingChange{
			PurchasePrice: d("10"), SalePrice: d("20"), HasDiscount: true, DiscountPrice: dp("25"),
		}.Resolve()
		var fe FieldErrors
		require.True(t, errors.As(err, &fe))
		assert.True(t, fe.Has(FieldDiscountPrice, CodeMustBeLessThanSale))
	})
}

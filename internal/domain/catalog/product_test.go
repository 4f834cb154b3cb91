package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPricing() PricingChange {
	return PricingChange{PurchasePrice: d("10"), SalePrice: d("20")}
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("sku-001", "Green Tea", validPricing(), 12)
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "SKU-001", product.Code)
		assert.Equal(t, "Green Tea", product.Name)
		assert.Equal(t, 12, product.Stock)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
		assertDecimal(t, "20", product.SalePrice)
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product, err := NewProduct("SKU-002", "Green Tea", validPricing(), 0)
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())

		event, ok := events[0].(*ProductCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, product.ID, event.ProductID)
		assert.Equal(t, product.Code, event.Code)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewProduct("", "Green Tea", validPricing(), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		_, err := NewProduct("SKU 1", "Green Tea", validPricing(), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "letters, numbers")
	})

	t.Run("fails with blank name", func(t *testing.T) {
		_, err := NewProduct("SKU-003", "  ", validPricing(), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with negative stock", func(t *testing.T) {
		_, err := NewProduct("SKU-004", "Green Tea", validPricing(), -1)
		var fe FieldErrors
		require.True(t, errors.As(err, &fe))
		assert.True(t, fe.Has(FieldStock, CodeMustBeNonNegative))
	})

	t.Run("fails when sale price is below cost", func(t *testing.T) {
		_, err := NewProduct("SKU-005", "Green Tea", PricingChange{PurchasePrice: d("10"), SalePrice: d("9")}, 0)
		var fe FieldErrors
		require.True(t, errors.As(err, &fe))
		assert.True(t, fe.Has(FieldSalePrice, CodeBelowCost))
	})
}

func TestProduct_ChangePricing(t *testing.T) {
	t.Run("applies derived discount", func(t *testing.T) {
		product, err := NewProduct("SKU-010", "Coffee", validPricing(), 5)
		require.NoError(t, err)
		product.ClearDomainEvents()

		err = product.ChangePricing(PricingChange{
			PurchasePrice: d("10"), SalePrice: d("20"), HasDiscount: true,
			DiscountPercent: dp("50"), Source: DiscountSourcePercent,
		})
		require.NoError(t, err)

		assert.True(t, product.HasDiscount)
		assertDecimal(t, "15", *product.DiscountPrice)
		assert.Equal(t, 1, product.GetVersion())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*ProductPricingChangedEvent)
		require.True(t, ok)
		assertDecimal(t, "20", changed.OldSalePrice)
		assert.True(t, changed.HasDiscount)
	})

	t.Run("leaves product untouched on failure", func(t *testing.T) {
		product, err := NewProduct("SKU-011", "Coffee", validPricing(), 5)
		require.NoError(t, err)

		err = product.ChangePricing(PricingChange{
			PurchasePrice: d("10"), SalePrice: d("20"), HasDiscount: true, DiscountPrice: dp("5"),
		})
		require.Error(t, err)
		assert.False(t, product.HasDiscount)
		assert.Nil(t, product.DiscountPrice)
		assert.Empty(t, product.GetDomainEvents()[1:])
	})
}

func TestProduct_SetStockAndRename(t *testing.T) {
	product, err := NewProduct("SKU-020", "Milk", validPricing(), 5)
	require.NoError(t, err)

	require.NoError(t, product.SetStock(8))
	assert.Equal(t, 8, product.Stock)
	assert.Error(t, product.SetStock(-1))

	require.NoError(t, product.Rename("Oat Milk"))
	assert.Equal(t, "Oat Milk", product.Name)
	assert.Error(t, product.Rename(""))
}

func TestProduct_PendingStockChange(t *testing.T) {
	product, err := NewProduct("SKU-021", "Bread", validPricing(), 5)
	require.NoError(t, err)

	_, pending := product.PendingStockChange()
	assert.False(t, pending)

	require.NoError(t, product.SetStock(8))
	require.NoError(t, product.SetStock(9))
	loaded, pending := product.PendingStockChange()
	assert.True(t, pending)
	assert.Equal(t, 5, loaded, "the first overwrite remembers the loaded level")

	product.ClearStockChange()
	_, pending = product.PendingStockChange()
	assert.False(t, pending)
}

package persistence

import (
	"context"
	"errors"
	"testing"

	apptrade "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestCheckoutFlow runs a sale and two returns through the services on a
// real database
func TestCheckoutFlow(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)
	scope := NewGormTransactionScope(f.db.DB)
	logger := zaptest.NewLogger(t)

	sales := apptrade.NewSaleService(f.sales, scope, logger)
	returns := apptrade.NewReturnService(f.sales, scope, logger)

	sale, err := sales.Create(ctx, apptrade.CreateSaleRequest{Items: []apptrade.SaleLineInput{
		{ProductID: f.tea.ID, Quantity: 4, ManualDiscountAmount: decPtr("0.50")},
		{ProductID: f.cup.ID, Quantity: 3},
	}})
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(dec("38")))

	tea, err := f.products.FindByID(ctx, f.tea.ID)
	require.NoError(t, err)
	assert.Equal(t, 16, tea.Stock)

	t.Run("oversell rolls back the whole sale", func(t *testing.T) {
		_, err := sales.Create(ctx, apptrade.CreateSaleRequest{Items: []apptrade.SaleLineInput{
			{ProductID: f.cup.ID, Quantity: 1},
			{ProductID: f.tea.ID, Quantity: 17},
		}})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		cup, err := f.products.FindByID(ctx, f.cup.ID)
		require.NoError(t, err)
		assert.Equal(t, 47, cup.Stock)
	})

	teaLine := sale.Items[0].ID
	version := sale.Version

	t.Run("commit restocks and refunds", func(t *testing.T) {
		preview, err := returns.Preview(ctx, sale.ID, apptrade.ReturnRequest{Items: []apptrade.ReturnItemInput{
			{SaleItemID: teaLine, Quantity: 3},
		}})
		require.NoError(t, err)
		require.True(t, preview.Valid)
		assert.True(t, preview.TotalRefund.Equal(dec("24")))

		resp, err := returns.Commit(ctx, sale.ID, apptrade.ReturnRequest{
			Items:           []apptrade.ReturnItemInput{{SaleItemID: teaLine, Quantity: 3}},
			ExpectedVersion: &version,
		})
		require.NoError(t, err)
		assert.Equal(t, version+1, resp.Sale.Version)
		assert.True(t, resp.Sale.RefundedAmount.Equal(dec("24")))

		tea, err := f.products.FindByID(ctx, f.tea.ID)
		require.NoError(t, err)
		assert.Equal(t, 19, tea.Stock)
	})

	t.Run("second return over the remaining quantity is rejected", func(t *testing.T) {
		_, err := returns.Commit(ctx, sale.ID, apptrade.ReturnRequest{
			Items: []apptrade.ReturnItemInput{{SaleItemID: teaLine, Quantity: 2}},
		})
		var rerrs trade.ReturnErrors
		require.True(t, errors.As(err, &rerrs))

		tea, err := f.products.FindByID(ctx, f.tea.ID)
		require.NoError(t, err)
		assert.Equal(t, 19, tea.Stock, "rejected return leaves stock untouched")
	})

	t.Run("stale expected version is a conflict", func(t *testing.T) {
		_, err := returns.Commit(ctx, sale.ID, apptrade.ReturnRequest{
			Items:           []apptrade.ReturnItemInput{{SaleItemID: teaLine, Quantity: 1}},
			ExpectedVersion: &version,
		})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	history, err := returns.ListReturns(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].TotalRefund.Equal(dec("24")))
}

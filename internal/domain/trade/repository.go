package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalesSummary aggregates sale and refund totals over a period
type SalesSummary struct {
	SaleCount      int64
	ReturnCount    int64
	GrossAmount    decimal.Decimal
	RefundedAmount decimal.Decimal
}

// NetAmount returns gross minus refunds
func (s SalesSummary) NetAmount() decimal.Decimal {
	return s.GrossAmount.Sub(s.RefundedAmount)
}

// SaleFilter narrows sale listings and summaries to a time window
type SaleFilter struct {
	shared.Filter
	From *time.Time
	To   *time.Time
}

// SaleRepository persists sales, their items and the returns against them
type SaleRepository interface {
	// FindByID loads a sale with its items and all prior return items
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByIDForUpdate loads a sale like FindByID and locks the sale row
	// until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll lists sales, newest first, without loading return items
	FindAll(ctx context.Context, filter SaleFilter) ([]Sale, error)

	// Count counts sales matching the filter
	Count(ctx context.Context, filter SaleFilter) (int64, error)

	// Save inserts a new sale with its items
	Save(ctx context.Context, sale *Sale) error

	// SaveReturn inserts the return and its items and updates the sale's
	// refunded amount. The sale row is only updated when its stored version
	// equals sale.Version; on success sale.Version is incremented, otherwise
	// ErrConcurrencyConflict is returned.
	SaveReturn(ctx context.Context, sale *Sale, ret *SaleReturn) error

	// FindReturnsBySale lists the returns recorded against a sale
	FindReturnsBySale(ctx context.Context, saleID uuid.UUID) ([]SaleReturn, error)

	// Summary aggregates totals for sales created within the filter window
	Summary(ctx context.Context, filter SaleFilter) (SalesSummary, error)
}

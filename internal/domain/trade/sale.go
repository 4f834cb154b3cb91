package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity bounds the units of one product in a sale or a return
const MaxLineQuantity = 1_000_000

// SaleItem is one line of a sale. Quantity and PricePerItem are fixed when
// the sale is recorded; ReturnItems accumulate as goods come back.
type SaleItem struct {
	ID           uuid.UUID
	SaleID       uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	Quantity     int
	PricePerItem decimal.Decimal
	ReturnItems  []ReturnItem
	CreatedAt    time.Time
}

// ReturnedQuantity sums the quantities of all prior returns
func (i SaleItem) ReturnedQuantity() int {
	total := 0
	for _, ri := range i.ReturnItems {
		total += ri.Quantity
	}
	return total
}

// LineTotal returns quantity * pricePerItem
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.PricePerItem.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PricedLine is a sale line whose unit price was already settled by the
// pricing rules
type PricedLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Sale is the aggregate root for a completed point-of-sale transaction
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber     string
	Items          []SaleItem
	TotalAmount    decimal.Decimal
	RefundedAmount decimal.Decimal
	Note           string
}

// NewSale builds a sale from priced lines. Unit prices are rounded to cents.
func NewSale(saleNumber string, lines []PricedLine, note string) (*Sale, error) {
	if strings.TrimSpace(saleNumber) == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Sale must have at least one item")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		TotalAmount:       decimal.Zero,
		RefundedAmount:    decimal.Zero,
		Note:              note,
	}

	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", fmt.Sprintf("Line %d has no product", i+1))
		}
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Line %d quantity must be positive", i+1))
		}
		if line.Quantity > MaxLineQuantity {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Line %d quantity cannot exceed %d", i+1, MaxLineQuantity))
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Line %d price cannot be negative", i+1))
		}

		item := SaleItem{
			ID:           uuid.New(),
			SaleID:       sale.ID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			Quantity:     line.Quantity,
			PricePerItem: valueobject.RoundMoney(line.UnitPrice),
			CreatedAt:    sale.CreatedAt,
		}
		sale.Items = append(sale.Items, item)
		sale.TotalAmount = sale.TotalAmount.Add(item.LineTotal())
	}

	sale.AddDomainEvent(NewSaleRecordedEvent(sale))
	return sale, nil
}

// NetAmount returns total minus refunds
func (s *Sale) NetAmount() decimal.Decimal {
	return s.TotalAmount.Sub(s.RefundedAmount)
}

// ItemByID returns the sale item with the given ID
func (s *Sale) ItemByID(id uuid.UUID) (*SaleItem, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// RecordReturn turns a validated return into a SaleReturn, attaches its
// items to the sale lines and accumulates the refund. The caller must have
// validated against this sale's current items. The repository bumps the
// version when the return is saved.
func (s *Sale) RecordReturn(validated *ValidatedReturn, returnNumber, reason string) (*SaleReturn, error) {
	if validated == nil || len(validated.Lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Return must have at least one item")
	}

	for _, line := range validated.Lines {
		if _, ok := s.ItemByID(line.SaleItemID); !ok {
			return nil, shared.ErrNotFound.WithMessage("sale item %s not found on sale %s", line.SaleItemID, s.ID)
		}
	}

	ret := &SaleReturn{
		BaseEntity:   shared.NewBaseEntity(),
		SaleID:       s.ID,
		ReturnNumber: returnNumber,
		Reason:       reason,
		TotalRefund:  validated.TotalRefund,
	}

	for _, line := range validated.Lines {
		item, _ := s.ItemByID(line.SaleItemID)
		ri := ReturnItem{
			ID:         uuid.New(),
			ReturnID:   ret.ID,
			SaleItemID: line.SaleItemID,
			ProductID:  item.ProductID,
			Quantity:   line.Quantity,
			TotalPrice: line.LineRefund,
			CreatedAt:  ret.CreatedAt,
		}
		item.ReturnItems = append(item.ReturnItems, ri)
		ret.Items = append(ret.Items, ri)
	}

	s.RefundedAmount = s.RefundedAmount.Add(validated.TotalRefund)
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewReturnRecordedEvent(s, ret))
	return ret, nil
}

// ReturnItem records a quantity of one sale line given back by the customer
type ReturnItem struct {
	ID         uuid.UUID
	ReturnID   uuid.UUID
	SaleItemID uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// SaleReturn groups the items returned in one visit
type SaleReturn struct {
	shared.BaseEntity
	SaleID       uuid.UUID
	ReturnNumber string
	Reason       string
	TotalRefund  decimal.Decimal
	Items        []ReturnItem
}

// NewDocumentNumber builds a human readable sale or return number such as
// S-20260314-1A2B3C4D
func NewDocumentNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}

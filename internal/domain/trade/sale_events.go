package trade

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleRecorded   = "SaleRecorded"
	EventTypeReturnRecorded = "ReturnRecorded"
)

// SaleLineEvent is the per-line payload carried in sale events
type SaleLineEvent struct {
	SaleItemID   uuid.UUID       `json:"sale_item_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"price_per_item"`
}

// SaleRecordedEvent is published after a sale is committed
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	SaleNumber  string          `json:"sale_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []SaleLineEvent `json:"items"`
}

// NewSaleRecordedEvent creates a new SaleRecordedEvent
func NewSaleRecordedEvent(sale *Sale) *SaleRecordedEvent {
	items := make([]SaleLineEvent, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleLineEvent{
			SaleItemID:   item.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			PricePerItem: item.PricePerItem,
		})
	}
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRecorded, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		TotalAmount:     sale.TotalAmount,
		Items:           items,
	}
}

// ReturnLineEvent is the per-line payload of a return event
type ReturnLineEvent struct {
	SaleItemID uuid.UUID       `json:"sale_item_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ReturnRecordedEvent is published after a return is committed
type ReturnRecordedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID         `json:"sale_id"`
	ReturnID     uuid.UUID         `json:"return_id"`
	ReturnNumber string            `json:"return_number"`
	TotalRefund  decimal.Decimal   `json:"total_refund"`
	Items        []ReturnLineEvent `json:"items"`
}

// NewReturnRecordedEvent creates a new ReturnRecordedEvent
func NewReturnRecordedEvent(sale *Sale, ret *SaleReturn) *ReturnRecordedEvent {
	items := make([]ReturnLineEvent, 0, len(ret.Items))
	for _, ri := range ret.Items {
		items = append(items, ReturnLineEvent{
			SaleItemID: ri.SaleItemID,
			ProductID:  ri.ProductID,
			Quantity:   ri.Quantity,
			TotalPrice: ri.TotalPrice,
		})
	}
	return &ReturnRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRecorded, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		ReturnID:        ret.ID,
		ReturnNumber:    ret.ReturnNumber,
		TotalRefund:     ret.TotalRefund,
		Items:           items,
	}
}

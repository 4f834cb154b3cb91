package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ==================== Sale DTOs ====================

// CreateSaleRequest represents a request to record a sale
type CreateSaleRequest struct {
	Items []SaleLineInput `json:"items" binding:"required,min=1,dive"`
	Note  string          `json:"note" binding:"max=500"`
}

// SaleLineInput is one line of a sale request. ManualDiscountAmount is a
// per-unit amount taken off the sale price.
type SaleLineInput struct {
	ProductID            uuid.UUID         `json:"productId" binding:"required"`
	Quantity             valueobject.Count `json:"quantity" binding:"gt=0,lte=1000000"`
	ManualDiscountAmount *decimal.Decimal  `json:"manualDiscountAmount"`
}

// SaleItemResponse represents a sale line with its return availability
type SaleItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"productId"`
	ProductName       string          `json:"productName"`
	Quantity          int             `json:"quantity"`
	PricePerItem      decimal.Decimal `json:"pricePerItem"`
	LineTotal         decimal.Decimal `json:"lineTotal"`
	ReturnedQuantity  int             `json:"returnedQuantity"`
	AvailableToReturn int             `json:"availableToReturn"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	SaleNumber     string             `json:"saleNumber"`
	Items          []SaleItemResponse `json:"items"`
	TotalAmount    decimal.Decimal    `json:"totalAmount"`
	RefundedAmount decimal.Decimal    `json:"refundedAmount"`
	NetAmount      decimal.Decimal    `json:"netAmount"`
	Note           string             `json:"note,omitempty"`
	Version        int                `json:"version"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// SaleListItemResponse represents a sale in list responses
type SaleListItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	SaleNumber     string          `json:"saleNumber"`
	ItemCount      int             `json:"itemCount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	RefundedAmount decimal.Decimal `json:"refundedAmount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SalesSummaryFilter bounds a sales summary by creation time
type SalesSummaryFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// SalesSummaryResponse represents gross, refunded and net totals
type SalesSummaryResponse struct {
	From           *time.Time      `json:"from,omitempty"`
	To             *time.Time      `json:"to,omitempty"`
	SaleCount      int64           `json:"saleCount"`
	ReturnCount    int64           `json:"returnCount"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	RefundedAmount decimal.Decimal `json:"refundedAmount"`
	NetAmount      decimal.Decimal `json:"netAmount"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		available, err := trade.AvailableToReturn(item)
		if err != nil {
			available = 0
		}
		items = append(items, SaleItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			Quantity:          item.Quantity,
			PricePerItem:      item.PricePerItem,
			LineTotal:         item.LineTotal(),
			ReturnedQuantity:  item.ReturnedQuantity(),
			AvailableToReturn: available,
		})
	}
	return SaleResponse{
		ID:             s.ID,
		SaleNumber:     s.SaleNumber,
		Items:          items,
		TotalAmount:    s.TotalAmount,
		RefundedAmount: s.RefundedAmount,
		NetAmount:      s.NetAmount(),
		Note:           s.Note,
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ToSaleListItemResponses converts domain sales to list responses
func ToSaleListItemResponses(sales []trade.Sale) []SaleListItemResponse {
	responses := make([]SaleListItemResponse, len(sales))
	for i := range sales {
		responses[i] = SaleListItemResponse{
			ID:             sales[i].ID,
			SaleNumber:     sales[i].SaleNumber,
			ItemCount:      len(sales[i].Items),
			TotalAmount:    sales[i].TotalAmount,
			RefundedAmount: sales[i].RefundedAmount,
			CreatedAt:      sales[i].CreatedAt,
		}
	}
	return responses
}

// ==================== Return DTOs ====================

// ReturnItemInput asks for a quantity of one sale line back
type ReturnItemInput struct {
	SaleItemID uuid.UUID         `json:"saleItemId" binding:"required"`
	Quantity   valueobject.Count `json:"quantity" binding:"lte=1000000"`
}

// ReturnRequest represents a return preview or commit request.
// ExpectedVersion is the sale version the client previewed against.
type ReturnRequest struct {
	Items           []ReturnItemInput `json:"items" binding:"dive"`
	Reason          string            `json:"reason" binding:"max=500"`
	ExpectedVersion *int              `json:"expectedVersion"`
}

func (r ReturnRequest) requestItems() []trade.ReturnRequestItem {
	items := make([]trade.ReturnRequestItem, len(r.Items))
	for i, in := range r.Items {
		items[i] = trade.ReturnRequestItem{SaleItemID: in.SaleItemID, Quantity: in.Quantity.Int()}
	}
	return items
}

// ReturnLineResponse is one priced line of a return
type ReturnLineResponse struct {
	SaleItemID uuid.UUID       `json:"saleItemId"`
	ProductID  uuid.UUID       `json:"productId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	LineRefund decimal.Decimal `json:"lineRefund"`
}

// ReturnPreviewResponse is the advisory outcome of a return request
type ReturnPreviewResponse struct {
	Valid       bool                 `json:"valid"`
	SaleVersion int                  `json:"saleVersion"`
	Lines       []ReturnLineResponse `json:"lines"`
	TotalRefund decimal.Decimal      `json:"totalRefund"`
	Errors      trade.ReturnErrors   `json:"errors"`
}

// ReturnItemResponse represents a persisted return item
type ReturnItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	SaleItemID uuid.UUID       `json:"saleItemId"`
	ProductID  uuid.UUID       `json:"productId"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// SaleReturnResponse represents a committed return
type SaleReturnResponse struct {
	ID           uuid.UUID            `json:"id"`
	SaleID       uuid.UUID            `json:"saleId"`
	ReturnNumber string               `json:"returnNumber"`
	Reason       string               `json:"reason,omitempty"`
	TotalRefund  decimal.Decimal      `json:"totalRefund"`
	Items        []ReturnItemResponse `json:"items"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// ReturnCommitResponse carries the committed return and the updated sale
type ReturnCommitResponse struct {
	Return SaleReturnResponse `json:"return"`
	Sale   SaleResponse       `json:"sale"`
}

func toReturnLineResponses(v *trade.ValidatedReturn) []ReturnLineResponse {
	lines := make([]ReturnLineResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, ReturnLineResponse{
			SaleItemID: l.SaleItemID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			LineRefund: l.LineRefund,
		})
	}
	return lines
}

// ToSaleReturnResponse converts a domain SaleReturn to SaleReturnResponse
func ToSaleReturnResponse(r *trade.SaleReturn) SaleReturnResponse {
	items := make([]ReturnItemResponse, 0, len(r.Items))
	for _, ri := range r.Items {
		items = append(items, ReturnItemResponse{
			ID:         ri.ID,
			SaleItemID: ri.SaleItemID,
			ProductID:  ri.ProductID,
			Quantity:   ri.Quantity,
			TotalPrice: ri.TotalPrice,
		})
	}
	return SaleReturnResponse{
		ID:           r.ID,
		SaleID:       r.SaleID,
		ReturnNumber: r.ReturnNumber,
		Reason:       r.Reason,
		TotalRefund:  r.TotalRefund,
		Items:        items,
		CreatedAt:    r.CreatedAt,
	}
}

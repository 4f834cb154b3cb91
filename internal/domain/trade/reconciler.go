package trade

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Return error codes
const (
	CodeItemsRequired            = "itemsRequired"
	CodeInvalidQuantity          = "invalidQuantity"
	CodeQuantityExceedsAvailable = "quantityExceedsAvailable"
	CodeUnknownItem              = "unknownItem"
	CodeInconsistentState        = "inconsistentState"
)

// FieldGeneral tags errors that concern the request as a whole
const FieldGeneral = "general"

// ReturnRequestItem asks for Quantity units of one sale line back
type ReturnRequestItem struct {
	SaleItemID uuid.UUID
	Quantity   int
}

// ReturnError is one problem with a return request. SaleItemID is nil for
// request-wide problems; Available is set for quantityExceedsAvailable.
type ReturnError struct {
	SaleItemID *uuid.UUID `json:"saleItemId,omitempty"`
	Field      string     `json:"field"`
	Code       string     `json:"code"`
	Available  *int       `json:"available,omitempty"`
}

// Fatal reports whether the error means the caller's snapshot is stale or
// corrupt and must be refetched
func (e ReturnError) Fatal() bool {
	return e.Code == CodeUnknownItem || e.Code == CodeInconsistentState
}

func (e ReturnError) String() string {
	var b strings.Builder
	if e.SaleItemID != nil {
		b.WriteString(e.SaleItemID.String())
	} else {
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Code)
	if e.Available != nil {
		fmt.Fprintf(&b, " (available %d)", *e.Available)
	}
	return b.String()
}

// ReturnErrors is the error side of ValidateReturnRequest
type ReturnErrors []ReturnError

func (errs ReturnErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return "invalid return: " + strings.Join(parts, ", ")
}

// HasFatal reports whether any error requires a refetch
func (errs ReturnErrors) HasFatal() bool {
	for _, e := range errs {
		if e.Fatal() {
			return true
		}
	}
	return false
}

// ValidatedReturnLine is one priced line of an accepted return
type ValidatedReturnLine struct {
	SaleItemID uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
	UnitPrice  decimal.Decimal
	LineRefund decimal.Decimal
}

// ValidatedReturn is the priced result of a successful validation
type ValidatedReturn struct {
	Lines       []ValidatedReturnLine
	TotalRefund decimal.Decimal
}

// AvailableToReturn is the part of a sale line not yet consumed by returns
func AvailableToReturn(item SaleItem) (int, error) {
	available := item.Quantity - item.ReturnedQuantity()
	if available < 0 {
		return 0, shared.ErrInconsistentReturnState.WithMessage(
			"sale item %s sold %d but has %d returned", item.ID, item.Quantity, item.ReturnedQuantity())
	}
	return available, nil
}

// ValidateReturnRequest checks a return request against the sale's items
// and prices it. Zero-quantity entries are treated as not requested and
// repeated entries for the same line are summed. Each entry is checked
// against what is still available before it is added, so the sum of a line
// never exceeds its available quantity. Inputs are not modified.
func ValidateReturnRequest(items []SaleItem, requested []ReturnRequestItem) (*ValidatedReturn, ReturnErrors) {
	var errs ReturnErrors

	byID := make(map[uuid.UUID]SaleItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	quantities := make(map[uuid.UUID]int, len(requested))
	exceeded := make(map[uuid.UUID]bool)
	order := make([]uuid.UUID, 0, len(requested))
	for _, r := range requested {
		if r.Quantity == 0 {
			continue
		}
		if r.Quantity < 0 {
			errs = append(errs, itemError(r.SaleItemID, CodeInvalidQuantity))
			continue
		}
		id := r.SaleItemID
		if _, seen := quantities[id]; !seen {
			order = append(order, id)
			quantities[id] = 0
		}
		if exceeded[id] {
			continue
		}

		item, ok := byID[id]
		if !ok {
			continue
		}
		available, err := AvailableToReturn(item)
		if err != nil {
			continue
		}
		if r.Quantity > available-quantities[id] {
			exceeded[id] = true
			continue
		}
		quantities[id] += r.Quantity
	}

	if len(order) == 0 && len(errs) == 0 {
		return nil, ReturnErrors{{Field: FieldGeneral, Code: CodeItemsRequired}}
	}

	result := &ValidatedReturn{TotalRefund: decimal.Zero}
	for _, id := range order {
		item, ok := byID[id]
		if !ok {
			errs = append(errs, itemError(id, CodeUnknownItem))
			continue
		}

		available, err := AvailableToReturn(item)
		if err != nil {
			errs = append(errs, itemError(id, CodeInconsistentState))
			continue
		}
		if exceeded[id] {
			e := itemError(id, CodeQuantityExceedsAvailable)
			e.Available = &available
			errs = append(errs, e)
			continue
		}

		qty := quantities[id]
		refund := item.PricePerItem.Mul(decimal.NewFromInt(int64(qty)))
		result.Lines = append(result.Lines, ValidatedReturnLine{
			SaleItemID: id,
			ProductID:  item.ProductID,
			Quantity:   qty,
			UnitPrice:  item.PricePerItem,
			LineRefund: refund,
		})
		result.TotalRefund = result.TotalRefund.Add(refund)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return result, nil
}

func itemError(id uuid.UUID, code string) ReturnError {
	return ReturnError{SaleItemID: &id, Field: "items", Code: code}
}

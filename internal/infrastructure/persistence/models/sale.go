package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root
type SaleModel struct {
	AggregateModel
	SaleNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	RefundedAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Note           string          `gorm:"type:varchar(500)"`
	Items          []SaleItemModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is the persistence model for a sale line. Position keeps
// the lines in the order they were rung up.
type SaleItemModel struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key"`
	SaleID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	Position     int               `gorm:"not null;default:0"`
	ProductID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductName  string            `gorm:"type:varchar(200);not null"`
	Quantity     int               `gorm:"not null;check:chk_sale_items_quantity,quantity > 0"`
	PricePerItem decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time         `gorm:"not null"`
	ReturnItems  []ReturnItemModel `gorm:"foreignKey:SaleItemID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// SaleReturnModel is the persistence model for one return visit
type SaleReturnModel struct {
	BaseModel
	SaleID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	ReturnNumber string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Reason       string            `gorm:"type:varchar(500)"`
	TotalRefund  decimal.Decimal   `gorm:"type:decimal(14,2);not null;default:0"`
	Items        []ReturnItemModel `gorm:"foreignKey:ReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleReturnModel) TableName() string {
	return "sale_returns"
}

// ReturnItemModel is the persistence model for a returned quantity
type ReturnItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReturnID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   int             `gorm:"not null;check:chk_return_items_quantity,quantity > 0"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnItemModel) TableName() string {
	return "return_items"
}

// ToDomain converts the persistence model to a domain Sale. Return items
// are only present when they were preloaded.
func (m *SaleModel) ToDomain() *trade.Sale {
	sale := &trade.Sale{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SaleNumber:        m.SaleNumber,
		TotalAmount:       m.TotalAmount,
		RefundedAmount:    m.RefundedAmount,
		Note:              m.Note,
		Items:             make([]trade.SaleItem, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		sale.Items = append(sale.Items, item.ToDomain())
	}
	return sale
}

// FromDomain populates the persistence model from a domain Sale
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SaleNumber = s.SaleNumber
	m.TotalAmount = s.TotalAmount
	m.RefundedAmount = s.RefundedAmount
	m.Note = s.Note
	m.Items = make([]SaleItemModel, 0, len(s.Items))
	for i, item := range s.Items {
		m.Items = append(m.Items, SaleItemModel{
			ID:           item.ID,
			SaleID:       s.ID,
			Position:     i,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PricePerItem: item.PricePerItem,
			CreatedAt:    item.CreatedAt,
		})
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// ToDomain converts the persistence model to a domain SaleItem
func (m *SaleItemModel) ToDomain() trade.SaleItem {
	item := trade.SaleItem{
		ID:           m.ID,
		SaleID:       m.SaleID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		Quantity:     m.Quantity,
		PricePerItem: m.PricePerItem,
		CreatedAt:    m.CreatedAt,
	}
	for _, ri := range m.ReturnItems {
		item.ReturnItems = append(item.ReturnItems, ri.ToDomain())
	}
	return item
}

// ToDomain converts the persistence model to a domain ReturnItem
func (m *ReturnItemModel) ToDomain() trade.ReturnItem {
	return trade.ReturnItem{
		ID:         m.ID,
		ReturnID:   m.ReturnID,
		SaleItemID: m.SaleItemID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		TotalPrice: m.TotalPrice,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomain converts the persistence model to a domain SaleReturn
func (m *SaleReturnModel) ToDomain() trade.SaleReturn {
	ret := trade.SaleReturn{
		BaseEntity:   m.BaseModel.ToDomain(),
		SaleID:       m.SaleID,
		ReturnNumber: m.ReturnNumber,
		Reason:       m.Reason,
		TotalRefund:  m.TotalRefund,
		Items:        make([]trade.ReturnItem, 0, len(m.Items)),
	}
	for _, ri := range m.Items {
		ret.Items = append(ret.Items, ri.ToDomain())
	}
	return ret
}

// SaleReturnModelFromDomain creates a new persistence model from a domain SaleReturn
func SaleReturnModelFromDomain(r *trade.SaleReturn) *SaleReturnModel {
	m := &SaleReturnModel{
		SaleID:       r.SaleID,
		ReturnNumber: r.ReturnNumber,
		Reason:       r.Reason,
		TotalRefund:  r.TotalRefund,
		Items:        make([]ReturnItemModel, 0, len(r.Items)),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	for _, ri := range r.Items {
		m.Items = append(m.Items, ReturnItemModel{
			ID:         ri.ID,
			ReturnID:   r.ID,
			SaleItemID: ri.SaleItemID,
			ProductID:  ri.ProductID,
			Quantity:   ri.Quantity,
			TotalPrice: ri.TotalPrice,
			CreatedAt:  ri.CreatedAt,
		})
	}
	return m
}

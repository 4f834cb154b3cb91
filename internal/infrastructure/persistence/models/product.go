package models

import (
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root
type ProductModel struct {
	AggregateModel
	Code            string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string              `gorm:"type:varchar(200);not null"`
	PurchasePrice   decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	SalePrice       decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	HasDiscount     bool                `gorm:"not null;default:false"`
	DiscountPrice   decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	DiscountPercent decimal.NullDecimal `gorm:"type:decimal(7,4)"`
	Stock           int                 `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Pricing: catalog.Pricing{
			PurchasePrice:   m.PurchasePrice,
			SalePrice:       m.SalePrice,
			HasDiscount:     m.HasDiscount,
			DiscountPrice:   fromNullDecimal(m.DiscountPrice),
			DiscountPercent: fromNullDecimal(m.DiscountPercent),
		},
		Code:  m.Code,
		Name:  m.Name,
		Stock: m.Stock,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.PurchasePrice = p.PurchasePrice
	m.SalePrice = p.SalePrice
	m.HasDiscount = p.HasDiscount
	m.DiscountPrice = toNullDecimal(p.DiscountPrice)
	m.DiscountPercent = toNullDecimal(p.DiscountPercent)
	m.Stock = p.Stock
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

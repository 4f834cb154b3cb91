package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormSaleRepository) WithTx(tx *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: tx}
}

// FindByID loads a sale with its items and their return items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var model models.SaleModel
	err := withItems(r.db.WithContext(ctx), true).First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the sale row, then loads it like FindByID
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var locked models.SaleModel
	err := forUpdate(r.db.WithContext(ctx)).Select("id").First(&locked, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return r.FindByID(ctx, id)
}

// FindAll lists sales in the filter window, newest first by default
func (r *GormSaleRepository) FindAll(ctx context.Context, filter trade.SaleFilter) ([]trade.Sale, error) {
	var saleModels []models.SaleModel
	query := applySaleWindow(withItems(r.db.WithContext(ctx), false), filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, SaleSortFields, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]trade.Sale, len(saleModels))
	for i := range saleModels {
		sales[i] = *saleModels[i].ToDomain()
	}
	return sales, nil
}

// Count counts sales in the filter window
func (r *GormSaleRepository) Count(ctx context.Context, filter trade.SaleFilter) (int64, error) {
	var count int64
	query := applySaleWindow(r.db.WithContext(ctx).Model(&models.SaleModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts a new sale together with its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	model := models.SaleModelFromDomain(sale)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists.WithMessage("sale number %s already exists", sale.SaleNumber)
		}
		return err
	}
	return nil
}

// SaveReturn bumps the sale version with a conditional update, then
// inserts the return and its items. Both writes share one transaction.
func (r *GormSaleRepository) SaveReturn(ctx context.Context, sale *trade.Sale, ret *trade.SaleReturn) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SaleModel{}).
			Where("id = ? AND version = ?", sale.ID, sale.Version).
			Updates(map[string]any{
				"refunded_amount": sale.RefundedAmount,
				"version":         gorm.Expr("version + 1"),
				"updated_at":      time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict.WithMessage(
				"sale %s was modified by another request (expected version %d)", sale.SaleNumber, sale.Version)
		}

		if err := tx.Create(models.SaleReturnModelFromDomain(ret)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists.WithMessage("return number %s already exists", ret.ReturnNumber)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	sale.IncrementVersion()
	return nil
}

// FindReturnsBySale lists the returns recorded against a sale, oldest first
func (r *GormSaleRepository) FindReturnsBySale(ctx context.Context, saleID uuid.UUID) ([]trade.SaleReturn, error) {
	var returnModels []models.SaleReturnModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&returnModels).Error
	if err != nil {
		return nil, err
	}
	returns := make([]trade.SaleReturn, len(returnModels))
	for i := range returnModels {
		returns[i] = returnModels[i].ToDomain()
	}
	return returns, nil
}

type sumRow struct {
	Count int64
	Total decimal.Decimal
}

// Summary aggregates sales created in the window and refunds recorded in it
func (r *GormSaleRepository) Summary(ctx context.Context, filter trade.SaleFilter) (trade.SalesSummary, error) {
	var sales sumRow
	err := applySaleWindow(r.db.WithContext(ctx).Model(&models.SaleModel{}), filter).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Scan(&sales).Error
	if err != nil {
		return trade.SalesSummary{}, err
	}

	var refunds sumRow
	err = applySaleWindow(r.db.WithContext(ctx).Model(&models.SaleReturnModel{}), filter).
		Select("COUNT(*) AS count, COALESCE(SUM(total_refund), 0) AS total").
		Scan(&refunds).Error
	if err != nil {
		return trade.SalesSummary{}, err
	}

	return trade.SalesSummary{
		SaleCount:      sales.Count,
		ReturnCount:    refunds.Count,
		GrossAmount:    sales.Total,
		RefundedAmount: refunds.Total,
	}, nil
}

// withItems preloads sale lines in till order and, when requested, the
// return items recorded against each line
func withItems(db *gorm.DB, returns bool) *gorm.DB {
	db = db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	if returns {
		db = db.Preload("Items.ReturnItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
	}
	return db
}

func applySaleWindow(query *gorm.DB, filter trade.SaleFilter) *gorm.DB {
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)

package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SaleService records sales and answers sale queries
type SaleService struct {
	saleRepo        trade.SaleRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
	now             func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo trade.SaleRepository, txScope TransactionScope, logger *zap.Logger) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		saleRepo: saleRepo,
		txScope:  txScope,
		logger:   logger,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *SaleService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create records a sale. Every line is priced from the locked product row,
// manual discounts are bounded by the product's max manual discount and stock
// is decremented per product in the same transaction.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create", telemetry.SpanAttrItemCount, len(req.Items))
	defer span.End()

	var sale *trade.Sale
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, quantities, order, err := priceLines(ctx, repos.ProductRepo(), req.Items)
		if err != nil {
			return err
		}

		for _, productID := range order {
			if err := repos.ProductRepo().DecrementStock(ctx, productID, quantities[productID]); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.ErrInsufficientStock.WithMessage(
						"Insufficient stock for product %s: requested %d", productID, quantities[productID])
				}
				return err
			}
		}

		sale, err = trade.NewSale(trade.NewDocumentNumber("S", s.now()), lines, req.Note)
		if err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSaleID, sale.ID.String(),
		telemetry.SpanAttrSaleNumber, sale.SaleNumber,
		telemetry.SpanAttrAmount, sale.TotalAmount.String(),
	)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordSale(ctx, sale.TotalAmount, len(sale.Items))
	}
	publishEvents(ctx, s.eventPublisher, s.logger, sale)

	s.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.Int("items", len(sale.Items)),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
	)

	response := ToSaleResponse(sale)
	return &response, nil
}

// priceLines loads each product once (locked) and settles the unit price of
// every line. Field errors of all lines are collected and reported together
// under items[i].<field>.
func priceLines(ctx context.Context, products catalog.ProductRepository, inputs []SaleLineInput) ([]trade.PricedLine, map[uuid.UUID]int, []uuid.UUID, error) {
	loaded := make(map[uuid.UUID]*catalog.Product, len(inputs))
	quantities := make(map[uuid.UUID]int, len(inputs))
	order := make([]uuid.UUID, 0, len(inputs))
	lines := make([]trade.PricedLine, 0, len(inputs))
	var fieldErrs catalog.FieldErrors

	for i, in := range inputs {
		qty := in.Quantity.Int()
		if qty <= 0 || qty > trade.MaxLineQuantity-quantities[in.ProductID] {
			return nil, nil, nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf(
				"Quantity of product %s must be between 1 and %d per sale", in.ProductID, trade.MaxLineQuantity))
		}

		product, ok := loaded[in.ProductID]
		if !ok {
			p, err := products.FindByIDForUpdate(ctx, in.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, nil, nil, shared.ErrNotFound.WithMessage("Product %s not found", in.ProductID)
				}
				return nil, nil, nil, err
			}
			loaded[in.ProductID] = p
			order = append(order, in.ProductID)
			product = p
		}

		unitPrice, err := catalog.PriceSaleLine(product.Pricing, in.ManualDiscountAmount)
		if err != nil {
			var fe catalog.FieldErrors
			if errors.As(err, &fe) {
				for _, e := range fe {
					fieldErrs = append(fieldErrs, catalog.FieldError{
						Field: fmt.Sprintf("items[%d].%s", i, e.Field),
						Code:  e.Code,
					})
				}
				continue
			}
			return nil, nil, nil, err
		}

		quantities[in.ProductID] += qty
		lines = append(lines, trade.PricedLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    qty,
			UnitPrice:   unitPrice,
		})
	}

	if len(fieldErrs) > 0 {
		return nil, nil, nil, fieldErrs
	}
	return lines, quantities, order, nil
}

// GetByID retrieves a sale with its items and return availability
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves a page of sales, newest first
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleListItemResponse, int64, error) {
	f := trade.SaleFilter{Filter: shared.DefaultFilter(), From: filter.From, To: filter.To}
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	sales, err := s.saleRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToSaleListItemResponses(sales), total, nil
}

// Summary returns gross sales, refunds and net for the window
func (s *SaleService) Summary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummaryResponse, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, shared.ErrInvalidInput.WithMessage("to must not be before from")
	}

	summary, err := s.saleRepo.Summary(ctx, trade.SaleFilter{From: filter.From, To: filter.To})
	if err != nil {
		return nil, err
	}
	return &SalesSummaryResponse{
		From:           filter.From,
		To:             filter.To,
		SaleCount:      summary.SaleCount,
		ReturnCount:    summary.ReturnCount,
		GrossAmount:    summary.GrossAmount,
		RefundedAmount: summary.RefundedAmount,
		NetAmount:      summary.NetAmount(),
	}, nil
}

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishEvents publishes after commit. Failures are logged, not returned.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, source eventSource) {
	events := source.GetDomainEvents()
	source.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("event_type", events[0].EventType()),
			zap.Error(err),
		)
	}
}

package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReturnService previews and commits returns against recorded sales
type ReturnService struct {
	saleRepo        trade.SaleRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
	now             func() time.Time
}

// NewReturnService creates a new ReturnService
func NewReturnService(saleRepo trade.SaleRepository, txScope TransactionScope, logger *zap.Logger) *ReturnService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReturnService{
		saleRepo: saleRepo,
		txScope:  txScope,
		logger:   logger,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *ReturnService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Preview validates and prices a return against the current sale without
// writing anything. Validation problems are part of the response, not an
// error; the result is advisory since the sale may change before commit.
func (s *ReturnService) Preview(ctx context.Context, saleID uuid.UUID, req ReturnRequest) (*ReturnPreviewResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	validated, errs := trade.ValidateReturnRequest(sale.Items, req.requestItems())
	if len(errs) > 0 {
		return &ReturnPreviewResponse{
			Valid:       false,
			SaleVersion: sale.Version,
			Lines:       []ReturnLineResponse{},
			TotalRefund: decimal.Zero,
			Errors:      errs,
		}, nil
	}

	return &ReturnPreviewResponse{
		Valid:       true,
		SaleVersion: sale.Version,
		Lines:       toReturnLineResponses(validated),
		TotalRefund: validated.TotalRefund,
		Errors:      trade.ReturnErrors{},
	}, nil
}

// Commit records a return. The sale is locked and reloaded, the request is
// re-validated against the live items and, when ExpectedVersion is given, the
// sale must still be at that version. Returned quantities go back to stock.
func (s *ReturnService) Commit(ctx context.Context, saleID uuid.UUID, req ReturnRequest) (*ReturnCommitResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "return", "commit",
		telemetry.SpanAttrSaleID, saleID.String(),
		telemetry.SpanAttrItemCount, len(req.Items),
	)
	defer span.End()

	var (
		sale *trade.Sale
		ret  *trade.SaleReturn
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		if req.ExpectedVersion != nil && *req.ExpectedVersion != sale.Version {
			return shared.ErrConcurrencyConflict.WithMessage(
				"Sale %s changed since it was loaded (version %d, expected %d); reload and retry",
				sale.SaleNumber, sale.Version, *req.ExpectedVersion)
		}

		validated, errs := trade.ValidateReturnRequest(sale.Items, req.requestItems())
		if len(errs) > 0 {
			return errs
		}

		ret, err = sale.RecordReturn(validated, trade.NewDocumentNumber("R", s.now()), req.Reason)
		if err != nil {
			return err
		}

		for _, line := range validated.Lines {
			if err := repos.ProductRepo().IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		return repos.SaleRepo().SaveReturn(ctx, sale, ret)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.recordRejected(ctx, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrReturnNumber, ret.ReturnNumber,
		telemetry.SpanAttrAmount, ret.TotalRefund.String(),
	)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordReturn(ctx, ret.TotalRefund)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, sale)

	s.logger.Info("Return committed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("return_number", ret.ReturnNumber),
		zap.String("refund", ret.TotalRefund.StringFixed(2)),
		zap.Int("sale_version", sale.Version),
	)

	return &ReturnCommitResponse{
		Return: ToSaleReturnResponse(ret),
		Sale:   ToSaleResponse(sale),
	}, nil
}

// ListReturns lists the returns recorded against a sale
func (s *ReturnService) ListReturns(ctx context.Context, saleID uuid.UUID) ([]SaleReturnResponse, error) {
	if _, err := s.saleRepo.FindByID(ctx, saleID); err != nil {
		return nil, err
	}
	returns, err := s.saleRepo.FindReturnsBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	responses := make([]SaleReturnResponse, len(returns))
	for i := range returns {
		responses[i] = ToSaleReturnResponse(&returns[i])
	}
	return responses, nil
}

func (s *ReturnService) recordRejected(ctx context.Context, err error) {
	if s.businessMetrics == nil {
		return
	}
	var errs trade.ReturnErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			s.businessMetrics.RecordReturnRejected(ctx, e.Code)
		}
		return
	}
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		s.businessMetrics.RecordReturnRejected(ctx, "versionMismatch")
	}
}

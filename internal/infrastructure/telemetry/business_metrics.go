package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics records point-of-sale activity: sales, returns, refunds
// and stock health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	saleRecordedTotal   *Counter
	saleAmountTotal     *Counter
	saleLines           *Histogram
	returnRecordedTotal *Counter
	refundAmountTotal   *Counter
	returnRejectedTotal *Counter
	lowStockProducts    *Gauge

	stockProvider  StockMetricsProvider
	stockThreshold int

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// StockMetricsProvider reports stock levels for periodic gauge collection.
type StockMetricsProvider interface {
	// CountProductsBelowStock counts products whose stock is below threshold
	CountProductsBelowStock(ctx context.Context, threshold int) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter          metric.Meter
	Logger         *zap.Logger
	StockProvider  StockMetricsProvider
	StockThreshold int // Default: 5
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := cfg.StockThreshold
	if threshold <= 0 {
		threshold = 5
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stockProvider:  cfg.StockProvider,
		stockThreshold: threshold,
		stopChan:       make(chan struct{}),
	}

	var err error
	if bm.saleRecordedTotal, err = NewCounter(cfg.Meter,
		"pos_sale_recorded_total", "Total number of sales recorded", "{sales}"); err != nil {
		return nil, err
	}
	if bm.saleAmountTotal, err = NewCounter(cfg.Meter,
		"pos_sale_amount_total", "Total sale amount in cents", "{cents}"); err != nil {
		return nil, err
	}
	if bm.saleLines, err = NewHistogram(cfg.Meter,
		"pos_sale_lines", "Number of lines per sale", "{lines}", SaleLineBuckets...); err != nil {
		return nil, err
	}
	if bm.returnRecordedTotal, err = NewCounter(cfg.Meter,
		"pos_return_recorded_total", "Total number of returns recorded", "{returns}"); err != nil {
		return nil, err
	}
	if bm.refundAmountTotal, err = NewCounter(cfg.Meter,
		"pos_refund_amount_total", "Total refunded amount in cents", "{cents}"); err != nil {
		return nil, err
	}
	if bm.returnRejectedTotal, err = NewCounter(cfg.Meter,
		"pos_return_rejected_total", "Return requests rejected by validation", "{returns}"); err != nil {
		return nil, err
	}
	if bm.lowStockProducts, err = NewGauge(cfg.Meter,
		"pos_low_stock_products", "Number of products below the stock threshold", "{products}"); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordSale records a committed sale with its total and line count.
func (bm *BusinessMetrics) RecordSale(ctx context.Context, total decimal.Decimal, lines int) {
	bm.saleRecordedTotal.Inc(ctx)
	bm.saleAmountTotal.Add(ctx, toCents(total))
	bm.saleLines.Record(ctx, float64(lines))
}

// RecordReturn records a committed return and its refund.
func (bm *BusinessMetrics) RecordReturn(ctx context.Context, refund decimal.Decimal) {
	bm.returnRecordedTotal.Inc(ctx)
	bm.refundAmountTotal.Add(ctx, toCents(refund))
}

// RecordReturnRejected records a return rejected with the given error code.
func (bm *BusinessMetrics) RecordReturnRejected(ctx context.Context, code string) {
	bm.returnRejectedTotal.Inc(ctx, AttrReasonCode.String(code))
}

// RecordLowStockCount records the number of products below the threshold.
func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, count int64) {
	bm.lowStockProducts.Record(ctx, count, AttrThreshold.Int(bm.stockThreshold))
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// StartPeriodicCollection collects gauge metrics every interval (default 5
// minutes) until Stop is called or ctx is done. It does not block.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectStockMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collectStockMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectStockMetrics(ctx context.Context) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}
	count, err := bm.stockProvider.CountProductsBelowStock(ctx, bm.stockThreshold)
	if err != nil {
		bm.logger.Warn("Failed to count low stock products", zap.Error(err))
		return
	}
	bm.RecordLowStockCount(ctx, count)
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

package event

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogPublisher writes domain events to the log. Used when no broker is
// configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(l *zap.Logger) *LogPublisher {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogPublisher{logger: l}
}

// Publish logs each event
func (p *LogPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	log := p.logger
	if rid := logger.GetRequestID(ctx); rid != "" {
		log = log.With(zap.String("request_id", rid))
	}
	for _, e := range events {
		log.Info("Domain event",
			zap.String("event_type", e.EventType()),
			zap.String("event_id", e.EventID().String()),
			zap.String("aggregate_type", e.AggregateType()),
			zap.String("aggregate_id", e.AggregateID().String()),
			zap.Time("occurred_at", e.OccurredAt()),
		)
	}
	return nil
}

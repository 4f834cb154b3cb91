package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// Kafka header names set on every published event
const (
	HeaderEventType     = "event-type"
	HeaderAggregateType = "aggregate-type"
)

// messageWriter is the subset of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes domain events as JSON to one Kafka topic. The
// aggregate ID is the message key so events of one sale stay ordered.
type KafkaPublisher struct {
	writer       messageWriter
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic on cfg.Brokers
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, cfg.WriteTimeout, logger)
}

func newKafkaPublisher(writer messageWriter, writeTimeout time.Duration, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &KafkaPublisher{writer: writer, writeTimeout: writeTimeout, logger: logger}
}

// Publish writes all events in one batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := toMessage(ctx, e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(msgs), err)
	}

	p.logger.Debug("Published domain events", zap.Int("count", len(msgs)))
	return nil
}

// Close flushes pending writes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(ctx context.Context, e shared.DomainEvent) (kafka.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal %s event: %w", e.EventType(), err)
	}

	msg := kafka.Message{
		Key:   []byte(e.AggregateID().String()),
		Value: payload,
		Time:  e.OccurredAt(),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(e.EventType())},
			{Key: HeaderAggregateType, Value: []byte(e.AggregateType())},
		},
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{headers: &msg.Headers})
	return msg, nil
}

// headerCarrier lets the OTel propagator write trace context into Kafka headers
type headerCarrier struct {
	headers *[]kafka.Header
}

func (c headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range *c.headers {
		if h.Key == key {
			(*c.headers)[i].Value = []byte(value)
			return
		}
	}
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

// Closer is implemented by publishers that hold connections
type Closer interface {
	Close() error
}

// NewPublisher returns a Kafka publisher when Kafka is enabled and a
// logging publisher otherwise
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) (shared.EventPublisher, error) {
	if !cfg.Enabled {
		return NewLogPublisher(logger), nil
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka enabled but no brokers configured")
	}
	logger.Info("Publishing domain events to Kafka",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)
	return NewKafkaPublisher(cfg, logger), nil
}

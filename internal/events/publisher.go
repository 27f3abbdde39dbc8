package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-ledger/pkg/logger"
)

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishSaleRegistered(ctx context.Context, event SaleRegisteredEvent) error
	PublishStockChanged(ctx context.Context, event StockChangedEvent) error
	Close() error
}

// KafkaPublisher wraps a Kafka sync producer
type KafkaPublisher struct {
	producer sarama.SyncProducer
}

// NewKafkaPublisher dials the brokers and creates a publisher
func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return NewKafkaPublisherWithProducer(producer), nil
}

// NewKafkaPublisherWithProducer uses an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) PublishSaleRegistered(ctx context.Context, event SaleRegisteredEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = EventTypeSaleRegistered
	event.Timestamp = time.Now().UTC()

	return p.publish(ctx, TopicSaleRegistered, event.EventType, event.EventID, event.ProductID, event,
		attribute.Int64("sale.id", int64(event.SaleID)),
		attribute.Int("sale.quantity", event.Quantity),
	)
}

func (p *KafkaPublisher) PublishStockChanged(ctx context.Context, event StockChangedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = EventTypeStockChanged
	event.Timestamp = time.Now().UTC()

	return p.publish(ctx, TopicStockChanged, event.EventType, event.EventID, event.ProductID, event,
		attribute.Int("stock.delta", event.Delta),
		attribute.String("stock.reason", event.Reason),
	)
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, eventType, eventID string, productID uint, payload interface{}, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
			attribute.Int64("product.id", int64(productID)),
		),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	eventBytes, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(fmt.Sprintf("product_%d", productID)),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", topic).
			Uint("product_id", productID).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Info(ctx).
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Uint("product_id", productID).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopPublisher drops every event; used when KAFKA_BROKERS is empty.
type NoopPublisher struct{}

func (NoopPublisher) PublishSaleRegistered(context.Context, SaleRegisteredEvent) error { return nil }
func (NoopPublisher) PublishStockChanged(context.Context, StockChangedEvent) error     { return nil }
func (NoopPublisher) Close() error                                                     { return nil }

// NewPublisher returns a Kafka publisher for the given brokers, or a no-op one when none are set.
func NewPublisher(brokers []string) (Publisher, error) {
	if len(brokers) == 0 {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, events are disabled")
		return NoopPublisher{}, nil
	}
	publisher, err := NewKafkaPublisher(brokers)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}

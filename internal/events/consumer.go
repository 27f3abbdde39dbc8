package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-ledger/pkg/logger"
)

var (
	errMissingEventType = errors.New("message without event_type header")
	errNoHandler        = errors.New("no handler registered for event type")
)

// HandlerFunc processes one raw event payload.
type HandlerFunc func(ctx context.Context, payload []byte) error

// OnStockChanged adapts a typed handler for product.stock_changed events.
func OnStockChanged(fn func(ctx context.Context, event StockChangedEvent) error) HandlerFunc {
	return func(ctx context.Context, payload []byte) error {
		var event StockChangedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", EventTypeStockChanged, err)
		}
		return fn(ctx, event)
	}
}

// OnSaleRegistered adapts a typed handler for sale.registered events.
func OnSaleRegistered(fn func(ctx context.Context, event SaleRegisteredEvent) error) HandlerFunc {
	return func(ctx context.Context, payload []byte) error {
		var event SaleRegisteredEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", EventTypeSaleRegistered, err)
		}
		return fn(ctx, event)
	}
}

// Consumer reads events from a Kafka consumer group and dispatches them by
// the event_type header.
type Consumer struct {
	group   sarama.ConsumerGroup
	groupID string
	topics  []string

	mu       sync.RWMutex
	handlers map[string]HandlerFunc

	// retry delays after a failed Consume, doubling from retryMin to retryMax
	retryMin time.Duration
	retryMax time.Duration
}

// NewConsumer joins groupID on the given brokers
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	return NewConsumerWithGroup(group, groupID, topics), nil
}

// NewConsumerWithGroup uses an existing consumer group
func NewConsumerWithGroup(group sarama.ConsumerGroup, groupID string, topics []string) *Consumer {
	return &Consumer{
		group:    group,
		groupID:  groupID,
		topics:   topics,
		handlers: make(map[string]HandlerFunc),
		retryMin: time.Second,
		retryMax: 30 * time.Second,
	}
}

// Handle registers fn for eventType, replacing any previous handler.
func (c *Consumer) Handle(eventType string, fn HandlerFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = fn
}

// Run consumes until ctx is cancelled. Handler failures are logged and the
// message is still marked; events are notifications, not commands. A failed
// Consume is retried with exponential backoff.
func (c *Consumer) Run(ctx context.Context) error {
	if c.group == nil {
		return errors.New("consumer has no group")
	}

	go func() {
		for err := range c.group.Errors() {
			logger.Logger.Error().Err(err).Str("group_id", c.groupID).Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")

	handler := &groupHandler{consumer: c}
	backoff := c.retryMin
	for {
		err := c.group.Consume(ctx, c.topics, handler)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return nil
		}
		if ctx.Err() != nil {
			logger.Logger.Info().Msg("Consumer context cancelled, stopping...")
			return nil
		}
		if err == nil {
			backoff = c.retryMin
			continue
		}

		logger.Logger.Error().Err(err).Dur("retry_in", backoff).Msg("Error from consumer")
		select {
		case <-ctx.Done():
			logger.Logger.Info().Msg("Consumer context cancelled, stopping...")
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, c.retryMax)
	}
}

// Close leaves the group
func (c *Consumer) Close() error {
	if c.group != nil {
		return c.group.Close()
	}
	return nil
}

func (c *Consumer) dispatch(ctx context.Context, message *sarama.ConsumerMessage) error {
	carrier := propagation.MapCarrier{}
	var eventType, eventID string
	for _, header := range message.Headers {
		switch key := string(header.Key); key {
		case "traceparent", "tracestate":
			carrier[key] = string(header.Value)
		case "event_type":
			eventType = string(header.Value)
		case "event_id":
			eventID = string(header.Value)
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	ctx, span := otel.Tracer("kafka-consumer").Start(ctx, "kafka.consume."+eventType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.String("messaging.source_kind", "topic"),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
	)
	defer span.End()

	if eventType == "" {
		span.SetStatus(codes.Error, errMissingEventType.Error())
		return errMissingEventType
	}

	c.mu.RLock()
	fn, ok := c.handlers[eventType]
	c.mu.RUnlock()
	if !ok {
		span.SetStatus(codes.Error, errNoHandler.Error())
		return fmt.Errorf("%s: %w", eventType, errNoHandler)
	}

	if err := fn(ctx, message.Value); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to handle event")
		return err
	}

	span.SetStatus(codes.Ok, "Event handled successfully")
	logger.Debug(ctx).
		Str("event_type", eventType).
		Str("event_id", eventID).
		Str("topic", message.Topic).
		Int64("offset", message.Offset).
		Msg("Event handled")
	return nil
}

// groupHandler implements sarama.ConsumerGroupHandler
type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.consumer.dispatch(session.Context(), message); err != nil {
			logger.Warn(session.Context()).
				Err(err).
				Str("topic", message.Topic).
				Int64("offset", message.Offset).
				Msg("Failed to handle event")
		}
		session.MarkMessage(message, "")
	}
	return nil
}

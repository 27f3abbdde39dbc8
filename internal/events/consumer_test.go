package events

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-ledger/pkg/metrics"
)

func stockMessage(t *testing.T, event StockChangedEvent, eventType string) *sarama.ConsumerMessage {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	msg := &sarama.ConsumerMessage{Topic: TopicStockChanged, Value: payload}
	if eventType != "" {
		msg.Headers = append(msg.Headers,
			&sarama.RecordHeader{Key: []byte("event_type"), Value: []byte(eventType)},
			&sarama.RecordHeader{Key: []byte("event_id"), Value: []byte("evt-1")},
		)
	}
	return msg
}

func TestConsumerDispatch_RoutesByEventType(t *testing.T) {
	c := NewConsumerWithGroup(nil, "test", []string{TopicStockChanged})

	var got StockChangedEvent
	c.Handle(EventTypeStockChanged, OnStockChanged(func(_ context.Context, e StockChangedEvent) error {
		got = e
		return nil
	}))

	err := c.dispatch(context.Background(), stockMessage(t, StockChangedEvent{ProductID: 4, Delta: -2, NewQuantity: 1}, EventTypeStockChanged))
	require.NoError(t, err)
	assert.Equal(t, uint(4), got.ProductID)
	assert.Equal(t, 1, got.NewQuantity)
}

func TestConsumerDispatch_Rejects(t *testing.T) {
	c := NewConsumerWithGroup(nil, "test", nil)
	c.Handle(EventTypeSaleRegistered, OnSaleRegistered(func(context.Context, SaleRegisteredEvent) error { return nil }))

	err := c.dispatch(context.Background(), stockMessage(t, StockChangedEvent{}, ""))
	assert.ErrorIs(t, err, errMissingEventType)

	err = c.dispatch(context.Background(), stockMessage(t, StockChangedEvent{}, EventTypeStockChanged))
	assert.ErrorIs(t, err, errNoHandler)

	bad := &sarama.ConsumerMessage{
		Value:   []byte("{not json"),
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeSaleRegistered)}},
	}
	assert.Error(t, c.dispatch(context.Background(), bad))
}

func TestRunWithoutGroup(t *testing.T) {
	c := NewConsumerWithGroup(nil, "test", nil)
	assert.Error(t, c.Run(context.Background()))
	assert.NoError(t, c.Close())
}

// unreachableGroup fails every Consume call, like a group whose brokers are down.
type unreachableGroup struct {
	sarama.ConsumerGroup
	calls  atomic.Int32
	errors chan error
}

func (g *unreachableGroup) Consume(context.Context, []string, sarama.ConsumerGroupHandler) error {
	g.calls.Add(1)
	return sarama.ErrOutOfBrokers
}

func (g *unreachableGroup) Errors() <-chan error { return g.errors }
func (g *unreachableGroup) Close() error         { return nil }

func TestRun_BacksOffWhileBrokersAreDown(t *testing.T) {
	group := &unreachableGroup{errors: make(chan error)}
	close(group.errors)

	c := NewConsumerWithGroup(group, "test", []string{TopicStockChanged})
	c.retryMin = 20 * time.Millisecond
	c.retryMax = 40 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	start := time.Now()
	require.NoError(t, c.Run(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)

	// 0, 20, 60, 100, 140ms
	calls := group.calls.Load()
	assert.GreaterOrEqual(t, calls, int32(2))
	assert.LessOrEqual(t, calls, int32(6))
}

func TestRun_StopsWhenGroupIsClosed(t *testing.T) {
	c := NewConsumerWithGroup(closedGroup{}, "test", nil)
	assert.NoError(t, c.Run(context.Background()))
}

type closedGroup struct{ sarama.ConsumerGroup }

func (closedGroup) Consume(context.Context, []string, sarama.ConsumerGroupHandler) error {
	return sarama.ErrClosedConsumerGroup
}

func (closedGroup) Errors() <-chan error {
	ch := make(chan error)
	close(ch)
	return ch
}

func TestStockWatcher_Levels(t *testing.T) {
	var levels []string
	w := NewStockWatcher(5, func(_ context.Context, level string, _ StockChangedEvent) {
		levels = append(levels, level)
	})

	low := testutil.ToFloat64(metrics.StockAlertsTotal.WithLabelValues(AlertLow))
	out := testutil.ToFloat64(metrics.StockAlertsTotal.WithLabelValues(AlertOutOfStock))

	ctx := context.Background()
	for _, qty := range []int{10, 6, 5, 1, 0} {
		require.NoError(t, w.HandleStockChanged(ctx, StockChangedEvent{ProductID: 1, NewQuantity: qty}))
	}

	assert.Equal(t, []string{AlertLow, AlertLow, AlertOutOfStock}, levels)
	assert.Equal(t, low+2, testutil.ToFloat64(metrics.StockAlertsTotal.WithLabelValues(AlertLow)))
	assert.Equal(t, out+1, testutil.ToFloat64(metrics.StockAlertsTotal.WithLabelValues(AlertOutOfStock)))
}

func TestStockWatcher_RegistersOnConsumer(t *testing.T) {
	c := NewConsumerWithGroup(nil, "test", []string{TopicStockChanged})
	var alerted bool
	NewStockWatcher(3, func(context.Context, string, StockChangedEvent) { alerted = true }).Register(c)

	err := c.dispatch(context.Background(), stockMessage(t, StockChangedEvent{ProductID: 2, NewQuantity: 2}, EventTypeStockChanged))
	require.NoError(t, err)
	assert.True(t, alerted)
}

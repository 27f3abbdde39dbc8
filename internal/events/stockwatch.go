package events

import (
	"context"

	"github.com/tair/inventory-ledger/pkg/logger"
	"github.com/tair/inventory-ledger/pkg/metrics"
)

// Alert levels
const (
	AlertLow        = "low"
	AlertOutOfStock = "out_of_stock"
)

// StockWatcher raises alerts for stock change events that leave a product at
// or below the low-stock threshold.
type StockWatcher struct {
	threshold int
	notify    func(ctx context.Context, level string, event StockChangedEvent)
}

// NewStockWatcher logs and counts alerts. notify, when set, is called as well.
func NewStockWatcher(threshold int, notify func(ctx context.Context, level string, event StockChangedEvent)) *StockWatcher {
	return &StockWatcher{threshold: threshold, notify: notify}
}

// Register subscribes the watcher on c.
func (w *StockWatcher) Register(c *Consumer) {
	c.Handle(EventTypeStockChanged, OnStockChanged(w.HandleStockChanged))
}

// HandleStockChanged never fails; a quiet event is simply ignored.
func (w *StockWatcher) HandleStockChanged(ctx context.Context, event StockChangedEvent) error {
	level := w.level(event.NewQuantity)
	if level == "" {
		return nil
	}

	metrics.StockAlertsTotal.WithLabelValues(level).Inc()
	logger.Warn(ctx).
		Str("level", level).
		Uint("product_id", event.ProductID).
		Int("quantity", event.NewQuantity).
		Int("delta", event.Delta).
		Str("reason", event.Reason).
		Msg("Stock alert")

	if w.notify != nil {
		w.notify(ctx, level, event)
	}
	return nil
}

func (w *StockWatcher) level(quantity int) string {
	switch {
	case quantity <= 0:
		return AlertOutOfStock
	case quantity <= w.threshold:
		return AlertLow
	default:
		return ""
	}
}

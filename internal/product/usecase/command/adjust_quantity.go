package command

import (
	"context"
	"fmt"
	"math"

	"github.com/tair/inventory-ledger/internal/events"
	"github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/logger"
	"github.com/tair/inventory-ledger/pkg/metrics"
)

// AdjustQuantityCommand moves a product's stock by Delta (positive or negative).
type AdjustQuantityCommand struct {
	ProductID uint
	Delta     int
}

// AdjustQuantityHandler handles stock adjustment command
type AdjustQuantityHandler struct {
	repo      domain.ProductRepository
	cache     domain.ProductCache
	publisher events.Publisher
}

// NewAdjustQuantityHandler creates a new adjust quantity handler
func NewAdjustQuantityHandler(repo domain.ProductRepository, cache domain.ProductCache, publisher events.Publisher) *AdjustQuantityHandler {
	return &AdjustQuantityHandler{repo: repo, cache: cache, publisher: publisher}
}

// Handle fails with domain.ErrNegativeQuantity when quantity + delta < 0.
// Only the quantity column changes.
func (h *AdjustQuantityHandler) Handle(ctx context.Context, cmd AdjustQuantityCommand) (*domain.Product, error) {
	if cmd.ProductID == 0 {
		return nil, apperror.Invalid("id", "invalid product id")
	}

	current, err := h.repo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if cmd.Delta > 0 && current.Quantity > math.MaxInt-cmd.Delta {
		return nil, apperror.Invalid("delta", "resulting quantity is out of range")
	}
	if current.Quantity+cmd.Delta < 0 {
		return nil, fmt.Errorf("have %d, delta %d: %w", current.Quantity, cmd.Delta, domain.ErrNegativeQuantity)
	}

	product, err := h.repo.AdjustQuantity(ctx, cmd.ProductID, cmd.Delta)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Invalidate(ctx, product.ID); err != nil {
		logger.Warn(ctx).Err(err).Uint("product_id", product.ID).Msg("Failed to invalidate product cache")
	}
	metrics.ObserveStock("adjust_quantity", product.Quantity)

	if err := h.publisher.PublishStockChanged(ctx, events.StockChangedEvent{
		ProductID:   product.ID,
		Delta:       cmd.Delta,
		NewQuantity: product.Quantity,
		Reason:      events.ReasonAdjustment,
	}); err != nil {
		logger.Warn(ctx).Err(err).Uint("product_id", product.ID).Msg("Failed to publish stock change")
	}

	logger.Info(ctx).
		Uint("product_id", product.ID).
		Int("delta", cmd.Delta).
		Int("quantity", product.Quantity).
		Msg("Product quantity adjusted")

	return product, nil
}

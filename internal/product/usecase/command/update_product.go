package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/inventory-ledger/internal/events"
	"github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/logger"
	"github.com/tair/inventory-ledger/pkg/metrics"
)

// UpdateProductCommand represents the command to update a product.
// Every field is replaced.
type UpdateProductCommand struct {
	ID          uint
	Name        string
	Description string
	Price       float64
	Quantity    int
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo      domain.ProductRepository
	cache     domain.ProductCache
	publisher events.Publisher
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository, cache domain.ProductCache, publisher events.Publisher) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, cache: cache, publisher: publisher}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == 0 {
		return nil, apperror.Invalid("id", "invalid product id")
	}

	fields, err := productFields{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Quantity:    cmd.Quantity,
	}.normalize()
	if err != nil {
		return nil, err
	}

	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	// Name must stay unique among the other products
	other, err := h.repo.FindByName(ctx, fields.Name)
	if err == nil && other != nil && other.ID != cmd.ID {
		return nil, fmt.Errorf("%q: %w", fields.Name, domain.ErrDuplicateName)
	}
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}

	previousQuantity := product.Quantity
	product.Name = fields.Name
	product.Description = fields.Description
	product.Price = fields.Price
	product.Quantity = fields.Quantity

	if err := h.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if err := h.cache.Invalidate(ctx, product.ID); err != nil {
		logger.Warn(ctx).Err(err).Uint("product_id", product.ID).Msg("Failed to invalidate product cache")
	}
	metrics.ObserveStock("update_product", product.Quantity)

	if delta := product.Quantity - previousQuantity; delta != 0 {
		if err := h.publisher.PublishStockChanged(ctx, events.StockChangedEvent{
			ProductID:   product.ID,
			Delta:       delta,
			NewQuantity: product.Quantity,
			Reason:      events.ReasonUpdate,
		}); err != nil {
			logger.Warn(ctx).Err(err).Uint("product_id", product.ID).Msg("Failed to publish stock change")
		}
	}

	logger.Info(ctx).Uint("product_id", product.ID).Msg("Product updated")
	return product, nil
}

package command

import (
	"context"

	"github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/logger"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	ID uint
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo  domain.ProductRepository
	cache domain.ProductCache
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository, cache domain.ProductCache) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo, cache: cache}
}

// Handle deletes the product. Sales that referenced it keep their rows
// with a NULL product id.
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if cmd.ID == 0 {
		return apperror.Invalid("id", "invalid product id")
	}

	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return err
	}

	if err := h.cache.Invalidate(ctx, cmd.ID); err != nil {
		logger.Warn(ctx).Err(err).Uint("product_id", cmd.ID).Msg("Failed to invalidate product cache")
	}

	logger.Info(ctx).Uint("product_id", cmd.ID).Msg("Product deleted")
	return nil
}

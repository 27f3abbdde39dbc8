package query

import (
	"context"

	"github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/logger"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID uint
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo  domain.ProductRepository
	cache domain.ProductCache
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository, cache domain.ProductCache) *GetProductHandler {
	return &GetProductHandler{repo: repo, cache: cache}
}

// Handle reads through the cache.
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	if query.ID == 0 {
		return nil, apperror.Invalid("id", "invalid product id")
	}

	if product, ok := h.cache.Get(ctx, query.ID); ok {
		return product, nil
	}

	product, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Set(ctx, product); err != nil {
		logger.Warn(ctx).Err(err).Uint("product_id", product.ID).Msg("Failed to cache product")
	}
	return product, nil
}

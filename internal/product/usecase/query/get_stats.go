package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-ledger/internal/product/domain"
)

// GetStatsQuery represents the query to get product statistics
type GetStatsQuery struct{}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo              domain.ProductRepository
	lowStockThreshold int
}

// NewGetStatsHandler creates a new get stats handler. Products with
// 0 < quantity <= lowStockThreshold count as low stock.
func NewGetStatsHandler(repo domain.ProductRepository, lowStockThreshold int) *GetStatsHandler {
	return &GetStatsHandler{repo: repo, lowStockThreshold: lowStockThreshold}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*domain.Stats, error) {
	stats, err := h.repo.Stats(ctx, h.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to get product stats: %w", err)
	}
	return stats, nil
}

package query

import (
	"context"

	"github.com/tair/inventory-ledger/internal/product/domain"
)

// ListProductsQuery represents the query to list products.
// A zero Limit returns every product.
type ListProductsQuery struct {
	Limit  int
	Offset int
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle returns products in insertion order. Storage failures are returned,
// never turned into an empty list.
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]domain.Product, error) {
	if query.Offset < 0 {
		query.Offset = 0
	}
	return h.repo.FindAll(ctx, query.Limit, query.Offset)
}

package query

import (
	"context"

	productdomain "github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/internal/sale/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
)

// ListSalesQuery lists sales in insertion order. A zero Limit returns all.
type ListSalesQuery struct {
	Limit  int
	Offset int
}

// ListSalesHandler handles list sales query
type ListSalesHandler struct {
	sales domain.SaleRepository
}

func NewListSalesHandler(sales domain.SaleRepository) *ListSalesHandler {
	return &ListSalesHandler{sales: sales}
}

func (h *ListSalesHandler) Handle(ctx context.Context, query ListSalesQuery) ([]domain.Sale, error) {
	if query.Offset < 0 {
		query.Offset = 0
	}
	return h.sales.FindAll(ctx, query.Limit, query.Offset)
}

// GetSaleQuery fetches one sale
type GetSaleQuery struct {
	ID uint
}

// GetSaleHandler handles get sale query
type GetSaleHandler struct {
	sales domain.SaleRepository
}

func NewGetSaleHandler(sales domain.SaleRepository) *GetSaleHandler {
	return &GetSaleHandler{sales: sales}
}

func (h *GetSaleHandler) Handle(ctx context.Context, query GetSaleQuery) (*domain.Sale, error) {
	if query.ID == 0 {
		return nil, apperror.Invalid("id", "invalid sale id")
	}
	return h.sales.FindByID(ctx, query.ID)
}

// ListSalesByProductQuery lists the sales of one existing product
type ListSalesByProductQuery struct {
	ProductID uint
}

// ListSalesByProductHandler handles the per-product sales query
type ListSalesByProductHandler struct {
	sales    domain.SaleRepository
	products productdomain.ProductRepository
}

func NewListSalesByProductHandler(sales domain.SaleRepository, products productdomain.ProductRepository) *ListSalesByProductHandler {
	return &ListSalesByProductHandler{sales: sales, products: products}
}

// Handle fails with product not found rather than returning an empty list
// for an unknown product.
func (h *ListSalesByProductHandler) Handle(ctx context.Context, query ListSalesByProductQuery) ([]domain.Sale, error) {
	if query.ProductID == 0 {
		return nil, apperror.Invalid("product_id", "invalid product id")
	}
	if _, err := h.products.FindByID(ctx, query.ProductID); err != nil {
		return nil, err
	}
	return h.sales.FindByProductID(ctx, query.ProductID)
}

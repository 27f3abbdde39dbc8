package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdomain "github.com/tair/inventory-ledger/internal/product/domain"
	productrepo "github.com/tair/inventory-ledger/internal/product/repository"
	"github.com/tair/inventory-ledger/internal/sale/domain"
	"github.com/tair/inventory-ledger/internal/sale/repository"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/database/dbtest"
)

func TestSaleQueries(t *testing.T) {
	db := dbtest.Open(t, &productdomain.Product{}, &domain.Sale{})
	products := productrepo.NewGormProductRepository(db)
	sales := repository.NewGormSaleRepository(db)
	ctx := context.Background()

	widget := &productdomain.Product{Name: "Widget", Price: 10, Quantity: 5}
	gadget := &productdomain.Product{Name: "Gadget", Price: 2, Quantity: 5}
	require.NoError(t, products.Create(ctx, widget))
	require.NoError(t, products.Create(ctx, gadget))

	for _, s := range []*domain.Sale{
		{ProductID: &widget.ID, Quantity: 1, TotalValue: 10, SoldAt: time.Now()},
		{ProductID: &gadget.ID, Quantity: 2, TotalValue: 4, SoldAt: time.Now()},
		{ProductID: &widget.ID, Quantity: 3, TotalValue: 30, SoldAt: time.Now()},
	} {
		require.NoError(t, sales.Create(ctx, s))
	}

	t.Run("list", func(t *testing.T) {
		all, err := NewListSalesHandler(sales).Handle(ctx, ListSalesQuery{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		page, err := NewListSalesHandler(sales).Handle(ctx, ListSalesQuery{Limit: 1, Offset: 2})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, 3, page[0].Quantity)
	})

	t.Run("get", func(t *testing.T) {
		h := NewGetSaleHandler(sales)
		got, err := h.Handle(ctx, GetSaleQuery{ID: 2})
		require.NoError(t, err)
		assert.Equal(t, gadget.ID, *got.ProductID)

		_, err = h.Handle(ctx, GetSaleQuery{ID: 99})
		assert.ErrorIs(t, err, domain.ErrSaleNotFound)
		_, err = h.Handle(ctx, GetSaleQuery{})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("by product", func(t *testing.T) {
		h := NewListSalesByProductHandler(sales, products)
		got, err := h.Handle(ctx, ListSalesByProductQuery{ProductID: widget.ID})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		_, err = h.Handle(ctx, ListSalesByProductQuery{ProductID: 404})
		assert.ErrorIs(t, err, productdomain.ErrProductNotFound)
	})
}

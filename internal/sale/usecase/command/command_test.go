package command

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-ledger/internal/events"
	"github.com/tair/inventory-ledger/internal/product/cache"
	productdomain "github.com/tair/inventory-ledger/internal/product/domain"
	productrepo "github.com/tair/inventory-ledger/internal/product/repository"
	"github.com/tair/inventory-ledger/internal/sale/domain"
	"github.com/tair/inventory-ledger/internal/sale/repository"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/database"
	"github.com/tair/inventory-ledger/pkg/database/dbtest"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSaleRegistered(ctx context.Context, event events.SaleRegisteredEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) PublishStockChanged(ctx context.Context, event events.StockChangedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

// failingAdjustRepo breaks the stock decrement after the sale insert.
type failingAdjustRepo struct {
	productdomain.ProductRepository
	err error
}

func (r failingAdjustRepo) AdjustQuantity(context.Context, uint, int) (*productdomain.Product, error) {
	return nil, r.err
}

type fixture struct {
	products productdomain.ProductRepository
	sales    domain.SaleRepository
	tx       *database.Transactor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t, &productdomain.Product{}, &domain.Sale{})
	return &fixture{
		products: productrepo.NewGormProductRepository(db),
		sales:    repository.NewGormSaleRepository(db),
		tx:       database.NewTransactor(db),
	}
}

func (f *fixture) register(publisher events.Publisher) *RegisterSaleHandler {
	return NewRegisterSaleHandler(f.tx, f.sales, f.products, cache.NoopProductCache{}, publisher)
}

func (f *fixture) seed(t *testing.T, name string, price float64, qty int) *productdomain.Product {
	t.Helper()
	p := &productdomain.Product{Name: name, Description: "A widget", Price: price, Quantity: qty}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) saleCount(t *testing.T) int {
	t.Helper()
	all, err := f.sales.FindAll(context.Background(), 0, 0)
	require.NoError(t, err)
	return len(all)
}

func float(v float64) *float64 { return &v }

func TestRegisterSale_WidgetScenario(t *testing.T) {
	f := newFixture(t)
	h := f.register(events.NoopPublisher{})
	ctx := context.Background()

	widget := f.seed(t, "Widget", 10.0, 5)

	res, err := h.Handle(ctx, RegisterSaleCommand{ProductID: widget.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
	assert.InDelta(t, 20.0, res.Sale.TotalValue, 1e-9)
	assert.Equal(t, 3, res.Product.Quantity)
	assert.Equal(t, 3, f.stock(t, widget.ID))

	_, err = h.Handle(ctx, RegisterSaleCommand{ProductID: widget.ID, Quantity: 10})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, f.stock(t, widget.ID))
	assert.Equal(t, 1, f.saleCount(t))
}

func TestRegisterSale_DefaultTotalIsPriceTimesQuantity(t *testing.T) {
	f := newFixture(t)
	h := f.register(events.NoopPublisher{})
	ctx := context.Background()

	p := f.seed(t, "Bolt", 0.1, 100)

	for _, qty := range []int{1, 3, 7, 33} {
		before := f.stock(t, p.ID)
		res, err := h.Handle(ctx, RegisterSaleCommand{ProductID: p.ID, Quantity: qty})
		require.NoError(t, err)
		assert.InDelta(t, 0.1*float64(qty), res.Sale.TotalValue, 1e-9)
		assert.Equal(t, before-qty, f.stock(t, p.ID))
	}
}

func TestRegisterSale_ExplicitTotalIsKept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seed(t, "Widget", 10, 5)

	res, err := f.register(events.NoopPublisher{}).Handle(ctx, RegisterSaleCommand{ProductID: p.ID, Quantity: 5, TotalValue: float(42)})
	require.NoError(t, err)
	assert.Equal(t, 42.0, res.Sale.TotalValue)
	assert.Zero(t, f.stock(t, p.ID))

	stored, err := f.sales.FindByID(ctx, res.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, *stored.ProductID)
	assert.False(t, stored.SoldAt.IsZero())
}

func TestRegisterSale_RejectsInvalidInputBeforeStorage(t *testing.T) {
	f := newFixture(t)
	h := f.register(events.NoopPublisher{})
	ctx := context.Background()
	p := f.seed(t, "Widget", 10, 5)

	tests := []struct {
		name string
		cmd  RegisterSaleCommand
	}{
		{"zero quantity", RegisterSaleCommand{ProductID: p.ID, Quantity: 0}},
		{"negative quantity", RegisterSaleCommand{ProductID: p.ID, Quantity: -1}},
		{"negative total", RegisterSaleCommand{ProductID: p.ID, Quantity: 1, TotalValue: float(-5)}},
		{"NaN total", RegisterSaleCommand{ProductID: p.ID, Quantity: 1, TotalValue: float(math.NaN())}},
		{"infinite total", RegisterSaleCommand{ProductID: p.ID, Quantity: 1, TotalValue: float(math.Inf(1))}},
		{"missing product id", RegisterSaleCommand{Quantity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(ctx, tt.cmd)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	assert.Equal(t, 5, f.stock(t, p.ID))
	assert.Zero(t, f.saleCount(t))
}

func TestRegisterSale_OverflowingTotalIsRejected(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Bullion", 1e308, 10)

	_, err := f.register(events.NoopPublisher{}).Handle(context.Background(), RegisterSaleCommand{ProductID: p.ID, Quantity: 10})
	require.ErrorIs(t, err, apperror.ErrValidation)

	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "total_value", verr.Field)
	assert.Equal(t, 10, f.stock(t, p.ID))
	assert.Zero(t, f.saleCount(t))
}

func TestRegisterSale_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.register(events.NoopPublisher{}).Handle(context.Background(), RegisterSaleCommand{ProductID: 31337, Quantity: 1})
	assert.ErrorIs(t, err, productdomain.ErrProductNotFound)
	assert.Zero(t, f.saleCount(t))
}

func TestRegisterSale_StockFailureRollsBackSale(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Widget", 10, 5)

	broken := failingAdjustRepo{ProductRepository: f.products, err: apperror.Storage("adjust product quantity", errors.New("disk full"))}
	h := NewRegisterSaleHandler(f.tx, f.sales, broken, cache.NoopProductCache{}, events.NoopPublisher{})

	_, err := h.Handle(context.Background(), RegisterSaleCommand{ProductID: p.ID, Quantity: 2})
	assert.ErrorIs(t, err, apperror.ErrStorage)
	assert.Zero(t, f.saleCount(t))
	assert.Equal(t, 5, f.stock(t, p.ID))
}

func TestRegisterSale_ConcurrentDrainMapsToInsufficientStock(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Widget", 10, 5)

	raced := failingAdjustRepo{ProductRepository: f.products, err: productdomain.ErrNegativeQuantity}
	h := NewRegisterSaleHandler(f.tx, f.sales, raced, cache.NoopProductCache{}, events.NoopPublisher{})

	_, err := h.Handle(context.Background(), RegisterSaleCommand{ProductID: p.ID, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Zero(t, f.saleCount(t))
}

func TestRegisterSale_PublishFailureKeepsSaleAndWarns(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Widget", 10, 5)

	pub := new(mockPublisher)
	pub.On("PublishSaleRegistered", mock.Anything, mock.MatchedBy(func(e events.SaleRegisteredEvent) bool {
		return e.ProductID == p.ID && e.Quantity == 2 && e.StockLeft == 3
	})).Return(errors.New("kafka unavailable")).Once()
	pub.On("PublishStockChanged", mock.Anything, mock.MatchedBy(func(e events.StockChangedEvent) bool {
		return e.Delta == -2 && e.NewQuantity == 3 && e.Reason == events.ReasonSale
	})).Return(nil).Once()

	res, err := f.register(pub).Handle(context.Background(), RegisterSaleCommand{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Contains(t, res.Warning, "sale event not published")
	assert.Equal(t, 1, f.saleCount(t))
	assert.Equal(t, 3, f.stock(t, p.ID))
	pub.AssertExpectations(t)
}

func TestUpdateSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seed(t, "Widget", 10, 5)
	other := f.seed(t, "Gadget", 1, 1)

	res, err := f.register(events.NoopPublisher{}).Handle(ctx, RegisterSaleCommand{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	h := NewUpdateSaleHandler(f.sales)

	t.Run("replaces fields without touching stock", func(t *testing.T) {
		when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		updated, err := h.Handle(ctx, UpdateSaleCommand{ID: res.Sale.ID, ProductID: &other.ID, Quantity: 50, TotalValue: 7.5, SoldAt: &when})
		require.NoError(t, err)
		assert.Equal(t, other.ID, *updated.ProductID)

		stored, err := f.sales.FindByID(ctx, res.Sale.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, stored.Quantity)
		assert.Equal(t, 7.5, stored.TotalValue)
		assert.True(t, when.Equal(stored.SoldAt))

		assert.Equal(t, 3, f.stock(t, p.ID))
		assert.Equal(t, 1, f.stock(t, other.ID))
	})

	t.Run("rejects negative values", func(t *testing.T) {
		_, err := h.Handle(ctx, UpdateSaleCommand{ID: res.Sale.ID, ProductID: &p.ID, Quantity: -1})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = h.Handle(ctx, UpdateSaleCommand{ID: res.Sale.ID, ProductID: &p.ID, TotalValue: -1})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("rejects non-finite totals", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := h.Handle(ctx, UpdateSaleCommand{ID: res.Sale.ID, ProductID: &p.ID, Quantity: 1, TotalValue: v})
			assert.ErrorIs(t, err, apperror.ErrValidation)
		}
		stored, err := f.sales.FindByID(ctx, res.Sale.ID)
		require.NoError(t, err)
		assert.Equal(t, 7.5, stored.TotalValue)
	})

	t.Run("unknown product", func(t *testing.T) {
		missing := uint(9999)
		_, err := h.Handle(ctx, UpdateSaleCommand{ID: res.Sale.ID, ProductID: &missing, Quantity: 1})
		assert.ErrorIs(t, err, productdomain.ErrProductNotFound)
	})

	t.Run("unknown sale", func(t *testing.T) {
		_, err := h.Handle(ctx, UpdateSaleCommand{ID: 9999, ProductID: &p.ID, Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	})
}

func TestDeleteSale_DoesNotRestock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seed(t, "Widget", 10, 5)

	res, err := f.register(events.NoopPublisher{}).Handle(ctx, RegisterSaleCommand{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	h := NewDeleteSaleHandler(f.sales)
	require.NoError(t, h.Handle(ctx, DeleteSaleCommand{ID: res.Sale.ID}))
	assert.Equal(t, 3, f.stock(t, p.ID))
	assert.Zero(t, f.saleCount(t))

	assert.ErrorIs(t, h.Handle(ctx, DeleteSaleCommand{ID: res.Sale.ID}), domain.ErrSaleNotFound)
	assert.ErrorIs(t, h.Handle(ctx, DeleteSaleCommand{}), apperror.ErrValidation)
}

package command

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tair/inventory-ledger/internal/events"
	productdomain "github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/internal/sale/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/logger"
	"github.com/tair/inventory-ledger/pkg/metrics"
)

// RegisterSaleCommand sells Quantity units of a product. A nil TotalValue
// is priced as product price * quantity.
type RegisterSaleCommand struct {
	ProductID  uint
	Quantity   int
	TotalValue *float64
}

// RegisterSaleResult is returned once the sale is committed. Warning is set
// when the sale stands but a follow-up step (cache refresh, event
// publication) failed.
type RegisterSaleResult struct {
	Sale    *domain.Sale           `json:"sale"`
	Product *productdomain.Product `json:"product"`
	Warning string                 `json:"warning,omitempty"`
}

// RegisterSaleHandler handles the sale registration command
type RegisterSaleHandler struct {
	tx        domain.Transactor
	sales     domain.SaleRepository
	products  productdomain.ProductRepository
	cache     productdomain.ProductCache
	publisher events.Publisher
	now       func() time.Time
}

// NewRegisterSaleHandler creates a new register sale handler
func NewRegisterSaleHandler(
	tx domain.Transactor,
	sales domain.SaleRepository,
	products productdomain.ProductRepository,
	cache productdomain.ProductCache,
	publisher events.Publisher,
) *RegisterSaleHandler {
	return &RegisterSaleHandler{
		tx:        tx,
		sales:     sales,
		products:  products,
		cache:     cache,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handle inserts the sale and decrements stock in one transaction. Either
// both are stored or neither is.
func (h *RegisterSaleHandler) Handle(ctx context.Context, cmd RegisterSaleCommand) (*RegisterSaleResult, error) {
	if cmd.ProductID == 0 {
		return nil, apperror.Invalid("product_id", "invalid product id")
	}
	if cmd.Quantity <= 0 {
		return nil, apperror.Invalid("quantity", "quantity sold must be greater than zero")
	}
	if cmd.TotalValue != nil {
		if err := validateTotal(*cmd.TotalValue); err != nil {
			return nil, err
		}
	}

	var (
		sale    *domain.Sale
		product *productdomain.Product
	)
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := h.products.FindByID(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		if cmd.Quantity > current.Quantity {
			return fmt.Errorf("requested %d, in stock %d: %w", cmd.Quantity, current.Quantity, domain.ErrInsufficientStock)
		}

		total := current.Price * float64(cmd.Quantity)
		if cmd.TotalValue != nil {
			total = *cmd.TotalValue
		}
		if math.IsInf(total, 0) || math.IsNaN(total) {
			return apperror.Invalid("total_value", "sale total is out of range")
		}

		productID := current.ID
		sale = &domain.Sale{
			ProductID:  &productID,
			Quantity:   cmd.Quantity,
			TotalValue: total,
			SoldAt:     h.now(),
		}
		if err := h.sales.Create(ctx, sale); err != nil {
			return err
		}

		product, err = h.products.AdjustQuantity(ctx, current.ID, -cmd.Quantity)
		if errors.Is(err, productdomain.ErrNegativeQuantity) {
			return fmt.Errorf("stock changed concurrently: %w", domain.ErrInsufficientStock)
		}
		return err
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("register_sale", kindLabel(err)).Inc()
		return nil, err
	}

	metrics.RecordSale(sale.Quantity, sale.TotalValue)
	metrics.ObserveStock("register_sale", product.Quantity)

	result := &RegisterSaleResult{Sale: sale, Product: product}
	if warnings := h.afterCommit(ctx, sale, product); len(warnings) > 0 {
		result.Warning = "sale registered, but " + strings.Join(warnings, "; ")
		metrics.SalePartialFailuresTotal.Inc()
		logger.Warn(ctx).Uint("sale_id", sale.ID).Str("warning", result.Warning).Msg("Sale registered with warnings")
	}

	logger.Info(ctx).
		Uint("sale_id", sale.ID).
		Uint("product_id", product.ID).
		Int("quantity", sale.Quantity).
		Float64("total_value", sale.TotalValue).
		Int("stock_left", product.Quantity).
		Msg("Sale registered")

	return result, nil
}

func (h *RegisterSaleHandler) afterCommit(ctx context.Context, sale *domain.Sale, product *productdomain.Product) []string {
	var warnings []string

	if err := h.cache.Invalidate(ctx, product.ID); err != nil {
		warnings = append(warnings, "product cache not refreshed: "+err.Error())
	}

	if err := h.publisher.PublishSaleRegistered(ctx, events.SaleRegisteredEvent{
		SaleID:     sale.ID,
		ProductID:  product.ID,
		Quantity:   sale.Quantity,
		TotalValue: sale.TotalValue,
		StockLeft:  product.Quantity,
		SoldAt:     sale.SoldAt,
	}); err != nil {
		warnings = append(warnings, "sale event not published: "+err.Error())
	}

	if err := h.publisher.PublishStockChanged(ctx, events.StockChangedEvent{
		ProductID:   product.ID,
		Delta:       -sale.Quantity,
		NewQuantity: product.Quantity,
		Reason:      events.ReasonSale,
	}); err != nil {
		warnings = append(warnings, "stock event not published: "+err.Error())
	}

	return warnings
}

func kindLabel(err error) string {
	switch apperror.Kind(err) {
	case apperror.ErrValidation:
		return "validation"
	case apperror.ErrNotFound:
		return "not_found"
	case apperror.ErrDuplicate:
		return "duplicate"
	case apperror.ErrConflict:
		return "conflict"
	default:
		return "storage"
	}
}

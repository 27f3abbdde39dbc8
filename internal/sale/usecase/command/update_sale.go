package command

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tair/inventory-ledger/internal/sale/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/logger"
)

// UpdateSaleCommand replaces a sale. Stock is not reconciled. A nil
// ProductID detaches the sale; a nil SoldAt keeps the recorded time.
type UpdateSaleCommand struct {
	ID         uint
	ProductID  *uint
	Quantity   int
	TotalValue float64
	SoldAt     *time.Time
}

// UpdateSaleHandler handles sale update command
type UpdateSaleHandler struct {
	sales domain.SaleRepository
}

// NewUpdateSaleHandler creates a new update sale handler
func NewUpdateSaleHandler(sales domain.SaleRepository) *UpdateSaleHandler {
	return &UpdateSaleHandler{sales: sales}
}

// Handle executes the update sale command
func (h *UpdateSaleHandler) Handle(ctx context.Context, cmd UpdateSaleCommand) (*domain.Sale, error) {
	if cmd.ID == 0 {
		return nil, apperror.Invalid("id", "invalid sale id")
	}
	if cmd.Quantity < 0 {
		return nil, apperror.Invalid("quantity", "quantity cannot be negative")
	}
	if err := validateTotal(cmd.TotalValue); err != nil {
		return nil, err
	}
	if cmd.ProductID != nil && *cmd.ProductID == 0 {
		return nil, apperror.Invalid("product_id", "invalid product id")
	}

	sale, err := h.sales.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	sale.ProductID = cmd.ProductID
	sale.Quantity = cmd.Quantity
	sale.TotalValue = cmd.TotalValue
	if cmd.SoldAt != nil {
		sale.SoldAt = cmd.SoldAt.UTC()
	}

	if err := h.sales.Update(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	logger.Info(ctx).Uint("sale_id", sale.ID).Msg("Sale updated")
	return sale, nil
}

func validateTotal(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperror.Invalid("total_value", "total value must be a finite number")
	}
	if v < 0 {
		return apperror.Invalid("total_value", "total value cannot be negative")
	}
	return nil
}

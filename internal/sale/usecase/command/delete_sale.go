package command

import (
	"context"

	"github.com/tair/inventory-ledger/internal/sale/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/logger"
)

// DeleteSaleCommand represents the command to delete a sale
type DeleteSaleCommand struct {
	ID uint
}

// DeleteSaleHandler handles sale deletion command
type DeleteSaleHandler struct {
	sales domain.SaleRepository
}

// NewDeleteSaleHandler creates a new delete sale handler
func NewDeleteSaleHandler(sales domain.SaleRepository) *DeleteSaleHandler {
	return &DeleteSaleHandler{sales: sales}
}

// Handle removes the sale. The units it sold are not returned to stock.
func (h *DeleteSaleHandler) Handle(ctx context.Context, cmd DeleteSaleCommand) error {
	if cmd.ID == 0 {
		return apperror.Invalid("id", "invalid sale id")
	}
	if err := h.sales.Delete(ctx, cmd.ID); err != nil {
		return err
	}
	logger.Info(ctx).Uint("sale_id", cmd.ID).Msg("Sale deleted")
	return nil
}

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/pkg/logger"
	"github.com/tair/inventory-ledger/pkg/metrics"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle validates, rejects duplicate names and stores the product.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	fields, err := productFields{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Quantity:    cmd.Quantity,
	}.normalize()
	if err != nil {
		return nil, err
	}

	existing, err := h.repo.FindByName(ctx, fields.Name)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%q: %w", fields.Name, domain.ErrDuplicateName)
	}
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}

	product := &domain.Product{
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Quantity:    fields.Quantity,
	}
	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ObserveStock("create_product", product.Quantity)
	logger.Info(ctx).
		Uint("product_id", product.ID).
		Str("name", product.Name).
		Int("quantity", product.Quantity).
		Msg("Product created")

	return product, nil
}

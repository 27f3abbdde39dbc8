package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-ledger/internal/product/domain"
)

var tracer = otel.Tracer("product-repository")

// TracingProductRepository wraps a ProductRepository with spans
type TracingProductRepository struct {
	next domain.ProductRepository
}

// NewTracingProductRepository creates a new repository with tracing
func NewTracingProductRepository(next domain.ProductRepository) *TracingProductRepository {
	return &TracingProductRepository{next: next}
}

func (r *TracingProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("product.name", product.Name),
			attribute.Float64("product.price", product.Price),
			attribute.Int("product.quantity", product.Quantity),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, product); err != nil {
		recordError(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	return nil
}

func (r *TracingProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("product.name", product.Name))
	return product, nil
}

func (r *TracingProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByName",
		trace.WithAttributes(attribute.String("product.name", name)),
	)
	defer span.End()

	product, err := r.next.FindByName(ctx, name)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	return product, nil
}

func (r *TracingProductRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	products, err := r.next.FindAll(ctx, limit, offset)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(
			attribute.Int("product.id", int(product.ID)),
			attribute.String("product.name", product.Name),
			attribute.Float64("product.price", product.Price),
		),
	)
	defer span.End()

	if err := r.next.Update(ctx, product); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracingProductRepository) AdjustQuantity(ctx context.Context, id uint, delta int) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.AdjustQuantity",
		trace.WithAttributes(
			attribute.Int("product.id", int(id)),
			attribute.Int("quantity.delta", delta),
		),
	)
	defer span.End()

	product, err := r.next.AdjustQuantity(ctx, id, delta)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("quantity.new_value", product.Quantity))
	return product, nil
}

func (r *TracingProductRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracingProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

func (r *TracingProductRepository) Stats(ctx context.Context, lowStockThreshold int) (*domain.Stats, error) {
	ctx, span := tracer.Start(ctx, "repository.Stats",
		trace.WithAttributes(attribute.Int("query.low_stock_threshold", lowStockThreshold)),
	)
	defer span.End()

	stats, err := r.next.Stats(ctx, lowStockThreshold)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("result.total_products", stats.TotalProducts))
	return stats, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

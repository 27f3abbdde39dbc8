package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-ledger/internal/sale/domain"
)

var tracer = otel.Tracer("sale-repository")

// TracingSaleRepository wraps a SaleRepository with spans
type TracingSaleRepository struct {
	next domain.SaleRepository
}

func NewTracingSaleRepository(next domain.SaleRepository) *TracingSaleRepository {
	return &TracingSaleRepository{next: next}
}

func (r *TracingSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			productAttr(sale.ProductID),
			attribute.Int("sale.quantity", sale.Quantity),
			attribute.Float64("sale.total_value", sale.TotalValue),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, sale); err != nil {
		fail(span, err)
		return err
	}
	span.SetAttributes(attribute.Int("sale.id", int(sale.ID)))
	return nil
}

func (r *TracingSaleRepository) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("sale.id", int(id))),
	)
	defer span.End()

	sale, err := r.next.FindByID(ctx, id)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	return sale, nil
}

func (r *TracingSaleRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Sale, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	sales, err := r.next.FindAll(ctx, limit, offset)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(sales)))
	return sales, nil
}

func (r *TracingSaleRepository) FindByProductID(ctx context.Context, productID uint) ([]domain.Sale, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByProductID",
		trace.WithAttributes(attribute.Int("product.id", int(productID))),
	)
	defer span.End()

	sales, err := r.next.FindByProductID(ctx, productID)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(sales)))
	return sales, nil
}

func (r *TracingSaleRepository) Update(ctx context.Context, sale *domain.Sale) error {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(
			attribute.Int("sale.id", int(sale.ID)),
			productAttr(sale.ProductID),
		),
	)
	defer span.End()

	if err := r.next.Update(ctx, sale); err != nil {
		fail(span, err)
		return err
	}
	return nil
}

func (r *TracingSaleRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.Int("sale.id", int(id))),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id); err != nil {
		fail(span, err)
		return err
	}
	return nil
}

func productAttr(id *uint) attribute.KeyValue {
	if id == nil {
		return attribute.Int("product.id", 0)
	}
	return attribute.Int("product.id", int(*id))
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

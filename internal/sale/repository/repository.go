package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	productdomain "github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/internal/sale/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/database"
	"github.com/tair/inventory-ledger/pkg/logger"
)

type GormSaleRepository struct {
	db *gorm.DB
}

func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	if err := database.Conn(ctx, r.db).Omit("Product").Create(sale).Error; err != nil {
		return storageError(ctx, "insert sale", err)
	}
	return nil
}

func (r *GormSaleRepository) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := database.Conn(ctx, r.db).First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSaleNotFound
	}
	if err != nil {
		return nil, storageError(ctx, "find sale", err)
	}
	return &sale, nil
}

// FindAll returns sales in insertion order. A non-positive limit means no limit.
func (r *GormSaleRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	q := database.Conn(ctx, r.db).Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&sales).Error; err != nil {
		return nil, storageError(ctx, "list sales", err)
	}
	return sales, nil
}

func (r *GormSaleRepository) FindByProductID(ctx context.Context, productID uint) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	err := database.Conn(ctx, r.db).
		Where("product_id = ?", productID).
		Order("id").
		Find(&sales).Error
	if err != nil {
		return nil, storageError(ctx, "list sales by product", err)
	}
	return sales, nil
}

// Update replaces every mutable column. A nil ProductID detaches the sale.
func (r *GormSaleRepository) Update(ctx context.Context, sale *domain.Sale) error {
	res := database.Conn(ctx, r.db).
		Model(sale).
		Select("ProductID", "Quantity", "TotalValue", "SoldAt", "UpdatedAt").
		Updates(sale)
	if res.Error != nil {
		return storageError(ctx, "update sale", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func (r *GormSaleRepository) Delete(ctx context.Context, id uint) error {
	res := database.Conn(ctx, r.db).Delete(&domain.Sale{}, id)
	if res.Error != nil {
		return storageError(ctx, "delete sale", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func storageError(ctx context.Context, op string, err error) error {
	switch {
	case database.IsForeignKeyViolation(err):
		return productdomain.ErrProductNotFound
	case database.IsCheckViolation(err):
		return apperror.Invalid("sale", "violates a storage constraint")
	}
	logger.Error(ctx).Err(err).Str("op", op).Msg("Sale storage failure")
	return apperror.Storage(op, err)
}

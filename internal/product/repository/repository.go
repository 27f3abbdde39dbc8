package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/database"
	"github.com/tair/inventory-ledger/pkg/logger"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := database.Conn(ctx, r.db).Create(product).Error; err != nil {
		return storageError(ctx, "insert product", err)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := database.Conn(ctx, r.db).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, storageError(ctx, "find product", err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	var product domain.Product
	err := database.Conn(ctx, r.db).Where("name = ?", name).Order("id").First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, storageError(ctx, "find product by name", err)
	}
	return &product, nil
}

// FindAll returns products in insertion order. A non-positive limit means no limit.
func (r *GormProductRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	products := []domain.Product{}
	q := database.Conn(ctx, r.db).Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, storageError(ctx, "list products", err)
	}
	return products, nil
}

// Update replaces every mutable column, zero values included.
func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	res := database.Conn(ctx, r.db).
		Model(product).
		Select("Name", "Description", "Price", "Quantity", "UpdatedAt").
		Updates(product)
	if res.Error != nil {
		return storageError(ctx, "update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) AdjustQuantity(ctx context.Context, id uint, delta int) (*domain.Product, error) {
	res := database.Conn(ctx, r.db).
		Model(&domain.Product{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return nil, storageError(ctx, "adjust product quantity", res.Error)
	}

	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNegativeQuantity
	}
	return product, nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	res := database.Conn(ctx, r.db).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return storageError(ctx, "delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.Conn(ctx, r.db).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, storageError(ctx, "count products", err)
	}
	return count, nil
}

// Stats computes the catalogue aggregates in a single query.
func (r *GormProductRepository) Stats(ctx context.Context, lowStockThreshold int) (*domain.Stats, error) {
	var stats domain.Stats
	err := database.Conn(ctx, r.db).
		Model(&domain.Product{}).
		Select(`COUNT(*) AS total_products,
			COALESCE(SUM(quantity), 0) AS total_units,
			COALESCE(SUM(price * quantity), 0) AS stock_value,
			COALESCE(AVG(price), 0) AS average_price,
			COALESCE(SUM(CASE WHEN quantity > 0 AND quantity <= ? THEN 1 ELSE 0 END), 0) AS low_stock_count,
			COALESCE(SUM(CASE WHEN quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_count`, lowStockThreshold).
		Scan(&stats).Error
	if err != nil {
		return nil, storageError(ctx, "product stats", err)
	}
	return &stats, nil
}

func storageError(ctx context.Context, op string, err error) error {
	if database.IsCheckViolation(err) {
		return apperror.Invalid("product", "violates a storage constraint")
	}
	logger.Error(ctx).Err(err).Str("op", op).Msg("Product storage failure")
	return apperror.Storage(op, err)
}

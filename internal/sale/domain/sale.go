package domain

import (
	"context"
	"fmt"
	"time"

	productdomain "github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/pkg/apperror"
)

var (
	ErrSaleNotFound      = fmt.Errorf("sale %w", apperror.ErrNotFound)
	ErrInsufficientStock = fmt.Errorf("quantity exceeds stock: %w", apperror.ErrConflict)
)

// Sale records units of one product sold at a total value.
// ProductID becomes nil when the product is deleted.
type Sale struct {
	ID         uint                   `json:"id" gorm:"primaryKey"`
	ProductID  *uint                  `json:"product_id" gorm:"index"`
	Product    *productdomain.Product `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Quantity   int                    `json:"quantity" gorm:"not null;check:chk_sales_quantity,quantity >= 0"`
	TotalValue float64                `json:"total_value" gorm:"not null;check:chk_sales_total_value,total_value >= 0"`
	SoldAt     time.Time              `json:"sold_at" gorm:"not null;index"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// TableName specifies the table name
func (Sale) TableName() string {
	return "sales"
}

// SaleRepository defines the contract for sale data access
type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id uint) (*Sale, error)
	FindAll(ctx context.Context, limit, offset int) ([]Sale, error)
	FindByProductID(ctx context.Context, productID uint) ([]Sale, error)
	Update(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, id uint) error
}

// Transactor scopes a unit of work; repositories called with the ctx passed
// to fn join the same transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

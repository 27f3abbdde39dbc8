package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/inventory-ledger/pkg/apperror"
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", apperror.ErrNotFound)
	ErrDuplicateName    = fmt.Errorf("product name %w", apperror.ErrDuplicate)
	ErrNegativeQuantity = fmt.Errorf("quantity cannot become negative: %w", apperror.ErrConflict)
)

// Product represents the product entity
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;index"`
	Description string    `json:"description" gorm:"not null;default:''"`
	Price       float64   `json:"price" gorm:"not null;check:chk_products_price,price >= 0"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0;check:chk_products_quantity,quantity >= 0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// IsAvailable checks if product is in stock
func (p *Product) IsAvailable() bool {
	return p.Quantity > 0
}

// StockValue is the price of everything on hand.
func (p *Product) StockValue() float64 {
	return p.Price * float64(p.Quantity)
}

// Stats aggregates the whole catalogue.
type Stats struct {
	TotalProducts   int64   `json:"total_products"`
	TotalUnits      int64   `json:"total_units"`
	StockValue      float64 `json:"stock_value"`
	AveragePrice    float64 `json:"average_price"`
	LowStockCount   int64   `json:"low_stock_count"`
	OutOfStockCount int64   `json:"out_of_stock_count"`
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	FindAll(ctx context.Context, limit, offset int) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	// AdjustQuantity applies delta and returns the updated product. It fails
	// with ErrNegativeQuantity instead of letting stock drop below zero.
	AdjustQuantity(ctx context.Context, id uint, delta int) (*Product, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context, lowStockThreshold int) (*Stats, error)
}

// ProductCache keeps recently read products by id.
type ProductCache interface {
	Get(ctx context.Context, id uint) (*Product, bool)
	Set(ctx context.Context, product *Product) error
	Invalidate(ctx context.Context, id uint) error
}

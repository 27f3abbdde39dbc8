package app

import (
	"gorm.io/gorm"

	"github.com/tair/inventory-ledger/internal/config"
	productdomain "github.com/tair/inventory-ledger/internal/product/domain"
	productrepo "github.com/tair/inventory-ledger/internal/product/repository"
	productquery "github.com/tair/inventory-ledger/internal/product/usecase/query"
	saledomain "github.com/tair/inventory-ledger/internal/sale/domain"
	salerepo "github.com/tair/inventory-ledger/internal/sale/repository"
	"github.com/tair/inventory-ledger/pkg/database"
)

// ProvideProductRepository provides the traced product repository
func ProvideProductRepository(db *gorm.DB) productdomain.ProductRepository {
	return productrepo.NewTracingProductRepository(productrepo.NewGormProductRepository(db))
}

// ProvideSaleRepository provides the traced sale repository
func ProvideSaleRepository(db *gorm.DB) saledomain.SaleRepository {
	return salerepo.NewTracingSaleRepository(salerepo.NewGormSaleRepository(db))
}

// ProvideTransactor provides the transaction scope used by the sale workflow
func ProvideTransactor(db *gorm.DB) saledomain.Transactor {
	return database.NewTransactor(db)
}

// ProvideGetStatsHandler binds the configured low-stock threshold
func ProvideGetStatsHandler(repo productdomain.ProductRepository, cfg config.Config) *productquery.GetStatsHandler {
	return productquery.NewGetStatsHandler(repo, cfg.LowStockThreshold)
}

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{&productdomain.Product{}, &saledomain.Sale{}}
}

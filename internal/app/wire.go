//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/inventory-ledger/internal/config"
	"github.com/tair/inventory-ledger/internal/events"
	producthttp "github.com/tair/inventory-ledger/internal/product/delivery/http"
	productdomain "github.com/tair/inventory-ledger/internal/product/domain"
	productcommand "github.com/tair/inventory-ledger/internal/product/usecase/command"
	productquery "github.com/tair/inventory-ledger/internal/product/usecase/query"
	salehttp "github.com/tair/inventory-ledger/internal/sale/delivery/http"
	salecommand "github.com/tair/inventory-ledger/internal/sale/usecase/command"
	salequery "github.com/tair/inventory-ledger/internal/sale/usecase/query"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideSaleRepository,
	ProvideTransactor,
)

var ProductSet = wire.NewSet(
	productcommand.NewCreateProductHandler,
	productcommand.NewUpdateProductHandler,
	productcommand.NewAdjustQuantityHandler,
	productcommand.NewDeleteProductHandler,
	productquery.NewGetProductHandler,
	productquery.NewListProductsHandler,
	ProvideGetStatsHandler,
	producthttp.NewProductHandler,
)

var SaleSet = wire.NewSet(
	salecommand.NewRegisterSaleHandler,
	salecommand.NewUpdateSaleHandler,
	salecommand.NewDeleteSaleHandler,
	salequery.NewListSalesHandler,
	salequery.NewGetSaleHandler,
	salequery.NewListSalesByProductHandler,
	salehttp.NewSaleHandler,
)

// InitializeApp builds the service graph on top of already opened infrastructure
func InitializeApp(db *gorm.DB, cache productdomain.ProductCache, publisher events.Publisher, cfg config.Config) (*App, error) {
	wire.Build(
		RepositorySet,
		ProductSet,
		SaleSet,
		wire.Struct(new(Services), "*"),
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package app

import (
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

// Injectors from wire.go:

// InitializeApp builds the service graph on top of already opened infrastructure
func InitializeApp(db *gorm.DB, cache productdomain.ProductCache, publisher events.Publisher, cfg config.Config) (*App, error) {
	productRepository := ProvideProductRepository(db)
	createProductHandler := productcommand.NewCreateProductHandler(productRepository)
	updateProductHandler := productcommand.NewUpdateProductHandler(productRepository, cache, publisher)
	adjustQuantityHandler := productcommand.NewAdjustQuantityHandler(productRepository, cache, publisher)
	deleteProductHandler := productcommand.NewDeleteProductHandler(productRepository, cache)
	getProductHandler := productquery.NewGetProductHandler(productRepository, cache)
	listProductsHandler := productquery.NewListProductsHandler(productRepository)
	getStatsHandler := ProvideGetStatsHandler(productRepository, cfg)
	transactor := ProvideTransactor(db)
	saleRepository := ProvideSaleRepository(db)
	registerSaleHandler := salecommand.NewRegisterSaleHandler(transactor, saleRepository, productRepository, cache, publisher)
	updateSaleHandler := salecommand.NewUpdateSaleHandler(saleRepository)
	deleteSaleHandler := salecommand.NewDeleteSaleHandler(saleRepository)
	listSalesHandler := salequery.NewListSalesHandler(saleRepository)
	getSaleHandler := salequery.NewGetSaleHandler(saleRepository)
	listSalesByProductHandler := salequery.NewListSalesByProductHandler(saleRepository, productRepository)
	services := &Services{
		CreateProduct:      createProductHandler,
		UpdateProduct:      updateProductHandler,
		AdjustQuantity:     adjustQuantityHandler,
		DeleteProduct:      deleteProductHandler,
		GetProduct:         getProductHandler,
		ListProducts:       listProductsHandler,
		ProductStats:       getStatsHandler,
		RegisterSale:       registerSaleHandler,
		UpdateSale:         updateSaleHandler,
		DeleteSale:         deleteSaleHandler,
		ListSales:          listSalesHandler,
		GetSale:            getSaleHandler,
		ListSalesByProduct: listSalesByProductHandler,
	}
	productHandler := producthttp.NewProductHandler(createProductHandler, updateProductHandler, adjustQuantityHandler, deleteProductHandler, getProductHandler, listProductsHandler, getStatsHandler)
	saleHandler := salehttp.NewSaleHandler(registerSaleHandler, updateSaleHandler, deleteSaleHandler, listSalesHandler, getSaleHandler, listSalesByProductHandler)
	app := &App{
		Services:    services,
		ProductHTTP: productHandler,
		SaleHTTP:    saleHandler,
	}
	return app, nil
}

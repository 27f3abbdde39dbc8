package app

import (
	producthttp "github.com/tair/inventory-ledger/internal/product/delivery/http"
	productcommand "github.com/tair/inventory-ledger/internal/product/usecase/command"
	productquery "github.com/tair/inventory-ledger/internal/product/usecase/query"
	salehttp "github.com/tair/inventory-ledger/internal/sale/delivery/http"
	salecommand "github.com/tair/inventory-ledger/internal/sale/usecase/command"
	salequery "github.com/tair/inventory-ledger/internal/sale/usecase/query"
)

// Services is the business-layer contract shared by the HTTP API and the CLI.
type Services struct {
	CreateProduct  *productcommand.CreateProductHandler
	UpdateProduct  *productcommand.UpdateProductHandler
	AdjustQuantity *productcommand.AdjustQuantityHandler
	DeleteProduct  *productcommand.DeleteProductHandler
	GetProduct     *productquery.GetProductHandler
	ListProducts   *productquery.ListProductsHandler
	ProductStats   *productquery.GetStatsHandler

	RegisterSale       *salecommand.RegisterSaleHandler
	UpdateSale         *salecommand.UpdateSaleHandler
	DeleteSale         *salecommand.DeleteSaleHandler
	ListSales          *salequery.ListSalesHandler
	GetSale            *salequery.GetSaleHandler
	ListSalesByProduct *salequery.ListSalesByProductHandler
}

// App bundles the services with their HTTP front-ends.
type App struct {
	Services    *Services
	ProductHTTP *producthttp.ProductHandler
	SaleHTTP    *salehttp.SaleHandler
}

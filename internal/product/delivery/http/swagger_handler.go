package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CreateProduct godoc
// @Summary Create a new product
// @Description Register a product. Names are unique after trimming.
// @Tags Products
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,price=number,quantity=int} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,field=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products [post]
func (h *ProductHandler) CreateProductDoc() {}

// ListProducts godoc
// @Summary List products
// @Description Products in insertion order. Without limit every product is returned.
// @Tags Products
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *ProductHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProductDoc() {}

// UpdateProduct godoc
// @Summary Replace a product
// @Description All fields are replaced.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{name=string,description=string,price=number,quantity=int} true "Product data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,field=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{id} [put]
func (h *ProductHandler) UpdateProductDoc() {}

// AdjustQuantity godoc
// @Summary Adjust product quantity
// @Description Adds delta (may be negative) to the quantity on hand. Fails if the result would be negative.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{delta=int} true "Quantity delta"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{id}/quantity [patch]
func (h *ProductHandler) AdjustQuantityDoc() {}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Sales of the product are kept with a null product_id.
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [delete]
func (h *ProductHandler) DeleteProductDoc() {}

// GetStats godoc
// @Summary Product statistics
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object{total_products=int,total_units=int,stock_value=number,average_price=number,low_stock_count=int,out_of_stock_count=int}}
// @Router /api/products/stats [get]
func (h *ProductHandler) GetStatsDoc() {}

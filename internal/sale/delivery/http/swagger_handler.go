package http

// RegisterSale godoc
// @Summary Register a sale
// @Description Records the sale and decrements stock atomically. total_value defaults to price * quantity.
// @Description A warning is returned when the sale is stored but a follow-up step failed.
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body object{product_id=int,quantity=int,total_value=number} true "Sale data"
// @Success 201 {object} object{success=bool,message=string,warning=string,data=object{sale=object,product=object}}
// @Failure 400 {object} object{success=bool,error=string,field=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/sales [post]
func (h *SaleHandler) RegisterSaleDoc() {}

// ListSales godoc
// @Summary List sales
// @Tags Sales
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/sales [get]
func (h *SaleHandler) ListSalesDoc() {}

// GetSale godoc
// @Summary Get sale by ID
// @Tags Sales
// @Produce json
// @Param id path int true "Sale ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/sales/{id} [get]
func (h *SaleHandler) GetSaleDoc() {}

// UpdateSale godoc
// @Summary Replace a sale
// @Description Stock is not reconciled. Omitting product_id detaches the sale.
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path int true "Sale ID"
// @Param request body object{product_id=int,quantity=int,total_value=number,sold_at=string} true "Sale data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/sales/{id} [put]
func (h *SaleHandler) UpdateSaleDoc() {}

// DeleteSale godoc
// @Summary Delete a sale
// @Description Stock is not restored.
// @Tags Sales
// @Produce json
// @Param id path int true "Sale ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/sales/{id} [delete]
func (h *SaleHandler) DeleteSaleDoc() {}

// ListSalesByProduct godoc
// @Summary List sales of a product
// @Tags Sales
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id}/sales [get]
func (h *SaleHandler) ListSalesByProductDoc() {}

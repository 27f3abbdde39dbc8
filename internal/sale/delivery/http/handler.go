package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-ledger/internal/sale/usecase/command"
	"github.com/tair/inventory-ledger/internal/sale/usecase/query"
	"github.com/tair/inventory-ledger/pkg/logger"
	"github.com/tair/inventory-ledger/pkg/response"
)

// SaleHandler handles HTTP requests for sales
type SaleHandler struct {
	registerHandler *command.RegisterSaleHandler
	updateHandler   *command.UpdateSaleHandler
	deleteHandler   *command.DeleteSaleHandler

	listHandler      *query.ListSalesHandler
	getHandler       *query.GetSaleHandler
	byProductHandler *query.ListSalesByProductHandler
}

// NewSaleHandler creates a new sale handler. Used by Wire.
func NewSaleHandler(
	registerHandler *command.RegisterSaleHandler,
	updateHandler *command.UpdateSaleHandler,
	deleteHandler *command.DeleteSaleHandler,
	listHandler *query.ListSalesHandler,
	getHandler *query.GetSaleHandler,
	byProductHandler *query.ListSalesByProductHandler,
) *SaleHandler {
	return &SaleHandler{
		registerHandler:  registerHandler,
		updateHandler:    updateHandler,
		deleteHandler:    deleteHandler,
		listHandler:      listHandler,
		getHandler:       getHandler,
		byProductHandler: byProductHandler,
	}
}

// RegisterSale handles POST /api/sales
func (h *SaleHandler) RegisterSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID  uint     `json:"product_id"`
		Quantity   int      `json:"quantity"`
		TotalValue *float64 `json:"total_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.registerHandler.Handle(r.Context(), command.RegisterSaleCommand{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalValue: req.TotalValue,
	})
	if err != nil {
		logger.Warn(r.Context()).Err(err).
			Uint("product_id", req.ProductID).
			Int("quantity", req.Quantity).
			Msg("Failed to register sale")
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Response{
		Success: true,
		Message: "Sale registered successfully",
		Data:    result,
		Warning: result.Warning,
	})
}

// ListSales handles GET /api/sales
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	limit, err := nonNegative(r, "limit")
	if err != nil {
		response.BadRequest(w, "Invalid limit")
		return
	}
	offset, err := nonNegative(r, "offset")
	if err != nil {
		response.BadRequest(w, "Invalid offset")
		return
	}

	sales, err := h.listHandler.Handle(r.Context(), query.ListSalesQuery{Limit: limit, Offset: offset})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "", sales)
}

// GetSale handles GET /api/sales/{id}
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid sale ID")
	if !ok {
		return
	}

	sale, err := h.getHandler.Handle(r.Context(), query.GetSaleQuery{ID: id})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "", sale)
}

// ListSalesByProduct handles GET /api/products/{id}/sales
func (h *SaleHandler) ListSalesByProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid product ID")
	if !ok {
		return
	}

	sales, err := h.byProductHandler.Handle(r.Context(), query.ListSalesByProductQuery{ProductID: id})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "", sales)
}

// UpdateSale handles PUT /api/sales/{id}
func (h *SaleHandler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid sale ID")
	if !ok {
		return
	}

	var req struct {
		ProductID  *uint      `json:"product_id"`
		Quantity   *int       `json:"quantity"`
		TotalValue *float64   `json:"total_value"`
		SoldAt     *time.Time `json:"sold_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Quantity == nil || req.TotalValue == nil {
		response.BadRequest(w, "quantity and total_value are required")
		return
	}

	sale, err := h.updateHandler.Handle(r.Context(), command.UpdateSaleCommand{
		ID:         id,
		ProductID:  req.ProductID,
		Quantity:   *req.Quantity,
		TotalValue: *req.TotalValue,
		SoldAt:     req.SoldAt,
	})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Uint("sale_id", id).Msg("Failed to update sale")
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "Sale updated successfully", sale)
}

// DeleteSale handles DELETE /api/sales/{id}
func (h *SaleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid sale ID")
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteSaleCommand{ID: id}); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "Sale deleted successfully", nil)
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sales", h.ListSales).Methods("GET")
	router.HandleFunc("/api/sales", h.RegisterSale).Methods("POST")
	router.HandleFunc("/api/sales/{id:[0-9]+}", h.GetSale).Methods("GET")
	router.HandleFunc("/api/sales/{id:[0-9]+}", h.UpdateSale).Methods("PUT")
	router.HandleFunc("/api/sales/{id:[0-9]+}", h.DeleteSale).Methods("DELETE")
	router.HandleFunc("/api/products/{id:[0-9]+}/sales", h.ListSalesByProduct).Methods("GET")
}

func pathID(w http.ResponseWriter, r *http.Request, name, msg string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(w, msg)
		return 0, false
	}
	return uint(id), true
}

func nonNegative(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

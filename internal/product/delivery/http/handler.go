package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-ledger/internal/product/usecase/command"
	"github.com/tair/inventory-ledger/internal/product/usecase/query"
	"github.com/tair/inventory-ledger/pkg/logger"
	"github.com/tair/inventory-ledger/pkg/response"
)

// ProductHandler handles HTTP requests for products using CQRS pattern
type ProductHandler struct {
	// Command handlers
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	adjustHandler *command.AdjustQuantityHandler
	deleteHandler *command.DeleteProductHandler

	// Query handlers
	getProductHandler *query.GetProductHandler
	listHandler       *query.ListProductsHandler
	statsHandler      *query.GetStatsHandler
}

// NewProductHandler creates a new product handler. Used by Wire.
func NewProductHandler(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	adjustHandler *command.AdjustQuantityHandler,
	deleteHandler *command.DeleteProductHandler,
	getProductHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	statsHandler *query.GetStatsHandler,
) *ProductHandler {
	return &ProductHandler{
		createHandler:     createHandler,
		updateHandler:     updateHandler,
		adjustHandler:     adjustHandler,
		deleteHandler:     deleteHandler,
		getProductHandler: getProductHandler,
		listHandler:       listHandler,
		statsHandler:      statsHandler,
	}
}

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
}

func (req productRequest) check() string {
	if req.Price == nil {
		return "price is required"
	}
	if req.Quantity == nil {
		return "quantity is required"
	}
	return ""
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if msg := req.check(); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	product, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
	})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Failed to create product")
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusCreated, "Product created successfully", product)
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(w, r)
	if !ok {
		return
	}

	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{Limit: limit, Offset: offset})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "", products)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "", product)
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if msg := req.check(); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	product, err := h.updateHandler.Handle(r.Context(), command.UpdateProductCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
	})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Uint("product_id", id).Msg("Failed to update product")
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "Product updated successfully", product)
}

// AdjustQuantity handles PATCH /api/products/{id}/quantity
func (h *ProductHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Delta *int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta == nil {
		response.BadRequest(w, "Request body must contain an integer delta")
		return
	}

	product, err := h.adjustHandler.Handle(r.Context(), command.AdjustQuantityCommand{ProductID: id, Delta: *req.Delta})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Uint("product_id", id).Int("delta", *req.Delta).Msg("Failed to adjust quantity")
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "Quantity adjusted successfully", product)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ID: id}); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "Product deleted successfully", nil)
}

// GetStats handles GET /api/products/stats
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, http.StatusOK, "", stats)
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.ListProducts).Methods("GET")
	router.HandleFunc("/api/products", h.CreateProduct).Methods("POST")
	router.HandleFunc("/api/products/stats", h.GetStats).Methods("GET")
	router.HandleFunc("/api/products/{id:[0-9]+}", h.GetProduct).Methods("GET")
	router.HandleFunc("/api/products/{id:[0-9]+}", h.UpdateProduct).Methods("PUT")
	router.HandleFunc("/api/products/{id:[0-9]+}", h.DeleteProduct).Methods("DELETE")
	router.HandleFunc("/api/products/{id:[0-9]+}/quantity", h.AdjustQuantity).Methods("PATCH")
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(w, "Invalid product ID")
		return 0, false
	}
	return uint(id), true
}

func pagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(w, "Invalid limit")
			return 0, 0, false
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(w, "Invalid offset")
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}

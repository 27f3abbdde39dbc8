package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	_ "github.com/tair/inventory-ledger/docs"
	producthttp "github.com/tair/inventory-ledger/internal/product/delivery/http"
	"github.com/tair/inventory-ledger/pkg/middleware"
	"github.com/tair/inventory-ledger/pkg/response"
)

// NewRouter assembles the full HTTP surface: API routes, health, metrics and docs.
func NewRouter(a *App, db *gorm.DB, mwConfig middleware.Config, serviceName string) http.Handler {
	router := mux.NewRouter()
	middleware.Register(router, mwConfig)

	a.ProductHTTP.RegisterRoutes(router)
	a.SaleHTTP.RegisterRoutes(router)

	router.HandleFunc("/health", healthCheck(db, serviceName)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())
	producthttp.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return otelhttp.NewHandler(middleware.CORS(mwConfig, router), serviceName+"-http")
}

// healthCheck pings the pool
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func healthCheck(db *gorm.DB, serviceName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			response.JSON(w, http.StatusServiceUnavailable, response.Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		response.OK(w, http.StatusOK, serviceName+" is healthy", nil)
	}
}

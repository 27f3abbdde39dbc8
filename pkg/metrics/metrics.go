package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTP metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_service_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_service_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	HTTPRequestSummary = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "inventory_service_http_request_duration_summary",
			Help: "Summary of HTTP request durations with percentiles",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)
)

// Business metrics
var (
	SalesRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_service_sales_registered_total",
			Help: "Total number of registered sales",
		},
	)

	UnitsSoldTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_service_units_sold_total",
			Help: "Total number of product units sold",
		},
	)

	SalesRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_service_sales_revenue_total",
			Help: "Sum of total values of registered sales",
		},
	)

	SalePartialFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_service_sale_partial_failures_total",
			Help: "Sales committed whose follow-up side effects failed",
		},
	)

	// Per-product stock lives in the database; this only tracks its distribution.
	StockLevels = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_service_stock_level",
			Help:    "Quantity on hand left by each stock-changing operation",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000},
		},
		[]string{"operation"},
	)

	OperationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_service_operation_errors_total",
			Help: "Total number of failed business operations by error kind",
		},
		[]string{"operation", "kind"},
	)

	StockAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_service_stock_alerts_total",
			Help: "Stock change events that left a product low or out of stock",
		},
		[]string{"level"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestSummary,
		SalesRegisteredTotal,
		UnitsSoldTotal,
		SalesRevenueTotal,
		SalePartialFailuresTotal,
		StockLevels,
		OperationErrorsTotal,
		StockAlertsTotal,
	)
}

// ObserveHTTP records one finished request.
func ObserveHTTP(method, endpoint string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
	HTTPRequestSummary.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ObserveStock records the quantity a product was left with after operation.
func ObserveStock(operation string, quantity int) {
	StockLevels.WithLabelValues(operation).Observe(float64(quantity))
}

// RecordSale counts a committed sale.
func RecordSale(quantity int, totalValue float64) {
	SalesRegisteredTotal.Inc()
	UnitsSoldTotal.Add(float64(quantity))
	SalesRevenueTotal.Add(totalValue)
}

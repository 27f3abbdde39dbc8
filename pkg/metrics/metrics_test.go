package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTP_CountsByStatus(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/metrics-test", "404"))

	ObserveHTTP(http.MethodGet, "/metrics-test", http.StatusNotFound, 5*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/metrics-test", "404"))
	assert.Equal(t, before+1, after)
}

func stockSamples(t *testing.T, operation string) *dto.Histogram {
	t.Helper()
	var m dto.Metric
	require.NoError(t, StockLevels.WithLabelValues(operation).(prometheus.Metric).Write(&m))
	return m.GetHistogram()
}

func TestObserveStock_OneSeriesPerOperation(t *testing.T) {
	before := stockSamples(t, "adjust").GetSampleCount()

	for quantity := 0; quantity < 50; quantity++ {
		ObserveStock("adjust", quantity)
	}

	h := stockSamples(t, "adjust")
	assert.Equal(t, before+50, h.GetSampleCount())
	assert.InDelta(t, 1225, h.GetSampleSum(), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(StockLevels))
}

func TestRecordSale(t *testing.T) {
	sales := testutil.ToFloat64(SalesRegisteredTotal)
	units := testutil.ToFloat64(UnitsSoldTotal)
	revenue := testutil.ToFloat64(SalesRevenueTotal)

	RecordSale(2, 20)

	assert.Equal(t, sales+1, testutil.ToFloat64(SalesRegisteredTotal))
	assert.Equal(t, units+2, testutil.ToFloat64(UnitsSoldTotal))
	assert.InDelta(t, revenue+20, testutil.ToFloat64(SalesRevenueTotal), 1e-9)
}

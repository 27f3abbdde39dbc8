package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-ledger/pkg/apperror"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestError_ValidationCarriesField(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperror.Invalid("price", "must be >= 0"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "price", resp.Field)
	assert.Equal(t, "invalid price: must be >= 0", resp.Error)
}

func TestError_StorageIsMasked(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperror.Storage("insert product", errors.New("disk I/O error at /var/lib/db")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec).Error)
}

func TestError_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, fmt.Errorf("sale %w", apperror.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusCreated, "created", map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "created", resp.Message)
}

func TestJSON_UnencodablePayloadBecomesInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusCreated, "Sale registered", map[string]float64{"total_value": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Internal server error", resp.Error)
	assert.Nil(t, resp.Data)
}

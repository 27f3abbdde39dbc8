package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   error
		status int
	}{
		{"validation", Invalid("price", "must be >= 0"), ErrValidation, http.StatusBadRequest},
		{"not found", fmt.Errorf("product %w", ErrNotFound), ErrNotFound, http.StatusNotFound},
		{"duplicate", fmt.Errorf("product name %w", ErrDuplicate), ErrDuplicate, http.StatusConflict},
		{"conflict", fmt.Errorf("stock: %w", ErrConflict), ErrConflict, http.StatusConflict},
		{"storage", Storage("insert product", errors.New("disk full")), ErrStorage, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Kind(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestValidationError_ExposesField(t *testing.T) {
	err := fmt.Errorf("create product: %w", Invalid("name", "must not be empty"))

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
	assert.Contains(t, err.Error(), "invalid name: must not be empty")
}

func TestStorage_KeepsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Storage("update sale", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Storage("noop", nil))
}

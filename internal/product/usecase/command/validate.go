package command

import (
	"math"
	"strings"

	"github.com/tair/inventory-ledger/pkg/apperror"
)

// productFields are the user-editable columns shared by create and update.
type productFields struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
}

func (f productFields) normalize() (productFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	if f.Name == "" {
		return f, apperror.Invalid("name", "product name is required")
	}
	if math.IsNaN(f.Price) || math.IsInf(f.Price, 0) {
		return f, apperror.Invalid("price", "price must be a finite number")
	}
	if f.Price < 0 {
		return f, apperror.Invalid("price", "price cannot be negative")
	}
	if f.Quantity < 0 {
		return f, apperror.Invalid("quantity", "quantity cannot be negative")
	}
	return f, nil
}

package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tair/inventory-ledger/pkg/apperror"
	"github.com/tair/inventory-ledger/pkg/logger"
)

// Response is the envelope every API endpoint writes.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Warning string      `json:"warning,omitempty"`
	Field   string      `json:"field,omitempty"`
}

// internalError is written when a payload cannot be encoded.
var internalError = []byte(`{"success":false,"error":"Internal server error"}`)

// JSON writes payload with status. A payload that fails to encode is logged
// and replaced by a 500 envelope.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Logger.Error().Err(err).Int("status", status).Msg("Failed to encode response")
		status, body = http.StatusInternalServerError, internalError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// OK writes a successful envelope.
func OK(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, Response{Success: true, Message: message, Data: data})
}

// BadRequest writes a 400 for malformed input that never reached a service.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, Response{Success: false, Error: message})
}

// Error maps err onto a status code. Storage failures are not echoed to clients.
func Error(w http.ResponseWriter, err error) {
	status := apperror.HTTPStatus(err)
	resp := Response{Success: false, Error: err.Error()}
	if status == http.StatusInternalServerError {
		resp.Error = "Internal server error"
	}

	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}

	JSON(w, status, resp)
}

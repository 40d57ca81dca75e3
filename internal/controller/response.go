package controller

import (
	"errors"
	"net/http"

	"github.com/bluclinic/appointment-service/internal/apperror"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type responseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(responseDTO{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// writeClientError reports request-shape problems the error taxonomy does
// not cover, like unparseable bodies or a non-numeric id.
func writeClientError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(responseDTO{
		Success: false,
		Message: message,
	})
}

// writeError maps the error taxonomy to status codes. Anything outside the
// taxonomy is a storage or infrastructure failure and surfaces as a 500
// without leaking detail to the client.
func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	message := "something went wrong"

	switch {
	case errors.Is(err, apperror.ErrInvalidRange), errors.Is(err, apperror.ErrInvalidInput):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperror.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperror.ErrAlreadyTaken):
		code = http.StatusConflict
		message = err.Error()
	case errors.Is(err, apperror.ErrCannotDeleteTaken):
		code = http.StatusNotAcceptable
		message = err.Error()
	default:
		logger.Error("Request failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(responseDTO{
		Success: false,
		Message: message,
	})
}

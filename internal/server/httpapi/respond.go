package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps the sentinel error taxonomy to HTTP statuses.
// Unknown errors become an opaque 500; details stay in the log.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrDuplicateContact):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNoCredentials),
		errors.Is(err, common.ErrNoRecipients),
		errors.Is(err, common.ErrNoDecryptableCredentials):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

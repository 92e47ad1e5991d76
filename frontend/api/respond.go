package api

import (
	"encoding/json"
	"net/http"

	"partelog/infrastructure/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps the error taxonomy onto HTTP statuses. Not-found wins over
// permission errors upstream, so the 404/403 split here is mechanical.
func writeError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	status := http.StatusInternalServerError
	message := "operation failed"
	switch {
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
		message = apperr.MessageOf(err)
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
		message = apperr.MessageOf(err)
	case apperr.IsPermissionDenied(err):
		status = http.StatusForbidden
		message = apperr.MessageOf(err)
	case apperr.IsIntegrity(err):
		status = http.StatusConflict
		message = apperr.MessageOf(err)
	}
	if code == "" {
		code = "internal_error"
	}
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

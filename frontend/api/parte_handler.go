package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	sessioncontext "partelog/frontend/shared/context"
	"partelog/infrastructure/apperr"
	"partelog/reports"
)

// GetParteHandler returns one parte with its rutas.
func GetParteHandler(repo *reports.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := sessioncontext.GetScopeFromContext(r.Context())
		if !ok {
			writeError(w, apperr.PermissionDenied("authentication required"))
			return
		}
		id, err := parteID(r)
		if err != nil {
			writeError(w, apperr.Validation("invalid parte id"))
			return
		}

		parte, err := repo.GetParte(r.Context(), scope, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, parteToJSON(parte.Parte, parte.Rutas))
	}
}

// UpdateParteHandler replaces a parte's fields and rutas from the JSON body.
func UpdateParteHandler(repo *reports.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := sessioncontext.GetScopeFromContext(r.Context())
		if !ok {
			writeError(w, apperr.PermissionDenied("authentication required"))
			return
		}
		id, err := parteID(r)
		if err != nil {
			writeError(w, apperr.Validation("invalid parte id"))
			return
		}

		var payload ParteUpdateJSON
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, apperr.Validation("invalid JSON body"))
			return
		}
		if err := repo.UpdateParte(r.Context(), scope, id, payload.toInput()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// DeleteParteHandler removes a parte and its rutas.
func DeleteParteHandler(repo *reports.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := sessioncontext.GetScopeFromContext(r.Context())
		if !ok {
			writeError(w, apperr.PermissionDenied("authentication required"))
			return
		}
		id, err := parteID(r)
		if err != nil {
			writeError(w, apperr.Validation("invalid parte id"))
			return
		}

		if err := repo.DeleteParte(r.Context(), scope, id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Parte eliminado correctamente"})
	}
}

// ListDayHandler returns the caller's partes for one calendar date.
func ListDayHandler(repo *reports.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := sessioncontext.GetScopeFromContext(r.Context())
		if !ok {
			writeError(w, apperr.PermissionDenied("authentication required"))
			return
		}
		fecha := chi.URLParam(r, "date")

		partes, err := repo.ListDay(r.Context(), scope, fecha)
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]ParteJSON, 0, len(partes))
		for _, p := range partes {
			out = append(out, parteToJSON(p, nil))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parteID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

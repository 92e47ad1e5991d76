package repartidor

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sessioncontext "partelog/frontend/shared/context"
	"partelog/frontend/shared/flash"
	"partelog/infrastructure/apperr"
	"partelog/infrastructure/cache"
	"partelog/reports"
)

// ParteMensualCommandHandler recomputes the caller's monthly summary from
// that month's partes and stores it, replacing any previous run.
func ParteMensualCommandHandler(repo *reports.Repository, flashes *cache.FlashCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := sessioncontext.GetScopeFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if err := r.ParseForm(); err != nil {
			flash.Push(w, r, flashes, flash.SeverityError, "Formulario inválido", "No se pudo leer el formulario.")
			http.Redirect(w, r, "/repartidor", http.StatusSeeOther)
			return
		}

		year, errY := strconv.Atoi(strings.TrimSpace(r.FormValue("year")))
		month, errM := strconv.Atoi(strings.TrimSpace(r.FormValue("month")))
		back := "/repartidor"
		if errY == nil && errM == nil {
			back = fmt.Sprintf("/repartidor?year=%d&month=%d", year, month)
		}
		if errY != nil || errM != nil {
			flash.Push(w, r, flashes, flash.SeverityError, "Periodo inválido", "Año y mes son obligatorios.")
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}

		summary, err := repo.RecomputeMensual(r.Context(), scope, year, month, r.FormValue("observaciones_mes"))
		if err != nil {
			if apperr.IsValidation(err) {
				flash.Push(w, r, flashes, flash.SeverityError, "Periodo inválido", apperr.MessageOf(err))
			} else {
				flash.Push(w, r, flashes, flash.SeverityError, "Error al guardar", "No se pudo guardar el parte mensual.")
			}
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}

		flash.Push(w, r, flashes, flash.SeveritySuccess, "¡Parte mensual guardado!",
			fmt.Sprintf("El resumen de %s %d se ha generado con %d días trabajados.",
				MonthName(month), year, summary.TotalDiasTrabajados))
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

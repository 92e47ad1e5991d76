package repartidor

import (
	"net/http"
	"strconv"
	"time"

	sessioncontext "partelog/frontend/shared/context"
	"partelog/frontend/shared/flash"
	"partelog/frontend/shared/nav"
	"partelog/infrastructure/cache"
	"partelog/reports"
)

// PanelQueryHandler renders the month view for the logged-in repartidor.
// year/month default to the current month; garbage values fall back the same
// way instead of erroring.
func PanelQueryHandler(repo *reports.Repository, flashes *cache.FlashCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		scope, ok := sessioncontext.GetScopeFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		now := time.Now()
		year := queryInt(r, "year", now.Year())
		month := queryInt(r, "month", int(now.Month()))
		if month < 1 || month > 12 {
			month = int(now.Month())
		}
		if year < 2000 || year > 2100 {
			year = now.Year()
		}

		desde, hasta := reports.MonthBounds(year, month)
		partes, err := repo.ListUserRange(r.Context(), scope, desde, hasta)
		if err != nil {
			http.Error(w, "failed to load partes", http.StatusInternalServerError)
			return
		}
		totals := reports.SumPartes(partes)

		mensual, hasMensual, err := repo.GetMensual(r.Context(), scope, year, month)
		if err != nil {
			http.Error(w, "failed to load monthly summary", http.StatusInternalServerError)
			return
		}

		data := PanelData{
			Nav:            nav.BuildTopNavData(session),
			Notices:        flash.Drain(r, flashes),
			Year:           year,
			Month:          month,
			Weeks:          BuildMonthGrid(year, month, partes, now),
			TotalKm:        totals.Km,
			TotalHoras:     totals.Horas,
			TotalGastos:    totalGastos(totals),
			DiasTrabajados: len(partes),
			Mensual:        mensual,
			HasMensual:     hasMensual,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := GetPanelScreen(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render panel", http.StatusInternalServerError)
			return
		}
	}
}

func totalGastos(t reports.MensualTotals) float64 {
	return t.Dietas + t.Alojamiento + t.TransporteBilletes + t.Gasolina +
		t.Comida + t.OtrosConsumiciones + t.Material + t.OtrosGastos
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

package admin

import (
	"net/http"
	"time"

	sessioncontext "partelog/frontend/shared/context"
	"partelog/frontend/shared/flash"
	"partelog/frontend/shared/nav"
	"partelog/infrastructure/cache"
	"partelog/infrastructure/sqlite"
	"partelog/reports"
)

// PanelQueryHandler renders the company view: every repartidor's partes in
// the selected range plus per-driver aggregates.
func PanelQueryHandler(db *sqlite.DB, repo *reports.Repository, flashes *cache.FlashCache) http.HandlerFunc {
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

		filter := filterFromQuery(r, time.Now())
		rows, err := repo.ListCompanyRange(r.Context(), scope, filter)
		if err != nil {
			http.Error(w, "failed to load partes", http.StatusInternalServerError)
			return
		}
		stats, err := repo.CompanyRepartidorStats(r.Context(), scope, filter)
		if err != nil {
			http.Error(w, "failed to load stats", http.StatusInternalServerError)
			return
		}
		company, err := loadCompany(r.Context(), db, scope.CompanyID)
		if err != nil {
			http.Error(w, "failed to load company", http.StatusInternalServerError)
			return
		}

		data := PanelData{
			Nav:     nav.BuildTopNavData(session),
			Notices: flash.Drain(r, flashes),
			Company: company,
			Filter:  filter,
			Stats:   stats,
			Partes:  rows,
		}
		for _, row := range rows {
			data.TotalKm += row.KmDiferencia
			data.TotalHoras += row.Horas
			data.TotalGastos += row.TotalGastos()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := GetAdminScreen(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render admin panel", http.StatusInternalServerError)
			return
		}
	}
}

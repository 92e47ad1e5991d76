package admin

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"partelog/reports"
)

// filterFromQuery builds the admin range filter from user_id/desde/hasta
// query params. Missing or malformed dates fall back to the 1st..28th of the
// current month; a malformed user_id just drops the filter.
func filterFromQuery(r *http.Request, now time.Time) reports.AdminFilter {
	f := reports.AdminFilter{
		Desde: strings.TrimSpace(r.URL.Query().Get("desde")),
		Hasta: strings.TrimSpace(r.URL.Query().Get("hasta")),
	}

	defaultDesde := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(reports.DateLayout)
	defaultHasta := time.Date(now.Year(), now.Month(), 28, 0, 0, 0, 0, time.UTC).Format(reports.DateLayout)
	if f.Desde == "" {
		f.Desde = defaultDesde
	}
	if f.Hasta == "" {
		f.Hasta = defaultHasta
	}
	if f.Validate() != nil {
		f.Desde = defaultDesde
		f.Hasta = defaultHasta
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.UserID = &id
		}
	}
	return f
}

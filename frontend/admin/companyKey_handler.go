package admin

import (
	"net/http"
	"strconv"

	sessioncontext "partelog/frontend/shared/context"
	"partelog/infrastructure/sqlite"
)

// CompanyKeyPNGHandler serves the company enrollment key as a Code128
// barcode so admins can print it for the depot noticeboard.
func CompanyKeyPNGHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := sessioncontext.GetScopeFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		company, err := loadCompany(r.Context(), db, scope.CompanyID)
		if err != nil {
			http.Error(w, "failed to load company", http.StatusInternalServerError)
			return
		}

		pngBytes, err := renderCode128PNG(company.CompanyKey, 600, 160)
		if err != nil {
			http.Error(w, "failed to render barcode", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(pngBytes)))
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(pngBytes)
	}
}

package login

import (
	"net/http"

	"partelog/frontend/shared/flash"
	"partelog/infrastructure/cache"
)

// GetLoginScreenHandler renders the login screen with any queued notices.
func GetLoginScreenHandler(flashes *cache.FlashCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notices := flash.Drain(r, flashes)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := GetLoginScreen(notices).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render login screen", http.StatusInternalServerError)
			return
		}
	}
}

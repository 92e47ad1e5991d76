package login

import (
	"net/http"

	"partelog/frontend/shared/flash"
	"partelog/infrastructure/cache"
	sessioncookie "partelog/infrastructure/session"
	"partelog/infrastructure/sqlite"
)

// LogoutHandler removes session state and clears the cookie.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, flashes *cache.FlashCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			sessionCache.DeleteSessionBySessionToken(cookie.Value)
			_ = DeleteSessionByToken(r.Context(), db, cookie.Value)
		}
		flash.Push(w, r, flashes, flash.SeveritySuccess, "Sesión cerrada", "Has cerrado sesión correctamente.")
		http.SetCookie(w, sessioncookie.SessionCookie("", -1))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

package login

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"partelog/frontend/shared/flash"
	"partelog/infrastructure/cache"
	"partelog/infrastructure/rbac"
	sessioncookie "partelog/infrastructure/session"
	"partelog/infrastructure/sqlite"
	"partelog/models"
)

// CreateLoginHandler authenticates company + username + password and issues
// a session cookie. All failures land back on /login with a flash notice.
func CreateLoginHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, flashes *cache.FlashCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fail := func(title, body string) {
			flash.Push(w, r, flashes, flash.SeverityError, title, body)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}

		if err := r.ParseForm(); err != nil {
			fail("Formulario inválido", "No se pudo leer el formulario de acceso.")
			return
		}

		company := strings.TrimSpace(r.FormValue("company"))
		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))
		if company == "" || username == "" || password == "" {
			fail("Datos incompletos", "Empresa, usuario y contraseña son obligatorios.")
			return
		}

		user, err := authenticateUser(r.Context(), db, company, username, password)
		if err != nil {
			switch {
			case errors.Is(err, ErrCompanyNotFound):
				fail("Empresa no encontrada", fmt.Sprintf("La empresa '%s' no existe.", company))
			case errors.Is(err, ErrBadCredentials):
				fail("Credenciales incorrectas", "El usuario o la contraseña son incorrectos.")
			default:
				fail("Error de autenticación", "No se pudo iniciar sesión. Inténtalo de nuevo.")
			}
			return
		}

		session := newSession(user)
		if err := persistSession(r.Context(), db, session); err != nil {
			fail("Error de sesión", "No se pudo crear la sesión.")
			return
		}
		sessionCache.AddSession(session)

		flash.Push(w, r, flashes, flash.SeveritySuccess, "¡Bienvenido!",
			fmt.Sprintf("Has iniciado sesión como %s.", user.Role))
		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, 12*60*60))
		if user.Role == string(rbac.RoleAdmin) {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/repartidor", http.StatusSeeOther)
	}
}

func newSession(user models.User) models.Session {
	return models.Session{
		ID:        newSessionToken(),
		UserID:    user.ID,
		User:      user,
		ExpiresAt: sessioncookie.DefaultExpiry(),
	}
}

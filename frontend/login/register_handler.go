package login

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"partelog/frontend/shared/flash"
	"partelog/infrastructure/apperr"
	"partelog/infrastructure/cache"
	"partelog/infrastructure/sqlite"
)

// GetRegisterScreenHandler renders the register screen.
func GetRegisterScreenHandler(flashes *cache.FlashCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notices := flash.Drain(r, flashes)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := GetRegisterScreen(notices).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render register screen", http.StatusInternalServerError)
			return
		}
	}
}

// CreateRegisterHandler handles both register modes. role=admin creates a
// fresh company and shows its enrollment key once; anything else enrolls a
// repartidor into an existing company by key.
func CreateRegisterHandler(db *sqlite.DB, flashes *cache.FlashCache, globalUsernames bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fail := func(title, body string) {
			flash.Push(w, r, flashes, flash.SeverityError, title, body)
			http.Redirect(w, r, "/register", http.StatusSeeOther)
		}

		if err := r.ParseForm(); err != nil {
			fail("Formulario inválido", "No se pudo leer el formulario de registro.")
			return
		}

		company := strings.TrimSpace(r.FormValue("company"))
		companyKey := strings.TrimSpace(r.FormValue("company_key"))
		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))
		role := strings.TrimSpace(r.FormValue("role"))

		if role == "admin" {
			key, err := RegisterCompanyAdmin(r.Context(), db, company, username, password, globalUsernames)
			if err != nil {
				switch apperr.CodeOf(err) {
				case apperr.CodeDuplicateCompany:
					fail("Empresa ya existe", fmt.Sprintf("La empresa '%s' ya está registrada. Si eres repartidor, únete con la clave de empresa.", company))
				case apperr.CodeDuplicateUsername:
					fail("Usuario ya existe", fmt.Sprintf("El nombre de usuario '%s' ya está en uso.", username))
				case apperr.CodeValidation:
					fail("Datos incompletos", apperr.MessageOf(err))
				default:
					fail("Error de registro", "No se pudo completar el registro.")
				}
				return
			}
			flash.Push(w, r, flashes, flash.SeveritySuccess, "¡Empresa creada!",
				fmt.Sprintf("Empresa '%s' creada correctamente. Clave de empresa: %s", company, key))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		err := RegisterRepartidor(r.Context(), db, company, companyKey, username, password, globalUsernames)
		if err != nil {
			switch {
			case errors.Is(err, ErrCompanyNotFound):
				fail("Empresa no encontrada", fmt.Sprintf("La empresa '%s' no existe.", company))
			case errors.Is(err, ErrBadCompanyKey):
				fail("Clave incorrecta", "La clave de empresa es incorrecta. Contacta con tu administrador.")
			case apperr.CodeOf(err) == apperr.CodeDuplicateUsername:
				fail("Usuario ya existe", fmt.Sprintf("El nombre de usuario '%s' ya está en uso.", username))
			case apperr.IsValidation(err):
				fail("Datos incompletos", apperr.MessageOf(err))
			default:
				fail("Error de registro", "No se pudo completar el registro.")
			}
			return
		}
		flash.Push(w, r, flashes, flash.SeveritySuccess, "¡Registro exitoso!",
			fmt.Sprintf("Te has registrado correctamente en '%s'. Ya puedes iniciar sesión.", company))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

package login

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"partelog/frontend/shared/html"
	"partelog/infrastructure/cache"
)

// GetLoginScreen renders the company-scoped login form.
func GetLoginScreen(notices []cache.Notice) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := html.FlashList(notices).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<main class="auth">
<h1>Iniciar sesión</h1>
<form method="POST" action="/login">
  <label>Empresa<input type="text" name="company" required autofocus></label>
  <label>Usuario<input type="text" name="username" required></label>
  <label>Contraseña<input type="password" name="password" required></label>
  <button type="submit">Entrar</button>
</form>
<p><a href="/register">Crear empresa o unirse como repartidor</a></p>
</main>`)
		return err
	})
	return html.Layout("Login", body)
}

// GetRegisterScreen renders the dual-mode register form: create a company as
// admin, or join an existing one with its key as repartidor.
func GetRegisterScreen(notices []cache.Notice) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := html.FlashList(notices).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<main class="auth">
<h1>Registro</h1>
<form method="POST" action="/register">
  <fieldset>
    <legend>Tipo de cuenta</legend>
    <label><input type="radio" name="role" value="admin"> Administrador (crear empresa)</label>
    <label><input type="radio" name="role" value="repartidor" checked> Repartidor (unirse a empresa)</label>
  </fieldset>
  <label>Empresa<input type="text" name="company" required></label>
  <label>Clave de empresa<input type="text" name="company_key" placeholder="solo repartidores"></label>
  <label>Usuario<input type="text" name="username" required></label>
  <label>Contraseña<input type="password" name="password" required></label>
  <button type="submit">Registrarse</button>
</form>
<p><a href="/login">Volver al login</a></p>
</main>`)
		return err
	})
	return html.Layout("Registro", body)
}

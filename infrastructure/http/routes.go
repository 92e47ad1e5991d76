package http

import (
	"github.com/go-chi/chi/v5"

	adminpage "partelog/frontend/admin"
	"partelog/frontend/api"
	"partelog/frontend/login"
	"partelog/frontend/repartidor"
	"partelog/infrastructure/rbac"
)

// RegisterAuthRoutes registers login/logout/register routes. They live
// outside the authenticated group.
func (s *Server) RegisterAuthRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler(s.Flashes))
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.Flashes))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache, s.Flashes))
	s.router.Get("/register", login.GetRegisterScreenHandler(s.Flashes))
	s.router.Post("/register", login.CreateRegisterHandler(s.DB, s.Flashes, s.Options.GlobalUsernames))
}

// RegisterPanelRoutes registers everything behind a session: the repartidor
// panel, the admin panel with its exports, and the JSON API.
func (s *Server) RegisterPanelRoutes() {
	s.router.Group(func(r chi.Router) {
		r.Use(s.AuthenticateMiddleware)

		r.Route("/repartidor", func(r chi.Router) {
			r.With(s.RequireRole(rbac.RoleRepartidor)).
				Get("/", repartidor.PanelQueryHandler(s.Repo, s.Flashes))
			// Admins may file partes too (covering for an absent driver).
			r.Post("/parte", repartidor.SaveParteCommandHandler(s.Repo, s.Flashes))
			r.With(s.RequireRole(rbac.RoleRepartidor)).
				Post("/parte-mensual", repartidor.ParteMensualCommandHandler(s.Repo, s.Flashes))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.RequireRole(rbac.RoleAdmin))
			r.Get("/", adminpage.PanelQueryHandler(s.DB, s.Repo, s.Flashes))
			r.Get("/export/excel", adminpage.ExportExcelHandler(s.Repo))
			r.Get("/export/pdf", adminpage.ExportPDFHandler(s.Repo))
			r.Get("/company-key.png", adminpage.CompanyKeyPNGHandler(s.DB))
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/parte/{id}", api.GetParteHandler(s.Repo))
			r.Put("/parte/{id}", api.UpdateParteHandler(s.Repo))
			r.Delete("/parte/{id}", api.DeleteParteHandler(s.Repo))
			r.Get("/partes-dia/{date}", api.ListDayHandler(s.Repo))
		})
	})
}

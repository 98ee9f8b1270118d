package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/pos-identity/internal/auth"
	"github.com/frahmantamala/pos-identity/internal/module"
	"github.com/frahmantamala/pos-identity/internal/role"
	"github.com/frahmantamala/pos-identity/internal/transport/middleware"
	"github.com/frahmantamala/pos-identity/internal/transport/openapi"
	"github.com/frahmantamala/pos-identity/internal/transport/swagger"
)

const documentPath = "/openapi.yml"

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	Roles      *role.Handler
	Modules    *module.Handler
	RBAC       *auth.RBACAuthorization
	Validator  *openapi.Validator
	DB         *sqlx.DB
	CORSOrigin string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(h.DB)
	body := h.Validator.Body

	router.Use(middleware.CORS(h.CORSOrigin))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get(documentPath, openapi.ServeDocument)
	router.Handle("/swagger/*", swagger.Handler(documentPath))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/modules", func(mr chi.Router) {
			mr.Get("/", h.Modules.ListModules)
			mr.Post("/seed", h.Modules.SeedModules)
		})

		r.Route("/auth", func(ar chi.Router) {
			ar.With(body("/auth/register/business", http.MethodPost)).Post("/register/business", h.Auth.RegisterBusiness)
			ar.With(body("/auth/login", http.MethodPost)).Post("/login", h.Auth.Login)
			ar.With(body("/auth/verify", http.MethodPost)).Post("/verify", h.Auth.Verify)

			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Use(h.RBAC.RequireModule(module.Employees))
				pr.With(body("/auth/register/employee", http.MethodPost)).Post("/register/employee", h.Auth.RegisterEmployee)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/business", h.Auth.GetBusiness)

			pr.With(h.RBAC.RequireModule(module.Employees)).Get("/employees", h.Auth.ListEmployees)

			pr.Group(func(rr chi.Router) {
				rr.Use(h.RBAC.RequireModule(module.Roles))

				rr.With(body("/employees/{employeeID}/role", http.MethodPut)).Put("/employees/{employeeID}/role", h.Roles.AssignRole)

				rr.Route("/roles", func(sr chi.Router) {
					sr.Get("/", h.Roles.ListRoles)
					sr.With(body("/roles", http.MethodPost)).Post("/", h.Roles.CreateRole)
					sr.Post("/defaults", h.Roles.CreateDefaultRoles)
					sr.Get("/{roleID}", h.Roles.GetRole)
					sr.With(body("/roles/{roleID}", http.MethodPatch)).Patch("/{roleID}", h.Roles.UpdateRole)
					sr.Delete("/{roleID}", h.Roles.DeleteRole)
				})
			})
		})
	})
}

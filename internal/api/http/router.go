package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/appointment-service/internal/api/http/handlers"
	"github.com/spec-kit/appointment-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Account        *handlers.AccountHandler
	Clients        *handlers.ClientsHandler
	Catalog        *handlers.CatalogHandler
	Appointments   *handlers.AppointmentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Policy         *auth.Policy
	Metrics        http.Handler
}

// RegisterRoutes wires HTTP routes. Every operation is authorized again in
// the service layer; the route guards only reject obviously unauthorized
// callers early.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAction(cfg.Policy, auth.ActionViewAdminDashboard))
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.CreateUser)
	admin.Put("/users/:id", cfg.Admin.UpdateUser)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
	admin.Post("/users/:id/block", cfg.Admin.BlockUser)
	admin.Post("/users/:id/unblock", cfg.Admin.UnblockUser)
	admin.Put("/users/:id/role", cfg.Admin.ChangeRole)
	admin.Post("/users/:id/promote", cfg.Admin.PromoteToProprietor)
	admin.Post("/users/:id/security-alert", cfg.Admin.SecurityAlert)
	admin.Post("/payments", cfg.Admin.RecordPayment)
	admin.Post("/transactions", cfg.Admin.RecordTransaction)
	admin.Post("/events", cfg.Admin.CreateEvent)
	admin.Post("/specialists", cfg.Admin.CreateSpecialist)
	admin.Delete("/appointments/:id", cfg.Admin.DeleteAppointment)

	// Signed-in routes carry their guard per route. Group middleware matches by
	// path prefix, which would also catch unrelated and unknown paths.
	requireAuth := auth.RequireAuthenticated()
	signedIn := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, requireAuth, h}
	}

	app.Get("/me", signedIn(cfg.Account.Profile)...)
	app.Patch("/me", signedIn(cfg.Account.UpdateProfile)...)
	app.Get("/me/dashboard", signedIn(cfg.Account.UserDashboard)...)
	app.Post("/me/testimonials", signedIn(cfg.Account.AddTestimonial)...)
	app.Post("/me/comments", signedIn(cfg.Account.AddComment)...)
	app.Get("/testimonials", signedIn(cfg.Account.Testimonials)...)

	app.Get("/proprietor/dashboard", signedIn(cfg.Account.ProprietorDashboard)...)

	app.Get("/notifications", signedIn(cfg.Account.Notifications)...)
	app.Post("/notifications/:id/read", signedIn(cfg.Account.MarkNotificationRead)...)
	app.Get("/messages", signedIn(cfg.Account.Messages)...)
	app.Post("/messages", signedIn(cfg.Account.SendMessage)...)

	app.Get("/clients", signedIn(cfg.Clients.List)...)
	app.Post("/clients", signedIn(cfg.Clients.Create)...)
	app.Put("/clients/:id", signedIn(cfg.Clients.Update)...)
	app.Delete("/clients/:id", signedIn(cfg.Clients.Delete)...)

	app.Get("/services", signedIn(cfg.Catalog.ListServices)...)
	app.Post("/services", signedIn(cfg.Catalog.CreateService)...)
	app.Put("/services/:id", signedIn(cfg.Catalog.UpdateService)...)
	app.Delete("/services/:id", signedIn(cfg.Catalog.DeleteService)...)
	app.Get("/specialists", signedIn(cfg.Catalog.ListSpecialists)...)
	app.Get("/events", signedIn(cfg.Catalog.ListEvents)...)
	app.Post("/events/:id/register", signedIn(cfg.Catalog.RegisterForEvent)...)

	app.Get("/appointments", signedIn(cfg.Appointments.List)...)
	app.Post("/appointments", signedIn(cfg.Appointments.Create)...)
}

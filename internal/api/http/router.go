package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/salon-crm/internal/api/http/handlers"
	"github.com/spec-kit/salon-crm/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Clients        *handlers.ClientsHandler
	Appointments   *handlers.AppointmentsHandler
	WhatsApp       *handlers.WhatsAppHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/users", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	protected.Get("/users/:id", cfg.Users.GetUser)

	protected.Post("/clients", cfg.Clients.CreateClient)
	protected.Get("/clients", cfg.Clients.ListClients)
	protected.Get("/clients/:id", cfg.Clients.GetClient)
	protected.Patch("/clients/:id", cfg.Clients.UpdateClient)
	protected.Delete("/clients/:id", cfg.Clients.DeleteClient)

	protected.Post("/appointments", cfg.Appointments.CreateAppointment)
	protected.Get("/appointments", cfg.Appointments.ListAppointments)
	protected.Get("/appointments/conflict", cfg.Appointments.CheckConflict)
	protected.Get("/appointments/:id", cfg.Appointments.GetAppointment)
	protected.Patch("/appointments/:id", cfg.Appointments.UpdateAppointment)
	protected.Delete("/appointments/:id", cfg.Appointments.DeleteAppointment)

	protected.Post("/whatsapp/send-template", cfg.WhatsApp.SendTemplate)
}

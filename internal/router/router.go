package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/openacad/acadledger-api/internal/config"
	"github.com/openacad/acadledger-api/internal/handler"
	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/middleware"
	"github.com/openacad/acadledger-api/internal/models"
	"github.com/openacad/acadledger-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Ledger            ledger.Ledger
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	GradingHandler    *handler.GradingHandler
	MaterialHandler   *handler.MaterialHandler
	RosterHandler     *handler.RosterHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application. The role checks
// resolve against the ledger on every request, so a revoked role takes effect
// immediately.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	professorOnly := middleware.RequireRole(deps.Ledger, models.RoleProfessor, models.RoleAdmin)
	studentOnly := middleware.RequireRole(deps.Ledger, models.RoleStudent)
	adminOnly := middleware.RequireRole(deps.Ledger, models.RoleAdmin)

	assignments := app.Group("/api/assignments", jwtMiddleware)

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(assignments, professorOnly)
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(assignments, studentOnly,
			middleware.RateLimit("submit", cfg.SubmitRateMax, cfg.SubmitRateEvery))
	}

	if deps.GradingHandler != nil {
		deps.GradingHandler.Register(assignments, professorOnly,
			middleware.RateLimit("decrypt", cfg.SubmitRateMax, cfg.SubmitRateEvery))
	}

	if deps.MaterialHandler != nil {
		materials := app.Group("/api/materials", jwtMiddleware)
		deps.MaterialHandler.Register(materials, professorOnly)
	}

	if deps.RosterHandler != nil {
		admin := app.Group("/api/admin", jwtMiddleware, adminOnly)
		deps.RosterHandler.Register(admin)
	}
}

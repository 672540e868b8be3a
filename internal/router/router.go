package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushq/exam-portal-api/internal/config"
	"github.com/campushq/exam-portal-api/internal/handler"
	"github.com/campushq/exam-portal-api/internal/middleware"
	"github.com/campushq/exam-portal-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ExamHandler        *handler.ExamHandler
	StudentExamHandler *handler.StudentExamHandler
	RosterHandler      *handler.RosterHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.RosterHandler != nil {
		deps.RosterHandler.Register(api.Group("/students"))
	}

	teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole(middleware.RoleTeacher))
	if deps.RosterHandler != nil {
		deps.RosterHandler.RegisterTeacherRoutes(teacher.Group("/students"))
	}
	if deps.ExamHandler != nil {
		deps.ExamHandler.Register(teacher.Group("/exams"))
	}

	if deps.StudentExamHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(middleware.RoleStudent))
		deps.StudentExamHandler.Register(student)
	}
}

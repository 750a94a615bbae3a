package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/b-learning-api/internal/config"
	"github.com/noah-isme/b-learning-api/internal/handler"
	"github.com/noah-isme/b-learning-api/internal/observability"
)

// Dependencies groups router dependencies for registration. Nil handlers are skipped.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	ModuleHandler     *handler.ModuleHandler
	LectureHandler    *handler.LectureHandler
	AssignmentHandler *handler.AssignmentHandler
	StudentHandler    *handler.StudentHandler
	EnrollmentHandler *handler.EnrollmentHandler
	SubmissionHandler *handler.SubmissionHandler
	SeedHandler       *handler.SeedHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	health := handler.HealthCheck(cfg)
	app.Get("/health", health)
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", health)

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api.Group("/courses"))
	}
	if deps.ModuleHandler != nil {
		deps.ModuleHandler.Register(api.Group("/modules"))
	}
	if deps.LectureHandler != nil {
		deps.LectureHandler.Register(api.Group("/lectures"))
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(api.Group("/assignments"))
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students"))
	}
	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(api.Group("/enrollments"))
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(api.Group("/submissions"))
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed"))
	}
}

package server

import (
	"context"
	"log"

	"disease-predictor-be/internal/bootstrap"
	"disease-predictor-be/internal/config"
	"disease-predictor-be/internal/pkg/serverutils"
	"disease-predictor-be/internal/pkg/view"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024, // 1MB
		// Parsed values outlive the request as store keys and session owners.
		Immutable:    true,
		Views:        view.NewEngine(!cfg.IsProduction()),
		ErrorHandler: serverutils.ErrorHandler(container.Logger),
	})

	app.Use(recover.New())

	// OpenTelemetry tracing middleware (no-op unless a provider is installed)
	app.Use(otelfiber.Middleware())
	app.Use(serverutils.RequestLogger(container.Logger))
	app.Use(serverutils.SessionMiddleware(container.SessionService, cfg.Session.CookieName))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.PageController.RegisterRoutes(app)
	c.AuthController.RegisterRoutes(app)
	c.PredictionController.RegisterRoutes(app)
}

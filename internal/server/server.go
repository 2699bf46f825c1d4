package server

import (
	"log"

	"raw-ai-be/internal/bootstrap"
	"raw-ai-be/internal/config"
	"raw-ai-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ErrorHandler: serverutils.ErrorHandler,
	})

	app.Use(cors.New(corsConfig(cfg.App.CorsAllowedOrigins)))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

// corsConfig allows credentials only for an explicit origin list; browsers reject
// credentials with a wildcard origin.
func corsConfig(origins string) cors.Config {
	if origins == "" {
		origins = "*"
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: origins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Admin-Token",
		AllowMethods:     "GET, POST, PUT, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.DetectorController.RegisterRoutes(api)
	c.HumanizeController.RegisterRoutes(api)
	c.PaymentController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api)
}

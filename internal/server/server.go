package server

import (
	"companion-chat-be/internal/bootstrap"
	"companion-chat-be/internal/config"
	"companion-chat-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024, // 1MB, chat payloads only
		ErrorHandler: serverutils.ErrorHandler(container.Logger, cfg.IsProduction()),
	})

	app.Use(recover.New())

	policy := serverutils.NewOriginPolicy(cfg.App.CorsAllowedOrigins, cfg.App.CorsTrustedOriginSuffix)
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: policy.Allowed,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"ok": true})
	})

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
	s.container.Logger.Info("server", "listening", map[string]interface{}{
		"port": s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")
	api.Use(c.IdentityResolver)

	c.AuthController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
}

package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"mdc-notebook-be/internal/bootstrap"
	"mdc-notebook-be/internal/config"
	"mdc-notebook-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// apiPrefixes are never answered with the frontend shell.
var apiPrefixes = []string{
	"/auth",
	"/users",
	"/organizations",
	"/notebooks",
	"/dashboard",
	"/run-notebook",
	"/list-notebooks",
	"/run-status",
}

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             10 * 1024 * 1024, // 10MB
		ErrorHandler:          serverutils.ErrorHandler(container.Logger),
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type, Authorization",
	}))
	app.Use(otelfiber.Middleware())

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("Hello testing")
	})

	registerRoutes(app, container)
	registerFrontend(app, cfg.App.FrontendDistPath)

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
	s.container.Logger.Info("SERVER", "Server is running", map[string]interface{}{
		"addr": "http://localhost:" + s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.AuthController.RegisterRoutes(app)
	c.UserController.RegisterRoutes(app)
	c.OrganizationController.RegisterRoutes(app)
	c.NotebookController.RegisterRoutes(app)
	c.RunController.RegisterRoutes(app)
}

// registerFrontend serves the built single page app. Static files come first;
// any other GET without a file extension outside the API gets index.html so
// client-side routes survive a reload.
func registerFrontend(app *fiber.App, distPath string) {
	app.Static("/", distPath)

	index := filepath.Join(distPath, "index.html")
	app.Use(func(ctx *fiber.Ctx) error {
		if !isFrontendRoute(ctx.Method(), ctx.Path()) {
			return ctx.Next()
		}
		if _, err := os.Stat(index); err != nil {
			return ctx.Next()
		}
		return ctx.SendFile(index)
	})
}

func isFrontendRoute(method, path string) bool {
	if method != fiber.MethodGet && method != fiber.MethodHead {
		return false
	}
	if strings.Contains(path, ".") {
		return false
	}
	for _, prefix := range apiPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return false
		}
	}
	return true
}

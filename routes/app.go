package routes

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
)

// NewApp builds the HTTP application with every route group registered.
func NewApp(frontendURL string, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "LearnSphere",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  errorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: frontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		MaxAge:       86400,
	}))
	app.Use(recover.New())
	if accessLog {
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to LearnSphere API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	Register(app)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	message := err.Error()
	if code == fiber.StatusInternalServerError {
		slog.Error("unhandled request error", "path", c.Path(), "method", c.Method(), "error", err)
		message = "Server error"
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"code":    code,
		"message": message,
	})
}

func Register(app *fiber.App) {
	api := app.Group("/api")

	AuthRoutes(api)
	CourseRoutes(api)
	TestRoutes(api)
	TestSubmissionRoutes(api)
	FeedbackRoutes(api)
	AssignmentRoutes(api)
	VideoProgressRoutes(api)
	UploadRoutes(api)
	CertificateRoutes(api)
}

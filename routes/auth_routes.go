package routes

import (
	"github.com/anjiri1684/learnsphere/handlers"
	"github.com/anjiri1684/learnsphere/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router) {
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RegisterRateLimiter(), handlers.RegisterUser)
	auth.Post("/login", middleware.LoginRateLimiter(), handlers.LoginUser)
	auth.Get("/me", middleware.Protected(), handlers.GetMe)
}

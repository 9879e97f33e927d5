package handlers

import (
	"log/slog"

	"github.com/anjiri1684/learnsphere/middleware"
	"github.com/anjiri1684/learnsphere/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var validate = validator.New()

func currentIdentity(c *fiber.Ctx) (services.Identity, error) {
	userID, role, err := middleware.CurrentUser(c)
	if err != nil {
		return services.Identity{}, err
	}
	return services.Identity{UserID: userID, Role: role}, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
}

// parseID reads a UUID path parameter.
func parseID(c *fiber.Ctx, param, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, services.Validation(message)
	}
	return id, nil
}

// respondError maps service error kinds onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "Server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return services.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return services.Validation(err.Error())
	}
	return nil
}

package middleware

import (
	"strings"

	config "github.com/anjiri1684/learnsphere/configs"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var errMissingClaims = errors.New("missing token claims")

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.EqualFold(err.Error(), "Missing or malformed JWT") {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// CurrentUser returns the id and role carried by the verified access token.
func CurrentUser(c *fiber.Ctx) (uuid.UUID, string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, "", errMissingClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", errMissingClaims
	}
	rawID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", errors.Wrap(err, "parse user_id claim")
	}
	return userID, role, nil
}

func requireRole(role, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, current, err := CurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
		}
		if current != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": message})
		}
		return c.Next()
	}
}

func TeacherRequired() fiber.Handler {
	return requireRole(models.RoleTeacher, "Forbidden: Teacher access required")
}

func StudentRequired() fiber.Handler {
	return requireRole(models.RoleStudent, "Forbidden: Student access required")
}

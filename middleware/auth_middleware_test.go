package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anjiri1684/learnsphere/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func signed(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newApp(t *testing.T) *fiber.App {
	t.Setenv("JWT_SECRET", testSecret)
	app := fiber.New()
	app.Get("/me", Protected(), func(c *fiber.Ctx) error {
		userID, role, err := CurrentUser(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": userID, "role": role})
	})
	app.Get("/teachers", Protected(), TeacherRequired(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/students", Protected(), StudentRequired(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestProtected(t *testing.T) {
	app := newApp(t)

	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "not.a.jwt"))
	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", signed(t, uuid.New(), models.RoleStudent)))
}

func TestRoleGates(t *testing.T) {
	app := newApp(t)
	teacher := signed(t, uuid.New(), models.RoleTeacher)
	student := signed(t, uuid.New(), models.RoleStudent)

	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/teachers", teacher))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/teachers", student))
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/students", student))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/students", teacher))
}

package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anjiri1684/learnsphere/database/dbtest"
	"github.com/anjiri1684/learnsphere/handlers"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "routes-test-secret"

func newTestServer(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)
	db := dbtest.NewTestDB(t)
	handlers.SetCertificateIssuer(func(*gorm.DB, uuid.UUID, uuid.UUID) {})
	t.Cleanup(func() { handlers.SetCertificateIssuer(nil) })
	return NewApp("*", false), db
}

type certificateCheck struct {
	StudentID uuid.UUID
	CourseID  uuid.UUID
}

// recordCertificateChecks captures every completion check the handlers start.
func recordCertificateChecks(t *testing.T) <-chan certificateCheck {
	t.Helper()
	checks := make(chan certificateCheck, 16)
	handlers.SetCertificateIssuer(func(_ *gorm.DB, studentID, courseID uuid.UUID) {
		checks <- certificateCheck{StudentID: studentID, CourseID: courseID}
	})
	return checks
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// call sends a JSON request and decodes the JSON response into out when out is non-nil.
func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type errorBody struct {
	Error string `json:"error"`
}

package handlers

import (
	"log/slog"

	config "github.com/anjiri1684/learnsphere/configs"
	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

func RequireWebSocketUpgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// authorizeProctor checks that claims belong to the teacher who owns testID.
func authorizeProctor(claims jwt.MapClaims, testID uuid.UUID) (uuid.UUID, error) {
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, errors.New("Invalid user ID")
	}
	if role, _ := claims["role"].(string); role != models.RoleTeacher {
		return uuid.Nil, errors.New("Forbidden: Teacher access required")
	}

	var test models.Test
	if err := database.DB.Select("id", "teacher_id").First(&test, "id = ?", testID).Error; err != nil {
		return uuid.Nil, errors.New("Test not found")
	}
	if test.TeacherID != userID {
		return uuid.Nil, errors.New("Not your test")
	}
	return userID, nil
}

// ServeProctorWs streams a test's suspicious activity to its teacher. The
// first frame must be {"type":"auth","token":"..."}.
func ServeProctorWs(c *websocketcontrib.Conn) {
	testID, err := uuid.Parse(c.Params("testId"))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid test ID"})
		c.Close()
		return
	}

	var auth authMessage
	if err := c.ReadJSON(&auth); err != nil || auth.Type != "auth" {
		slog.Warn("proctor websocket auth failed: invalid or missing auth message", "test_id", testID, "error", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(auth.Token)
	if err != nil {
		slog.Warn("proctor websocket auth failed: invalid token", "test_id", testID, "error", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	userID, err := authorizeProctor(claims, testID)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": err.Error()})
		c.Close()
		return
	}

	if err := c.WriteJSON(fiber.Map{"type": "ready", "testId": testID}); err != nil {
		c.Close()
		return
	}

	client := &websocket.Client{TestID: testID, UserID: userID, Conn: c}
	if !websocket.Proctor.Join(client) {
		_ = c.WriteJSON(fiber.Map{"error": "Server is shutting down"})
		c.Close()
		return
	}
	defer func() {
		websocket.Proctor.Leave(client)
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				slog.Warn("proctor websocket read error", "test_id", testID, "user_id", userID, "error", err)
			}
			return
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

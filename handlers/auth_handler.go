package handlers

import (
	"log/slog"
	"strings"
	"time"

	config "github.com/anjiri1684/learnsphere/configs"
	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student teacher Student Teacher"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func signToken(user models.User) (string, error) {
	expiry := time.Duration(config.ConfigInt("JWT_EXPIRY_HOURS")) * time.Hour
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	newUser := models.User{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashedPassword),
		Role:     strings.ToLower(req.Role),
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User already exists"})
		}
		slog.Error("failed to create user", "email", newUser.Email, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	token, err := signToken(newUser)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	if notifications.Enabled() {
		go notifications.SendEmail(newUser.Name, newUser.Email, "Welcome to LearnSphere!",
			"<h1>Welcome!</h1><p>Thank you for registering with LearnSphere.</p>")
	}

	slog.Info("user registered", "user_id", newUser.ID, "role", newUser.Role)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user": UserResponse{
			ID:    newUser.ID.String(),
			Name:  newUser.Name,
			Email: newUser.Email,
			Role:  newUser.Role,
		},
	})
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	var user models.User
	if err := database.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := signToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	return c.JSON(fiber.Map{"token": token})
}

func GetMe(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", who.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

package handlers

import (
	"log/slog"
	"time"

	"github.com/anjiri1684/learnsphere/services"
	"github.com/gofiber/fiber/v2"
)

var uploadKinds = map[string]bool{"video": true, "assignment": true}

// GenerateUploadSignature creates a signature for a direct browser upload to the media host.
func GenerateUploadSignature(c *fiber.Ctx) error {
	kind := c.Query("kind", "video")
	if !uploadKinds[kind] {
		return respondError(c, services.Validation("kind must be video or assignment"))
	}

	signature, err := services.SignUpload(services.MediaFolder(kind+"s"), time.Now())
	if err != nil {
		slog.Error("failed to sign upload", "kind", kind, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}
	return c.JSON(signature)
}

package handlers

import (
	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CertificateIssuer checks course completion after progress is recorded. It
// runs in its own goroutine.
type CertificateIssuer func(db *gorm.DB, studentID, courseID uuid.UUID)

var certificateIssuer CertificateIssuer = services.CheckAndGenerateCertificate

func SetCertificateIssuer(issuer CertificateIssuer) {
	if issuer == nil {
		issuer = services.CheckAndGenerateCertificate
	}
	certificateIssuer = issuer
}

func GetMyCertificates(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	var certificates []models.Certificate
	if err := database.DB.Where("student_id = ?", who.UserID).Order("completion_date desc").Find(&certificates).Error; err != nil {
		return respondError(c, errors.Wrap(err, "list certificates"))
	}
	return c.JSON(certificates)
}

package handlers

import (
	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/services"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GradeRequest struct {
	Grade *int `json:"grade" validate:"required"`
}

func GetTestSubmissions(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	testID, err := parseID(c, "testId", "Invalid test ID")
	if err != nil {
		return respondError(c, err)
	}

	var test models.Test
	if err := database.DB.Select("id", "course_id", "teacher_id").First(&test, "id = ?", testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, services.NotFound("Test not found"))
		}
		return respondError(c, errors.Wrap(err, "load test"))
	}

	query := database.DB.Preload("Student").Where("test_id = ?", test.ID).Order("submitted_at asc")
	switch who.Role {
	case models.RoleTeacher:
		if test.TeacherID != who.UserID {
			return respondError(c, services.Forbidden("Not your test"))
		}
	case models.RoleStudent:
		enrolled, err := services.IsEnrolled(c.UserContext(), database.DB, test.CourseID, who.UserID)
		if err != nil {
			return respondError(c, err)
		}
		if !enrolled {
			return respondError(c, services.Forbidden("Not enrolled in this test"))
		}
		query = query.Where("student_id = ?", who.UserID)
	default:
		return respondError(c, services.Forbidden("Invalid role"))
	}

	var submissions []models.TestSubmission
	if err := query.Find(&submissions).Error; err != nil {
		return respondError(c, errors.Wrap(err, "list submissions"))
	}

	views := make([]SubmissionView, 0, len(submissions))
	for _, s := range submissions {
		views = append(views, newSubmissionView(s))
	}
	return c.JSON(views)
}

func GradeSubmission(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	submissionID, err := parseID(c, "submissionId", "Invalid submission ID")
	if err != nil {
		return respondError(c, err)
	}

	var req GradeRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	submission, err := services.GradeSubmission(c.UserContext(), database.DB, submissionID, who, *req.Grade)
	if err != nil {
		return respondError(c, err)
	}
	if err := database.DB.First(&submission.Student, "id = ?", submission.StudentID).Error; err != nil {
		return respondError(c, errors.Wrap(err, "load student"))
	}
	return c.JSON(newSubmissionView(*submission))
}

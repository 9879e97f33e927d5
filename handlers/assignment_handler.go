package handlers

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const maxAssignmentFileSize = 50 << 20

type AssignmentSubmissionRequest struct {
	Assignment string  `json:"assignment" validate:"required"`
	Response   string  `json:"response" validate:"required"`
	VideoURL   *string `json:"videoUrl" validate:"omitempty,url"`
	WordURL    *string `json:"wordUrl" validate:"omitempty,url"`
	PdfURL     *string `json:"pdfUrl" validate:"omitempty,url"`
}

type AssignmentSubmissionView struct {
	models.AssignmentSubmission
	Student models.UserRef `json:"student"`
}

func newAssignmentSubmissionView(s models.AssignmentSubmission) AssignmentSubmissionView {
	student := s.Student.Ref()
	student.ID = s.StudentID
	return AssignmentSubmissionView{AssignmentSubmission: s, Student: student}
}

func GetAssignmentSubmissions(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseID(c, "courseId", "Invalid course ID")
	if err != nil {
		return respondError(c, err)
	}
	course, err := loadCourse(courseID)
	if err != nil {
		return respondError(c, err)
	}
	if err := authorizeCourseReader(c, course, who); err != nil {
		return respondError(c, err)
	}

	query := database.DB.Preload("Student").Where("course_id = ?", course.ID).Order("submitted_at asc")
	if who.Role == models.RoleStudent {
		query = query.Where("student_id = ?", who.UserID)
	}

	var submissions []models.AssignmentSubmission
	if err := query.Find(&submissions).Error; err != nil {
		return respondError(c, errors.Wrap(err, "list assignment submissions"))
	}

	views := make([]AssignmentSubmissionView, 0, len(submissions))
	for _, s := range submissions {
		views = append(views, newAssignmentSubmissionView(s))
	}
	return c.JSON(views)
}

func SubmitAssignment(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseID(c, "courseId", "Invalid course ID")
	if err != nil {
		return respondError(c, err)
	}

	var req AssignmentSubmissionRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	course, err := loadCourse(courseID)
	if err != nil {
		return respondError(c, err)
	}
	if err := requireEnrolled(c, course, who); err != nil {
		return respondError(c, err)
	}
	if !course.HasAssignment(req.Assignment) {
		return respondError(c, services.Validation("Invalid assignment"))
	}

	submission := models.AssignmentSubmission{
		CourseID:    course.ID,
		StudentID:   who.UserID,
		Assignment:  req.Assignment,
		Response:    req.Response,
		VideoURL:    req.VideoURL,
		WordURL:     req.WordURL,
		PdfURL:      req.PdfURL,
		SubmittedAt: time.Now(),
	}
	if err := database.DB.Create(&submission).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return respondError(c, services.Conflict("Assignment already submitted"))
		}
		return respondError(c, errors.Wrap(err, "store assignment submission"))
	}
	slog.Info("assignment submitted", "course_id", course.ID, "user_id", who.UserID, "assignment", req.Assignment)
	return c.Status(fiber.StatusCreated).JSON(newAssignmentSubmissionView(submission))
}

// UploadAssignmentFile stores one attachment on the media host and returns its URL
// for use in a later SubmitAssignment call.
func UploadAssignmentFile(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, services.Validation("A file is required"))
	}
	if fileHeader.Size > maxAssignmentFileSize {
		return respondError(c, services.Validation("File is too large"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, errors.Wrap(err, "open upload"))
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(fileHeader.Filename), filepath.Ext(fileHeader.Filename))
	publicID := fmt.Sprintf("%s_%s_%s", who.UserID, uuid.NewString(), name)
	url, err := services.UploadFile(c.UserContext(), file, services.MediaFolder("assignments"), publicID, "auto")
	if err != nil {
		slog.Error("assignment upload failed", "user_id", who.UserID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

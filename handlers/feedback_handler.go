package handlers

import (
	"time"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type FeedbackView struct {
	ID        uuid.UUID      `json:"_id"`
	Course    uuid.UUID      `json:"course"`
	Student   models.UserRef `json:"student"`
	Rating    int            `json:"rating"`
	Comment   string         `json:"comment"`
	CreatedAt time.Time      `json:"createdAt"`
}

func newFeedbackView(f models.Feedback) FeedbackView {
	student := f.Student.Ref()
	student.ID = f.StudentID
	return FeedbackView{
		ID:        f.ID,
		Course:    f.CourseID,
		Student:   student,
		Rating:    f.Rating,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
	}
}

// authorizeCourseReader lets the owning teacher and enrolled students read
// course-scoped records.
func authorizeCourseReader(c *fiber.Ctx, course *models.Course, who services.Identity) error {
	switch who.Role {
	case models.RoleTeacher:
		if course.TeacherID != who.UserID {
			return services.Forbidden("Not your course")
		}
	case models.RoleStudent:
		enrolled, err := services.IsEnrolled(c.UserContext(), database.DB, course.ID, who.UserID)
		if err != nil {
			return err
		}
		if !enrolled {
			return services.Forbidden("Not enrolled in this course")
		}
	default:
		return services.Forbidden("Invalid role")
	}
	return nil
}

func requireEnrolled(c *fiber.Ctx, course *models.Course, who services.Identity) error {
	enrolled, err := services.IsEnrolled(c.UserContext(), database.DB, course.ID, who.UserID)
	if err != nil {
		return err
	}
	if !enrolled {
		return services.Forbidden("Not enrolled in this course")
	}
	return nil
}

func GetCourseFeedback(c *fiber.Ctx) error {
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

	var feedback []models.Feedback
	if err := database.DB.Preload("Student").Where("course_id = ?", course.ID).Order("created_at desc").Find(&feedback).Error; err != nil {
		return respondError(c, errors.Wrap(err, "list feedback"))
	}

	views := make([]FeedbackView, 0, len(feedback))
	for _, f := range feedback {
		views = append(views, newFeedbackView(f))
	}
	return c.JSON(views)
}

func SubmitFeedback(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseID(c, "courseId", "Invalid course ID")
	if err != nil {
		return respondError(c, err)
	}

	var req FeedbackRequest
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

	feedback := models.Feedback{
		CourseID:  course.ID,
		StudentID: who.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := database.DB.Create(&feedback).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return respondError(c, services.Conflict("Feedback already submitted"))
		}
		return respondError(c, errors.Wrap(err, "store feedback"))
	}
	return c.Status(fiber.StatusCreated).JSON(newFeedbackView(feedback))
}

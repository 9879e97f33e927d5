package handlers

import (
	"log/slog"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateCourseRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Videos      []string `json:"videos" validate:"omitempty,dive,url"`
	Assignments []string `json:"assignments" validate:"omitempty,dive,required"`
}

type UpdateCourseContentRequest struct {
	Video      string `json:"video" validate:"omitempty,url"`
	Assignment string `json:"assignment"`
}

func coursesWithPeople(db *gorm.DB) *gorm.DB {
	return db.Preload("Teacher").Preload("EnrolledStudents")
}

func loadCourse(courseID uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := coursesWithPeople(database.DB).First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.NotFound("Course not found")
		}
		return nil, errors.Wrap(err, "load course")
	}
	return &course, nil
}

func GetCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := coursesWithPeople(database.DB).Order("title asc").Find(&courses).Error; err != nil {
		return respondError(c, errors.Wrap(err, "list courses"))
	}
	return c.JSON(newCourseViews(courses))
}

func GetMyCourses(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	query := coursesWithPeople(database.DB).Order("title asc")
	switch who.Role {
	case models.RoleTeacher:
		query = query.Where("teacher_id = ?", who.UserID)
	case models.RoleStudent:
		query = query.Where("id IN (?)", database.DB.Table("course_enrollments").Select("course_id").Where("user_id = ?", who.UserID))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user role: " + who.Role})
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return respondError(c, errors.Wrap(err, "list my courses"))
	}
	return c.JSON(newCourseViews(courses))
}

func GetCourse(c *fiber.Ctx) error {
	courseID, err := parseID(c, "courseId", "Invalid course ID")
	if err != nil {
		return respondError(c, err)
	}
	course, err := loadCourse(courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newCourseView(*course))
}

func CreateCourse(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	course := models.Course{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   who.UserID,
		Videos:      datatypes.JSONSlice[string](orEmpty(req.Videos)),
		Assignments: datatypes.JSONSlice[string](orEmpty(req.Assignments)),
	}
	if err := database.DB.Create(&course).Error; err != nil {
		return respondError(c, errors.Wrap(err, "create course"))
	}

	created, err := loadCourse(course.ID)
	if err != nil {
		return respondError(c, err)
	}
	slog.Info("course created", "course_id", course.ID, "teacher_id", who.UserID)
	return c.Status(fiber.StatusCreated).JSON(newCourseView(*created))
}

func UpdateCourseContent(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseID(c, "courseId", "Invalid course ID")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateCourseContentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	course, err := loadCourse(courseID)
	if err != nil {
		return respondError(c, err)
	}
	if course.TeacherID != who.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your course"})
	}

	if req.Video != "" {
		course.Videos = append(course.Videos, req.Video)
	}
	if req.Assignment != "" {
		course.Assignments = append(course.Assignments, req.Assignment)
	}
	if err := database.DB.Model(&models.Course{}).Where("id = ?", course.ID).
		Updates(map[string]interface{}{"videos": course.Videos, "assignments": course.Assignments}).Error; err != nil {
		return respondError(c, errors.Wrap(err, "update course content"))
	}
	return c.JSON(newCourseView(*course))
}

func EnrollInCourse(c *fiber.Ctx) error {
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

	enrolled, err := services.IsEnrolled(c.UserContext(), database.DB, course.ID, who.UserID)
	if err != nil {
		return respondError(c, err)
	}
	if enrolled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Already enrolled"})
	}

	var student models.User
	if err := database.DB.First(&student, "id = ?", who.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err := database.DB.Model(&models.Course{ID: course.ID}).Association("EnrolledStudents").Append(&student); err != nil {
		return respondError(c, errors.Wrap(err, "enroll student"))
	}

	updated, err := loadCourse(course.ID)
	if err != nil {
		return respondError(c, err)
	}
	slog.Info("student enrolled", "course_id", course.ID, "user_id", who.UserID)
	return c.JSON(newCourseView(*updated))
}

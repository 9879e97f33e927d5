package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/notifications"
	"github.com/anjiri1684/learnsphere/services"
	"github.com/anjiri1684/learnsphere/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var testGenerator services.TestGenerator

// SetTestGenerator installs the generator used by GenerateTest. A nil
// generator disables AI test generation.
func SetTestGenerator(g services.TestGenerator) {
	testGenerator = g
}

var dueDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

type QuestionInput struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

type CreateTestRequest struct {
	CourseID    string          `json:"courseId" validate:"required,uuid"`
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	DueDate     string          `json:"dueDate"`
	Questions   []QuestionInput `json:"questions" validate:"omitempty,dive"`
}

type SubmitTestRequest struct {
	Answers []string `json:"answers"`
}

type SuspiciousActivityRequest struct {
	TestID   string `json:"testId" validate:"required,uuid"`
	UserID   string `json:"userId"`
	Activity string `json:"activity" validate:"required,max=500"`
}

func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, services.Validation("Invalid due date")
}

func testsWithDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Course").
		Preload("Teacher").
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB { return db.Order("submitted_at asc") }).
		Preload("Submissions.Student").
		Preload("SuspiciousActivities", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp asc") })
}

func loadOwnedCourse(courseID uuid.UUID, who services.Identity) (*models.Course, error) {
	course, err := loadCourse(courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != who.UserID {
		return nil, services.Forbidden("Not your course")
	}
	return course, nil
}

func storeTest(test *models.Test) (*models.Test, error) {
	if err := database.DB.Create(test).Error; err != nil {
		return nil, errors.Wrap(err, "create test")
	}
	var stored models.Test
	if err := testsWithDetails(database.DB).First(&stored, "id = ?", test.ID).Error; err != nil {
		return nil, errors.Wrap(err, "reload test")
	}
	return &stored, nil
}

func CreateTest(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateTestRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return respondError(c, err)
	}

	course, err := loadOwnedCourse(uuid.MustParse(req.CourseID), who)
	if err != nil {
		return respondError(c, err)
	}

	test := models.Test{
		CourseID:    course.ID,
		TeacherID:   who.UserID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
	}
	for i, q := range req.Questions {
		question := models.Question{
			Position:      i,
			Text:          q.Question,
			Options:       datatypes.JSONSlice[string](q.Options),
			CorrectAnswer: q.CorrectAnswer,
		}
		if !question.IsWellFormed() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Question %d must have 4 options and a correctAnswer among them", i+1),
			})
		}
		test.Questions = append(test.Questions, question)
	}

	stored, err := storeTest(&test)
	if err != nil {
		return respondError(c, err)
	}
	slog.Info("test created", "test_id", stored.ID, "course_id", course.ID, "questions", len(stored.Questions))
	return c.Status(fiber.StatusCreated).JSON(newTestView(*stored, who.UserID, who.Role))
}

func GenerateTest(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseID(c, "courseId", "Invalid course ID")
	if err != nil {
		return respondError(c, err)
	}

	course, err := loadOwnedCourse(courseID, who)
	if err != nil {
		return respondError(c, err)
	}

	if testGenerator == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrGeneratorDisabled.Error()})
	}
	questions, err := testGenerator.GenerateQuestions(c.UserContext(), course.Title, course.Description)
	if err != nil {
		slog.Error("test generation failed", "course_id", course.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate test"})
	}

	stored, err := storeTest(&models.Test{
		CourseID:  course.ID,
		TeacherID: who.UserID,
		Title:     "Test for " + course.Title,
		Questions: questions,
	})
	if err != nil {
		return respondError(c, err)
	}
	slog.Info("test generated", "test_id", stored.ID, "course_id", course.ID, "questions", len(stored.Questions))
	return c.Status(fiber.StatusCreated).JSON(newTestView(*stored, who.UserID, who.Role))
}

func GetMyTests(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	query := testsWithDetails(database.DB).Order("created_at desc")
	switch who.Role {
	case models.RoleTeacher:
		query = query.Where("teacher_id = ?", who.UserID)
	case models.RoleStudent:
		query = query.Where("course_id IN (?)", database.DB.Table("course_enrollments").Select("course_id").Where("user_id = ?", who.UserID))
	default:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid role"})
	}

	var tests []models.Test
	if err := query.Find(&tests).Error; err != nil {
		return respondError(c, errors.Wrap(err, "list my tests"))
	}
	return c.JSON(newTestViews(tests, who.UserID, who.Role))
}

func GetCourseTests(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseID(c, "courseId", "Invalid course ID")
	if err != nil {
		return respondError(c, err)
	}

	var tests []models.Test
	if err := testsWithDetails(database.DB).Where("course_id = ?", courseID).Order("created_at desc").Find(&tests).Error; err != nil {
		return respondError(c, errors.Wrap(err, "list course tests"))
	}
	return c.JSON(newTestViews(tests, who.UserID, who.Role))
}

func GetTest(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	testID, err := parseID(c, "testId", "Invalid test ID")
	if err != nil {
		return respondError(c, err)
	}

	var test models.Test
	if err := testsWithDetails(database.DB).First(&test, "id = ?", testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, services.NotFound("Test not found"))
		}
		return respondError(c, errors.Wrap(err, "load test"))
	}
	return c.JSON(newTestView(test, who.UserID, who.Role))
}

func SubmitTest(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	testID, err := parseID(c, "testId", "Invalid test ID")
	if err != nil {
		return respondError(c, err)
	}

	var req SubmitTestRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	result, err := services.SubmitTest(c.UserContext(), database.DB, testID, who, req.Answers, time.Now())
	if err != nil {
		return respondError(c, err)
	}

	if notifications.Enabled() {
		go notifyTestResult(who.UserID, testID, result.Score, result.Total)
	}
	go certificateIssuer(database.DB, who.UserID, result.CourseID)
	return c.JSON(result)
}

func notifyTestResult(studentID, testID uuid.UUID, score, total int) {
	var student models.User
	var test models.Test
	db := database.DB.WithContext(context.Background())
	if err := db.First(&student, "id = ?", studentID).Error; err != nil {
		slog.Warn("skipping result email: student not found", "user_id", studentID, "error", err)
		return
	}
	if err := db.Select("id", "title").First(&test, "id = ?", testID).Error; err != nil {
		slog.Warn("skipping result email: test not found", "test_id", testID, "error", err)
		return
	}
	subject, body := notifications.TestResultEmail(test.Title, score, total)
	notifications.SendEmail(student.Name, student.Email, subject, body)
}

func LogSuspiciousActivity(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	var req SuspiciousActivityRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.UserID != "" && req.UserID != who.UserID.String() {
		slog.Warn("suspicious activity reported for another user, recording the caller", "body_user_id", req.UserID, "user_id", who.UserID)
	}

	entry, err := services.LogSuspiciousActivity(c.UserContext(), database.DB, uuid.MustParse(req.TestID), who.UserID, req.Activity, time.Now())
	if err != nil {
		return respondError(c, err)
	}

	websocket.Proctor.Publish(websocket.ActivityEvent{
		TestID:    entry.TestID,
		UserID:    entry.UserID,
		Activity:  entry.Activity,
		Timestamp: entry.Timestamp,
	})
	return c.JSON(fiber.Map{"msg": "Suspicious activity logged"})
}

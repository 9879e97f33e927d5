package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinGrade = 0
	MaxGrade = 100
)

// Identity is the authenticated caller as carried by the access token.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

type SubmissionResult struct {
	Score      int                    `json:"score"`
	Total      int                    `json:"total"`
	CourseID   uuid.UUID              `json:"-"`
	Submission *models.TestSubmission `json:"-"`
}

func questionsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// SubmitTest accepts a student's one and only answer set for a test. The
// checks run in a fixed order and the first failure is returned. The unique
// (test, student) index is what finally decides a race between two
// submissions from the same student.
func SubmitTest(ctx context.Context, db *gorm.DB, testID uuid.UUID, who Identity, answers []string, now time.Time) (*SubmissionResult, error) {
	db = db.WithContext(ctx)
	log := slog.With("test_id", testID, "user_id", who.UserID)

	var test models.Test
	if err := db.Preload("Questions", questionsInOrder).First(&test, "id = ?", testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Test not found")
		}
		return nil, errors.Wrap(err, "load test")
	}

	if who.Role != models.RoleStudent {
		log.Warn("test submission denied: not a student", "role", who.Role)
		return nil, Forbidden("Only students can submit tests")
	}

	enrolled, err := IsEnrolled(ctx, db, test.CourseID, who.UserID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		log.Warn("test submission denied: not enrolled", "course_id", test.CourseID)
		return nil, Forbidden("You are not enrolled in this course")
	}

	var existing int64
	if err := db.Model(&models.TestSubmission{}).
		Where("test_id = ? AND student_id = ?", test.ID, who.UserID).
		Count(&existing).Error; err != nil {
		return nil, errors.Wrap(err, "count submissions")
	}
	if existing > 0 {
		log.Warn("test already submitted")
		return nil, Conflict("You have already submitted this test")
	}

	if test.IsPastDue(now) {
		log.Warn("test submission denied: past due", "due_date", test.DueDate)
		return nil, Forbidden("Test submission is past due")
	}

	score, stored := Score(test.Questions, answers)
	submission := models.TestSubmission{
		TestID:      test.ID,
		StudentID:   who.UserID,
		Answers:     datatypes.JSONSlice[string](stored),
		Score:       score,
		SubmittedAt: now,
	}
	if err := db.Create(&submission).Error; err != nil {
		if database.IsUniqueViolation(err) {
			log.Warn("concurrent duplicate submission rejected")
			return nil, Conflict("You have already submitted this test")
		}
		return nil, errors.Wrap(err, "store submission")
	}

	log.Info("test submitted", "score", score, "total", len(test.Questions))
	return &SubmissionResult{Score: score, Total: len(test.Questions), CourseID: test.CourseID, Submission: &submission}, nil
}

func IsEnrolled(ctx context.Context, db *gorm.DB, courseID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("course_enrollments").
		Where("course_id = ? AND user_id = ?", courseID, studentID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check enrollment")
	}
	return count > 0, nil
}

// GradeSubmission sets a teacher's grade on a submission of one of their tests.
func GradeSubmission(ctx context.Context, db *gorm.DB, submissionID uuid.UUID, who Identity, grade int) (*models.TestSubmission, error) {
	db = db.WithContext(ctx)

	if who.Role != models.RoleTeacher {
		return nil, Forbidden("Only teachers can grade submissions")
	}

	var submission models.TestSubmission
	if err := db.First(&submission, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Submission not found")
		}
		return nil, errors.Wrap(err, "load submission")
	}

	var test models.Test
	if err := db.Select("id", "teacher_id").First(&test, "id = ?", submission.TestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Test not found")
		}
		return nil, errors.Wrap(err, "load test")
	}
	if test.TeacherID != who.UserID {
		return nil, Forbidden("Not your test")
	}

	if grade < MinGrade || grade > MaxGrade {
		return nil, Validation("Grade must be between 0 and 100")
	}

	if err := db.Model(&models.TestSubmission{}).
		Where("id = ?", submission.ID).
		Update("grade", grade).Error; err != nil {
		return nil, errors.Wrap(err, "update grade")
	}
	submission.Grade = &grade

	slog.Info("graded submission", "submission_id", submission.ID, "grade", grade)
	return &submission, nil
}

// LogSuspiciousActivity appends one integrity event to a test's log.
func LogSuspiciousActivity(ctx context.Context, db *gorm.DB, testID, userID uuid.UUID, activity string, now time.Time) (*models.SuspiciousActivity, error) {
	db = db.WithContext(ctx)

	var test models.Test
	if err := db.Select("id").First(&test, "id = ?", testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Test not found")
		}
		return nil, errors.Wrap(err, "load test")
	}

	entry := models.SuspiciousActivity{
		TestID:    test.ID,
		UserID:    userID,
		Activity:  activity,
		Timestamp: now,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, errors.Wrap(err, "store suspicious activity")
	}

	slog.Info("suspicious activity logged", "test_id", testID, "user_id", userID, "activity", activity)
	return &entry, nil
}

package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database and installs it as database.DB
// for the duration of the test.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open("file::memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: databases are per connection.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	previous := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = previous
		_ = sqlDB.Close()
	})
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, name, role string) models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@learnsphere.test",
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func CreateCourse(t testing.TB, db *gorm.DB, teacher models.User, students ...models.User) models.Course {
	t.Helper()

	course := models.Course{
		Title:       "Intro to Go",
		Description: "Types, interfaces and goroutines",
		TeacherID:   teacher.ID,
		Videos:      datatypes.JSONSlice[string]{"https://media.test/v1.mp4", "https://media.test/v2.mp4"},
		Assignments: datatypes.JSONSlice[string]{"Write a CLI"},
	}
	require.NoError(t, db.Create(&course).Error)
	for i := range students {
		require.NoError(t, db.Model(&course).Association("EnrolledStudents").Append(&students[i]))
	}
	return course
}

// CreateTest stores a test whose i-th question has correctAnswers[i] as its answer.
func CreateTest(t testing.TB, db *gorm.DB, course models.Course, dueDate *time.Time, correctAnswers ...string) models.Test {
	t.Helper()

	test := models.Test{
		CourseID:  course.ID,
		TeacherID: course.TeacherID,
		Title:     "Quiz",
		DueDate:   dueDate,
	}
	for i, answer := range correctAnswers {
		test.Questions = append(test.Questions, models.Question{
			Position:      i,
			Text:          fmt.Sprintf("Question %d", i+1),
			Options:       datatypes.JSONSlice[string]{answer, "X", "Y", "Z"},
			CorrectAnswer: answer,
		})
	}
	require.NoError(t, db.Create(&test).Error)
	return test
}

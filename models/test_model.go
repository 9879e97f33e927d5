package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Test struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"_id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	TeacherID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`

	Course               Course               `gorm:"foreignkey:CourseID" json:"-"`
	Teacher              User                 `gorm:"foreignkey:TeacherID" json:"-"`
	Questions            []Question           `gorm:"constraint:OnDelete:CASCADE" json:"questions"`
	Submissions          []TestSubmission     `gorm:"constraint:OnDelete:CASCADE" json:"submissions"`
	SuspiciousActivities []SuspiciousActivity `gorm:"constraint:OnDelete:CASCADE" json:"suspiciousActivities"`

	CreatedAt time.Time `json:"createdAt"`
}

func (t *Test) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsPastDue reports whether now is strictly after the due date. Tests
// without a due date never close.
func (t Test) IsPastDue(now time.Time) bool {
	return t.DueDate != nil && now.After(*t.DueDate)
}

func (t Test) CorrectAnswers() []string {
	answers := make([]string, len(t.Questions))
	for i, q := range t.Questions {
		answers[i] = q.CorrectAnswer
	}
	return answers
}

type TestSubmission struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key" json:"_id"`
	TestID      uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_test_submission_student" json:"test"`
	StudentID   uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_test_submission_student" json:"-"`
	Answers     datatypes.JSONSlice[string] `gorm:"not null" json:"answers"`
	Score       int                         `gorm:"not null" json:"score"`
	Grade       *int                        `json:"grade,omitempty"`
	SubmittedAt time.Time                   `gorm:"not null" json:"submittedAt"`

	Student User `gorm:"foreignkey:StudentID" json:"-"`
}

func (s *TestSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SuspiciousActivity struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	TestID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"userId"`
	Activity  string    `gorm:"type:text;not null" json:"activity"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

func (a *SuspiciousActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

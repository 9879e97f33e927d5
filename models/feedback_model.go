package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_course_student" json:"course"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_course_student" json:"-"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`

	Student User `gorm:"foreignkey:StudentID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

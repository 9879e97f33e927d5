package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_student_course" json:"student"`
	CourseID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_student_course" json:"course"`
	CourseTitle    string    `gorm:"size:255;not null" json:"courseTitle"`
	TeacherName    string    `gorm:"size:255;not null" json:"teacherName"`
	CompletionDate time.Time `gorm:"not null" json:"completionDate"`
	CertificateURL string    `gorm:"type:text;not null" json:"certificateUrl"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

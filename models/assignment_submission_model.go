package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentSubmission struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_submission" json:"course"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_submission" json:"-"`
	Assignment  string    `gorm:"size:255;not null;uniqueIndex:idx_assignment_submission" json:"assignment"`
	Response    string    `gorm:"type:text;not null" json:"response"`
	VideoURL    *string   `gorm:"type:text" json:"videoUrl,omitempty"`
	WordURL     *string   `gorm:"type:text" json:"wordUrl,omitempty"`
	PdfURL      *string   `gorm:"type:text" json:"pdfUrl,omitempty"`
	SubmittedAt time.Time `gorm:"not null" json:"submittedAt"`

	Student User `gorm:"foreignkey:StudentID" json:"-"`
}

func (s *AssignmentSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

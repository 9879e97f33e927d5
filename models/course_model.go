package models

import (
	"slices"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key" json:"_id"`
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	TeacherID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"-"`
	Videos      datatypes.JSONSlice[string] `json:"videos"`
	Assignments datatypes.JSONSlice[string] `json:"assignments"`

	Teacher          User    `gorm:"foreignkey:TeacherID" json:"teacher"`
	EnrolledStudents []*User `gorm:"many2many:course_enrollments;" json:"enrolledStudents"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c Course) HasAssignment(title string) bool {
	return slices.Contains(c.Assignments, title)
}

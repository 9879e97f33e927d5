package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserRef is the populated form of a user reference: id and display name only.
type UserRef struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name}
}

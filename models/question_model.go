package models

import (
	"slices"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const OptionsPerQuestion = 4

type Question struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primary_key" json:"_id"`
	TestID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"-"`
	Position      int                         `gorm:"not null" json:"-"`
	Text          string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectAnswer string                      `gorm:"type:text;not null" json:"correctAnswer"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// IsWellFormed reports whether q has text, exactly four options and a
// correct answer that is one of them.
func (q Question) IsWellFormed() bool {
	return q.Text != "" &&
		len(q.Options) == OptionsPerQuestion &&
		q.CorrectAnswer != "" &&
		slices.Contains(q.Options, q.CorrectAnswer)
}

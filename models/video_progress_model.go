package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VideoProgress struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"_id"`
	StudentID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_video_progress" json:"student"`
	CourseID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_video_progress" json:"course"`
	VideoIndex int        `gorm:"not null;uniqueIndex:idx_video_progress" json:"videoIndex"`
	Watched    bool       `gorm:"not null;default:false" json:"watched"`
	WatchedAt  *time.Time `json:"watchedAt,omitempty"`
}

func (p *VideoProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

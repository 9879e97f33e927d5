package handlers

import (
	"strconv"
	"time"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/services"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

func GetVideoProgress(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseID(c, "courseId", "Invalid course ID")
	if err != nil {
		return respondError(c, err)
	}
	course, err := loadCourse(courseID)
	if err != nil {
		return respondError(c, err)
	}

	var progress []models.VideoProgress
	if err := database.DB.
		Where("student_id = ? AND course_id = ?", who.UserID, course.ID).
		Order("video_index asc").
		Find(&progress).Error; err != nil {
		return respondError(c, errors.Wrap(err, "list video progress"))
	}
	return c.JSON(progress)
}

func MarkVideoWatched(c *fiber.Ctx) error {
	who, err := currentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseID(c, "courseId", "Invalid course ID")
	if err != nil {
		return respondError(c, err)
	}
	course, err := loadCourse(courseID)
	if err != nil {
		return respondError(c, err)
	}

	videoIndex, err := strconv.Atoi(c.Params("videoIndex"))
	if err != nil || videoIndex < 0 || videoIndex >= len(course.Videos) {
		return respondError(c, services.Validation("Invalid video index"))
	}

	now := time.Now()
	progress := models.VideoProgress{
		StudentID:  who.UserID,
		CourseID:   course.ID,
		VideoIndex: videoIndex,
		Watched:    true,
		WatchedAt:  &now,
	}
	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}, {Name: "video_index"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched", "watched_at"}),
	}).Create(&progress).Error; err != nil {
		return respondError(c, errors.Wrap(err, "store video progress"))
	}

	var stored models.VideoProgress
	if err := database.DB.
		Where("student_id = ? AND course_id = ? AND video_index = ?", who.UserID, course.ID, videoIndex).
		First(&stored).Error; err != nil {
		return respondError(c, errors.Wrap(err, "reload video progress"))
	}

	go certificateIssuer(database.DB, who.UserID, course.ID)
	return c.JSON(stored)
}

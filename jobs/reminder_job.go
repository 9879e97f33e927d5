package jobs

import (
	"log/slog"
	"time"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/notifications"
	"gorm.io/gorm"
)

type dueReminder struct {
	Test     models.Test
	Students []*models.User
}

// pendingDueReminders finds tests due roughly one day after now together with
// the enrolled students who have not submitted yet. The window matches the
// five-minute cron interval so every test is picked up once.
func pendingDueReminders(db *gorm.DB, now time.Time) ([]dueReminder, error) {
	lowerBound := now.Add(24 * time.Hour)
	upperBound := lowerBound.Add(5 * time.Minute)

	var tests []models.Test
	err := db.
		Preload("Course.EnrolledStudents").
		Preload("Submissions").
		Where("due_date >= ? AND due_date < ?", lowerBound, upperBound).
		Find(&tests).Error
	if err != nil {
		return nil, err
	}

	var reminders []dueReminder
	for _, test := range tests {
		submitted := make(map[string]bool, len(test.Submissions))
		for _, s := range test.Submissions {
			submitted[s.StudentID.String()] = true
		}

		reminder := dueReminder{Test: test}
		for _, student := range test.Course.EnrolledStudents {
			if !submitted[student.ID.String()] {
				reminder.Students = append(reminder.Students, student)
			}
		}
		if len(reminder.Students) > 0 {
			reminders = append(reminders, reminder)
		}
	}
	return reminders, nil
}

func SendDueDateReminders() {
	slog.Info("running job", "job", "SendDueDateReminders")

	reminders, err := pendingDueReminders(database.DB, time.Now())
	if err != nil {
		slog.Error("error checking for upcoming due dates", "error", err)
		return
	}

	for _, reminder := range reminders {
		test := reminder.Test
		subject, body := notifications.DueDateReminderEmail(test.Title, test.Course.Title, *test.DueDate)
		for _, student := range reminder.Students {
			go notifications.SendEmail(student.Name, student.Email, subject, body)
		}
		slog.Info("sent due date reminders", "test_id", test.ID, "students", len(reminder.Students))
	}
}

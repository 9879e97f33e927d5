package jobs

import (
	"log/slog"
	"time"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/anjiri1684/learnsphere/notifications"
	"gorm.io/gorm"
)

type closedTestSummary struct {
	Test        models.Test
	Submissions int64
	Suspicious  int64
}

// closedTestSummaries collects tests whose due date passed between 5 and 10
// minutes before now. The window is one cron period wide and half-open so
// consecutive runs never pick up the same test.
func closedTestSummaries(db *gorm.DB, now time.Time) ([]closedTestSummary, error) {
	upperBound := now.Add(-5 * time.Minute)
	lowerBound := upperBound.Add(-5 * time.Minute)

	var tests []models.Test
	err := db.
		Preload("Teacher").
		Where("due_date >= ? AND due_date < ?", lowerBound, upperBound).
		Find(&tests).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]closedTestSummary, 0, len(tests))
	for _, test := range tests {
		summary := closedTestSummary{Test: test}
		if err := db.Model(&models.TestSubmission{}).Where("test_id = ?", test.ID).Count(&summary.Submissions).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&models.SuspiciousActivity{}).Where("test_id = ?", test.ID).Count(&summary.Suspicious).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func SummarizeClosedTests() {
	slog.Info("running job", "job", "SummarizeClosedTests")

	summaries, err := closedTestSummaries(database.DB, time.Now())
	if err != nil {
		slog.Error("error checking for closed tests", "error", err)
		return
	}

	if len(summaries) == 0 {
		slog.Debug("no recently closed tests found")
		return
	}

	for _, summary := range summaries {
		teacher := summary.Test.Teacher
		subject, body := notifications.ClosedTestSummaryEmail(summary.Test.Title, summary.Submissions, summary.Suspicious)
		go notifications.SendEmail(teacher.Name, teacher.Email, subject, body)
	}

	slog.Info("sent closed test summaries", "tests", len(summaries))
}

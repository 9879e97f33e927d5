package jobs

import (
	"testing"
	"time"

	"github.com/anjiri1684/learnsphere/database/dbtest"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func at(t time.Time) *time.Time { return &t }

func TestPendingDueReminders(t *testing.T) {
	db := dbtest.NewTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	teacher := dbtest.CreateUser(t, db, "Tess Teacher", "teacher")
	done := dbtest.CreateUser(t, db, "Done Student", "student")
	pending := dbtest.CreateUser(t, db, "Pending Student", "student")
	course := dbtest.CreateCourse(t, db, teacher, done, pending)

	dueTomorrow := dbtest.CreateTest(t, db, course, at(now.Add(24*time.Hour+2*time.Minute)), "A")
	dbtest.CreateTest(t, db, course, at(now.Add(48*time.Hour)), "A")
	dbtest.CreateTest(t, db, course, nil, "A")

	require.NoError(t, db.Create(&models.TestSubmission{
		TestID:      dueTomorrow.ID,
		StudentID:   done.ID,
		Answers:     datatypes.JSONSlice[string]{"A"},
		Score:       1,
		SubmittedAt: now,
	}).Error)

	reminders, err := pendingDueReminders(db, now)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, dueTomorrow.ID, reminders[0].Test.ID)
	assert.Equal(t, course.Title, reminders[0].Test.Course.Title)
	require.Len(t, reminders[0].Students, 1)
	assert.Equal(t, pending.ID, reminders[0].Students[0].ID)
}

func TestPendingDueReminders_EveryoneSubmitted(t *testing.T) {
	db := dbtest.NewTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	teacher := dbtest.CreateUser(t, db, "Tess Teacher", "teacher")
	course := dbtest.CreateCourse(t, db, teacher)
	dbtest.CreateTest(t, db, course, at(now.Add(24*time.Hour+time.Minute)), "A")

	reminders, err := pendingDueReminders(db, now)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestClosedTestSummaries(t *testing.T) {
	db := dbtest.NewTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	teacher := dbtest.CreateUser(t, db, "Tess Teacher", "teacher")
	student := dbtest.CreateUser(t, db, "Sam Student", "student")
	course := dbtest.CreateCourse(t, db, teacher, student)

	closed := dbtest.CreateTest(t, db, course, at(now.Add(-8*time.Minute)), "A", "B")
	dbtest.CreateTest(t, db, course, at(now.Add(-time.Minute)), "A")
	dbtest.CreateTest(t, db, course, at(now.Add(-time.Hour)), "A")

	require.NoError(t, db.Create(&models.TestSubmission{
		TestID:      closed.ID,
		StudentID:   student.ID,
		Answers:     datatypes.JSONSlice[string]{"A", "B"},
		Score:       2,
		SubmittedAt: now.Add(-20 * time.Minute),
	}).Error)
	for _, activity := range []string{"Window lost focus", "Window lost focus"} {
		require.NoError(t, db.Create(&models.SuspiciousActivity{
			TestID:    closed.ID,
			UserID:    student.ID,
			Activity:  activity,
			Timestamp: now.Add(-20 * time.Minute),
		}).Error)
	}

	summaries, err := closedTestSummaries(db, now)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, closed.ID, summaries[0].Test.ID)
	assert.Equal(t, teacher.Email, summaries[0].Test.Teacher.Email)
	assert.EqualValues(t, 1, summaries[0].Submissions)
	assert.EqualValues(t, 2, summaries[0].Suspicious)
}

func TestClosedTestSummaries_OncePerTest(t *testing.T) {
	db := dbtest.NewTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	teacher := dbtest.CreateUser(t, db, "Tess Teacher", "teacher")
	course := dbtest.CreateCourse(t, db, teacher)
	closed := dbtest.CreateTest(t, db, course, at(now.Add(-6*time.Minute)), "A")
	onBoundary := dbtest.CreateTest(t, db, course, at(now.Add(-5*time.Minute)), "A")

	seen := map[string]int{}
	for tick := 0; tick < 4; tick++ {
		summaries, err := closedTestSummaries(db, now.Add(time.Duration(tick)*5*time.Minute))
		require.NoError(t, err)
		for _, summary := range summaries {
			seen[summary.Test.ID.String()]++
		}
	}

	assert.Equal(t, 1, seen[closed.ID.String()])
	assert.Equal(t, 1, seen[onBoundary.ID.String()])
}

package handlers

import (
	"time"

	"github.com/anjiri1684/learnsphere/models"
	"github.com/google/uuid"
)

type CourseRef struct {
	ID    uuid.UUID `json:"_id"`
	Title string    `json:"title"`
}

type CourseView struct {
	ID               uuid.UUID        `json:"_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Teacher          models.UserRef   `json:"teacher"`
	Videos           []string         `json:"videos"`
	Assignments      []string         `json:"assignments"`
	EnrolledStudents []models.UserRef `json:"enrolledStudents"`
}

func newCourseView(course models.Course) CourseView {
	view := CourseView{
		ID:               course.ID,
		Title:            course.Title,
		Description:      course.Description,
		Teacher:          course.Teacher.Ref(),
		Videos:           orEmpty(course.Videos),
		Assignments:      orEmpty(course.Assignments),
		EnrolledStudents: make([]models.UserRef, 0, len(course.EnrolledStudents)),
	}
	for _, student := range course.EnrolledStudents {
		view.EnrolledStudents = append(view.EnrolledStudents, student.Ref())
	}
	return view
}

func newCourseViews(courses []models.Course) []CourseView {
	views := make([]CourseView, 0, len(courses))
	for _, course := range courses {
		views = append(views, newCourseView(course))
	}
	return views
}

type QuestionView struct {
	ID            uuid.UUID `json:"_id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correctAnswer,omitempty"`
}

type SubmissionView struct {
	ID          uuid.UUID      `json:"_id"`
	Test        uuid.UUID      `json:"test"`
	Student     models.UserRef `json:"student"`
	Answers     []string       `json:"answers"`
	Score       int            `json:"score"`
	Grade       *int           `json:"grade,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

func newSubmissionView(s models.TestSubmission) SubmissionView {
	student := s.Student.Ref()
	student.ID = s.StudentID
	return SubmissionView{
		ID:          s.ID,
		Test:        s.TestID,
		Student:     student,
		Answers:     orEmpty(s.Answers),
		Score:       s.Score,
		Grade:       s.Grade,
		SubmittedAt: s.SubmittedAt,
	}
}

type TestView struct {
	ID                   uuid.UUID                    `json:"_id"`
	Course               CourseRef                    `json:"course"`
	Teacher              models.UserRef               `json:"teacher"`
	Title                string                       `json:"title"`
	Description          string                       `json:"description"`
	DueDate              *time.Time                   `json:"dueDate,omitempty"`
	Questions            []QuestionView               `json:"questions"`
	Submissions          []SubmissionView             `json:"submissions"`
	SuspiciousActivities *[]models.SuspiciousActivity `json:"suspiciousActivities,omitempty"`
	CreatedAt            time.Time                    `json:"createdAt"`
}

// newTestView renders a test for viewer. The owning teacher sees everything.
// A student sees only their own submission, and the correct answers only
// once they have submitted. Other teachers see the questions alone.
func newTestView(test models.Test, viewerID uuid.UUID, viewerRole string) TestView {
	isOwner := viewerRole == models.RoleTeacher && test.TeacherID == viewerID

	view := TestView{
		ID:          test.ID,
		Course:      CourseRef{ID: test.CourseID, Title: test.Course.Title},
		Teacher:     models.UserRef{ID: test.TeacherID, Name: test.Teacher.Name},
		Title:       test.Title,
		Description: test.Description,
		DueDate:     test.DueDate,
		Questions:   make([]QuestionView, 0, len(test.Questions)),
		Submissions: []SubmissionView{},
		CreatedAt:   test.CreatedAt,
	}

	submitted := false
	for _, s := range test.Submissions {
		switch {
		case isOwner:
			view.Submissions = append(view.Submissions, newSubmissionView(s))
		case viewerRole == models.RoleStudent && s.StudentID == viewerID:
			view.Submissions = append(view.Submissions, newSubmissionView(s))
			submitted = true
		}
	}

	for _, q := range test.Questions {
		qv := QuestionView{ID: q.ID, Question: q.Text, Options: orEmpty(q.Options)}
		if isOwner || submitted {
			qv.CorrectAnswer = q.CorrectAnswer
		}
		view.Questions = append(view.Questions, qv)
	}

	if isOwner {
		activities := orEmpty(test.SuspiciousActivities)
		view.SuspiciousActivities = &activities
	}
	return view
}

func newTestViews(tests []models.Test, viewerID uuid.UUID, viewerRole string) []TestView {
	views := make([]TestView, 0, len(tests))
	for _, test := range tests {
		views = append(views, newTestView(test, viewerID, viewerRole))
	}
	return views
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

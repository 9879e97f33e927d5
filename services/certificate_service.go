package services

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const certificateRenderTimeout = time.Minute

//go:embed templates/certificate.html
var certificateTemplateSource string

var certificateTemplate = template.Must(template.New("certificate").Parse(certificateTemplateSource))

// IsCourseComplete reports whether the student watched every video and
// submitted every test of the course. A course with neither is never complete.
func IsCourseComplete(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) (bool, error) {
	db = db.WithContext(ctx)

	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		return false, errors.Wrap(err, "load course")
	}

	var testCount int64
	if err := db.Model(&models.Test{}).Where("course_id = ?", courseID).Count(&testCount).Error; err != nil {
		return false, errors.Wrap(err, "count tests")
	}
	if len(course.Videos) == 0 && testCount == 0 {
		return false, nil
	}

	var watched int64
	if err := db.Model(&models.VideoProgress{}).
		Where("student_id = ? AND course_id = ? AND watched = ?", studentID, courseID, true).
		Count(&watched).Error; err != nil {
		return false, errors.Wrap(err, "count watched videos")
	}
	if watched < int64(len(course.Videos)) {
		return false, nil
	}

	var submitted int64
	if err := db.Model(&models.TestSubmission{}).
		Joins("JOIN tests ON tests.id = test_submissions.test_id").
		Where("tests.course_id = ? AND test_submissions.student_id = ?", courseID, studentID).
		Count(&submitted).Error; err != nil {
		return false, errors.Wrap(err, "count submitted tests")
	}
	return submitted >= testCount, nil
}

// Certificate rendering and storage, replaced in tests.
var (
	certificatePDF    = generatePDFFromHTML
	uploadCertificate = func(ctx context.Context, pdf []byte, publicID string) (string, error) {
		return UploadFile(ctx, bytes.NewReader(pdf), MediaFolder("certificates"), publicID, "raw")
	}
)

// IssueCertificate records the course certificate once the student has
// completed the course. It returns nil without error when the course is not
// complete yet or a certificate already exists.
func IssueCertificate(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID, now time.Time) (*models.Certificate, error) {
	db = db.WithContext(ctx)

	complete, err := IsCourseComplete(ctx, db, studentID, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "check course completion")
	}
	if !complete {
		return nil, nil
	}

	var existing int64
	if err := db.Model(&models.Certificate{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&existing).Error; err != nil {
		return nil, errors.Wrap(err, "count certificates")
	}
	if existing > 0 {
		return nil, nil
	}

	var course models.Course
	var student models.User
	if err := db.Preload("Teacher").First(&course, "id = ?", courseID).Error; err != nil {
		return nil, errors.Wrap(err, "load course")
	}
	if err := db.First(&student, "id = ?", studentID).Error; err != nil {
		return nil, errors.Wrap(err, "load student")
	}

	htmlData, err := RenderCertificateHTML(student.Name, course.Teacher.Name, course.Title, now)
	if err != nil {
		return nil, errors.Wrap(err, "render certificate html")
	}

	pdfBytes, err := certificatePDF(ctx, htmlData)
	if err != nil {
		return nil, errors.Wrap(err, "generate certificate pdf")
	}

	publicID := fmt.Sprintf("%s_%s_%s", courseID, studentID, uuid.NewString())
	certificateURL, err := uploadCertificate(ctx, pdfBytes, publicID)
	if err != nil {
		return nil, errors.Wrap(err, "upload certificate")
	}

	certificate := models.Certificate{
		StudentID:      studentID,
		CourseID:       courseID,
		CourseTitle:    course.Title,
		TeacherName:    course.Teacher.Name,
		CompletionDate: now,
		CertificateURL: certificateURL,
	}
	if err := db.Create(&certificate).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "store certificate")
	}
	return &certificate, nil
}

// CheckAndGenerateCertificate runs IssueCertificate in the background after a
// video is watched or a test is submitted. It only logs failures.
func CheckAndGenerateCertificate(db *gorm.DB, studentID, courseID uuid.UUID) {
	log := slog.With("student_id", studentID, "course_id", courseID)

	certificate, err := IssueCertificate(context.Background(), db, studentID, courseID, time.Now())
	if err != nil {
		log.Error("failed to issue certificate", "error", err)
		return
	}
	if certificate != nil {
		log.Info("certificate issued", "course_title", certificate.CourseTitle)
	}
}

func RenderCertificateHTML(studentName, teacherName, courseTitle string, completedAt time.Time) (string, error) {
	data := struct {
		StudentName    string
		TeacherName    string
		CourseTitle    string
		CompletionDate string
	}{
		StudentName:    studentName,
		TeacherName:    teacherName,
		CourseTitle:    courseTitle,
		CompletionDate: completedAt.Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := certificateTemplate.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func generatePDFFromHTML(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, certificateRenderTimeout)
	defer cancelTimeout()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

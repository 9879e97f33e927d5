package routes

import (
	"github.com/anjiri1684/learnsphere/handlers"
	"github.com/anjiri1684/learnsphere/middleware"
	"github.com/gofiber/fiber/v2"
)

func FeedbackRoutes(api fiber.Router) {
	feedback := api.Group("/feedback", middleware.Protected())
	feedback.Get("/course/:courseId", handlers.GetCourseFeedback)
	feedback.Post("/course/:courseId", middleware.StudentRequired(), handlers.SubmitFeedback)
}

func AssignmentRoutes(api fiber.Router) {
	assignments := api.Group("/assignment-submissions", middleware.Protected())
	assignments.Post("/upload", middleware.StudentRequired(), handlers.UploadAssignmentFile)
	assignments.Get("/course/:courseId", handlers.GetAssignmentSubmissions)
	assignments.Post("/course/:courseId", middleware.StudentRequired(), handlers.SubmitAssignment)
}

func VideoProgressRoutes(api fiber.Router) {
	progress := api.Group("/video-progress", middleware.Protected(), middleware.StudentRequired())
	progress.Get("/:courseId", handlers.GetVideoProgress)
	progress.Post("/:courseId/:videoIndex", handlers.MarkVideoWatched)
}

func UploadRoutes(api fiber.Router) {
	uploads := api.Group("/uploads", middleware.Protected())
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}

func CertificateRoutes(api fiber.Router) {
	certificates := api.Group("/certificates", middleware.Protected())
	certificates.Get("/me", handlers.GetMyCertificates)
}

package routes

import (
	"github.com/anjiri1684/learnsphere/handlers"
	"github.com/anjiri1684/learnsphere/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func TestRoutes(api fiber.Router) {
	tests := api.Group("/tests")
	protected := middleware.Protected()

	tests.Post("", protected, middleware.TeacherRequired(), handlers.CreateTest)
	tests.Post("/log-suspicious-activity", protected, middleware.ActivityLogRateLimiter(), handlers.LogSuspiciousActivity)
	tests.Get("/my-tests", protected, handlers.GetMyTests)
	tests.Get("/test/:testId", protected, handlers.GetTest)
	tests.Post("/:courseId/generate", protected, middleware.TeacherRequired(), handlers.GenerateTest)
	tests.Post("/:testId/submit", protected, handlers.SubmitTest)
	tests.Get("/:testId/proctor/ws", handlers.RequireWebSocketUpgrade, websocket.New(handlers.ServeProctorWs))
	tests.Get("/:courseId", protected, handlers.GetCourseTests)
}

func TestSubmissionRoutes(api fiber.Router) {
	submissions := api.Group("/test-submissions", middleware.Protected())
	submissions.Get("/test/:testId", handlers.GetTestSubmissions)
	submissions.Put("/grade/:submissionId", handlers.GradeSubmission)
}

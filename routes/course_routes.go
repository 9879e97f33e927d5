package routes

import (
	"github.com/anjiri1684/learnsphere/handlers"
	"github.com/anjiri1684/learnsphere/middleware"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(api fiber.Router) {
	courses := api.Group("/courses")
	protected := middleware.Protected()

	courses.Get("", handlers.GetCourses)
	courses.Get("/my-courses", protected, handlers.GetMyCourses)
	courses.Get("/:courseId", handlers.GetCourse)
	courses.Post("", protected, middleware.TeacherRequired(), handlers.CreateCourse)
	courses.Put("/:courseId/content", protected, middleware.TeacherRequired(), handlers.UpdateCourseContent)
	courses.Post("/enroll/:courseId", protected, middleware.StudentRequired(), handlers.EnrollInCourse)
}

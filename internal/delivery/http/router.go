package http

import (
	"net/http"

	"coursehub-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func InitRouter(handler *Handler, secret []byte, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public Routes
	api := r.Group("/api/v1")
	{
		api.GET("/courses", handler.GetPublishedCourses)
		api.GET("/courses/:id", handler.GetCourseDetail)
		api.GET("/courses/:id/lessons", handler.GetCourseLessons)
		api.GET("/courses/:id/quizzes", handler.GetCourseQuizzes)
		api.GET("/courses/:id/reviews", handler.GetCourseReviews)
		api.GET("/courses/:id/stats", handler.GetCourseStats)
	}

	// Protected Routes (Student, Instructor, Admin)
	protected := api.Group("/")
	protected.Use(AuthMiddleware(secret))
	{
		protected.POST("/courses/:id/enroll", handler.EnrollCourse)
		protected.GET("/courses/:id/can-enroll", handler.CanEnroll)
		protected.GET("/courses/:id/progress", handler.GetCourseProgress)
		protected.GET("/courses/:id/enrollment", handler.GetEnrollment)
		protected.POST("/courses/:id/complete", handler.CompleteCourse)
		protected.POST("/courses/:id/drop", handler.DropCourse)
		protected.POST("/courses/:id/reviews", handler.AddReview)

		protected.PUT("/lessons/:id/progress", handler.UpdateLessonProgress)

		protected.POST("/quizzes/:id/attempts", handler.SubmitQuizAnswer)
		protected.GET("/quizzes/:id/attempts", handler.GetQuizAttempts)
		protected.GET("/quizzes/:id/can-attempt", handler.CanAttemptQuiz)

		protected.POST("/reviews/:id/helpful", handler.MarkReviewHelpful)
		protected.DELETE("/reviews/:id/helpful", handler.UnmarkReviewHelpful)

		protected.GET("/me/enrollments", handler.GetMyEnrollments)
	}

	// Instructor & Admin Only
	instructor := api.Group("/instructor")
	instructor.Use(AuthMiddleware(secret, "instructor", "admin"))
	{
		instructor.GET("/courses", handler.GetInstructorCourses)
		instructor.POST("/courses", handler.CreateCourse)
		instructor.GET("/courses/:id", handler.GetInstructorCourse)
		instructor.PUT("/courses/:id", handler.UpdateCourse)
		instructor.DELETE("/courses/:id", handler.DeleteCourse)
		instructor.POST("/courses/:id/publish", handler.PublishCourse)
		instructor.POST("/courses/:id/unpublish", handler.UnpublishCourse)
		instructor.POST("/courses/:id/lessons", handler.AddLesson)
		instructor.POST("/courses/:id/quizzes", handler.AddQuiz)
		instructor.POST("/courses/:id/enrollments/:user_id/complete", handler.GradeEnrollment)
		instructor.GET("/courses/:id/gradebook", handler.ExportGradebook)
		instructor.GET("/courses/:id/activity", handler.GetCourseActivity)

		instructor.GET("/quizzes/:id/stats", handler.GetQuizStats)
	}

	return r
}

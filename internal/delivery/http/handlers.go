package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coursehub-backend/internal/domain"
	"coursehub-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	CourseUsecase     domain.CourseUsecase
	EnrollmentUsecase domain.EnrollmentUsecase
	QuizUsecase       domain.QuizUsecase
	ReviewUsecase     domain.ReviewUsecase
	ReportUsecase     domain.ReportUsecase
	Log               *logger.Logger
}

func NewHandler(
	cu domain.CourseUsecase,
	eu domain.EnrollmentUsecase,
	qu domain.QuizUsecase,
	ru domain.ReviewUsecase,
	rep domain.ReportUsecase,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		CourseUsecase:     cu,
		EnrollmentUsecase: eu,
		QuizUsecase:       qu,
		ReviewUsecase:     ru,
		ReportUsecase:     rep,
		Log:               log,
	}
}

// ========== UTILITY FUNCTIONS ==========

func formatValidationErrors(err error) gin.H {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		errors := make(map[string]string)
		for _, f := range ve {
			errors[f.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", f.Field(), f.Tag())
		}
		return gin.H{"error": "Validation failed", "details": errors}
	}
	return gin.H{"error": "Invalid request: " + err.Error()}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": ve.Fields})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateRelationship), errors.Is(err, domain.ErrEnrollmentClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAttemptLimitExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCourseNotPublished):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.Log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return "", errors.New("user ID not found in token")
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", errors.New("user ID not found in token")
	}
	return id, nil
}

func getUserRole(c *gin.Context) (string, error) {
	role, exists := c.Get(ctxRole)
	if !exists {
		return "", errors.New("role not found in token")
	}
	r, ok := role.(string)
	if !ok {
		return "", errors.New("role not found in token")
	}
	return r, nil
}

func parseID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID"})
		return 0, false
	}
	return uint(id), true
}

// ownsCourse loads the course and checks that the caller is its instructor
// or an admin. It writes the response when the check fails.
func (h *Handler) ownsCourse(c *gin.Context, courseID uint) (*domain.CourseDetail, bool) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return nil, false
	}
	detail, err := h.CourseUsecase.GetCourseDetail(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	if detail.InstructorID != userID {
		role, _ := getUserRole(c)
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own courses"})
			return nil, false
		}
	}
	return detail, true
}

// publishedCourse parses the course id and answers 404 for drafts, so the
// public catalog never shows unpublished content.
func (h *Handler) publishedCourse(c *gin.Context) (uint, bool) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return 0, false
	}
	course, err := h.CourseUsecase.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return 0, false
	}
	if !course.IsPublished {
		h.writeError(c, domain.ErrCourseNotFound)
		return 0, false
	}
	return courseID, true
}

// ========== CATALOG HANDLERS ==========

func (h *Handler) GetPublishedCourses(c *gin.Context) {
	courses, err := h.CourseUsecase.GetPublishedCourses(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"count":   len(courses),
	})
}

// GetCourseDetail hides unpublished courses from the public catalog.
func (h *Handler) GetCourseDetail(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}

	detail, err := h.CourseUsecase.GetCourseDetail(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !detail.IsPublished {
		h.writeError(c, domain.ErrCourseNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": detail.LearnerView(), "stats": detail.Stats()})
}

func (h *Handler) GetCourseLessons(c *gin.Context) {
	courseID, ok := h.publishedCourse(c)
	if !ok {
		return
	}

	lessons, err := h.CourseUsecase.GetCourseLessons(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lessons": lessons,
		"count":   len(lessons),
	})
}

func (h *Handler) GetCourseQuizzes(c *gin.Context) {
	courseID, ok := h.publishedCourse(c)
	if !ok {
		return
	}

	quizzes, err := h.CourseUsecase.GetCourseQuizzes(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quizzes": domain.LearnerViews(quizzes),
		"count":   len(quizzes),
	})
}

func (h *Handler) GetCourseStats(c *gin.Context) {
	courseID, ok := h.publishedCourse(c)
	if !ok {
		return
	}

	stats, err := h.CourseUsecase.GetCourseStats(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ========== ENROLLMENT HANDLERS ==========

func (h *Handler) EnrollCourse(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}

	course, err := h.CourseUsecase.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !course.IsPublished {
		h.writeError(c, domain.ErrCourseNotPublished)
		return
	}

	enrollment, err := h.EnrollmentUsecase.EnrollUser(c.Request.Context(), userID, courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Successfully enrolled in course", "enrollment": enrollment})
}

func (h *Handler) CanEnroll(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}

	allowed, err := h.EnrollmentUsecase.CanEnroll(c.Request.Context(), userID, courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"can_enroll": allowed})
}

func (h *Handler) GetCourseProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}

	progress, err := h.EnrollmentUsecase.GetCourseProgress(c.Request.Context(), userID, courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course_id": courseID, "progress": progress})
}

func (h *Handler) GetEnrollment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}

	enrollment, err := h.EnrollmentUsecase.GetEnrollment(c.Request.Context(), userID, courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// CompleteCourse is the learner's own completion. Grades are set by the
// course's instructor through GradeEnrollment.
func (h *Handler) CompleteCourse(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}

	var req struct {
		Grade *float64 `json:"grade"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, formatValidationErrors(err))
			return
		}
	}
	if req.Grade != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the course instructor can assign a grade"})
		return
	}

	enrollment, err := h.EnrollmentUsecase.CompleteCourse(c.Request.Context(), userID, courseID, nil)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Course completed", "enrollment": enrollment})
}

func (h *Handler) DropCourse(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}

	enrollment, err := h.EnrollmentUsecase.DropCourse(c.Request.Context(), userID, courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Course dropped", "enrollment": enrollment})
}

func (h *Handler) GetMyEnrollments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	enrollments, summary, err := h.EnrollmentUsecase.GetStudentEnrollments(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enrollments": enrollments,
		"count":       len(enrollments),
		"summary":     summary,
	})
}

func (h *Handler) UpdateLessonProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	lessonID, ok := parseID(c, "id", "lesson")
	if !ok {
		return
	}

	var req struct {
		Completed *bool `json:"completed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	progress, err := h.EnrollmentUsecase.UpdateLessonProgress(c.Request.Context(), userID, lessonID, *req.Completed)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ========== QUIZ HANDLERS ==========

func (h *Handler) SubmitQuizAnswer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	quizID, ok := parseID(c, "id", "quiz")
	if !ok {
		return
	}

	var req struct {
		SelectedAnswerIndex *int `json:"selected_answer_index" binding:"required"`
		TimeSpentSeconds    int  `json:"time_spent_seconds" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	timeSpent := time.Duration(req.TimeSpentSeconds) * time.Second
	attempt, err := h.QuizUsecase.SubmitQuizAnswer(c.Request.Context(), userID, quizID, *req.SelectedAnswerIndex, timeSpent)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

func (h *Handler) GetQuizAttempts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	quizID, ok := parseID(c, "id", "quiz")
	if !ok {
		return
	}

	attempts, err := h.QuizUsecase.GetAttempts(c.Request.Context(), userID, quizID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": attempts,
		"count":    len(attempts),
	})
}

func (h *Handler) CanAttemptQuiz(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	quizID, ok := parseID(c, "id", "quiz")
	if !ok {
		return
	}

	allowed, err := h.QuizUsecase.CanUserAttempt(c.Request.Context(), userID, quizID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"can_attempt": allowed})
}

func (h *Handler) GetQuizStats(c *gin.Context) {
	quizID, ok := parseID(c, "id", "quiz")
	if !ok {
		return
	}

	stats, err := h.QuizUsecase.GetQuizStats(c.Request.Context(), quizID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ========== REVIEW HANDLERS ==========

func (h *Handler) GetCourseReviews(c *gin.Context) {
	courseID, ok := h.publishedCourse(c)
	if !ok {
		return
	}

	reviews, err := h.ReviewUsecase.GetCourseReviews(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

func (h *Handler) AddReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	review, err := h.ReviewUsecase.AddReview(c.Request.Context(), userID, courseID, req.Rating, req.Comment)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *Handler) MarkReviewHelpful(c *gin.Context) {
	reviewID, ok := parseID(c, "id", "review")
	if !ok {
		return
	}

	review, err := h.ReviewUsecase.MarkHelpful(c.Request.Context(), reviewID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *Handler) UnmarkReviewHelpful(c *gin.Context) {
	reviewID, ok := parseID(c, "id", "review")
	if !ok {
		return
	}

	review, err := h.ReviewUsecase.UnmarkHelpful(c.Request.Context(), reviewID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ========== INSTRUCTOR HANDLERS ==========

type courseRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description" binding:"required"`
	ShortDescription   string   `json:"short_description"`
	Category           string   `json:"category"`
	Tags               []string `json:"tags"`
	TagsInput          string   `json:"tags_input"`
	TotalDurationHours int      `json:"total_duration_hours"`
	Price              float64  `json:"price"`
	ImageURL           string   `json:"image_url"`
	PreviewVideoURL    string   `json:"preview_video_url"`
	IsFeatured         bool     `json:"is_featured"`
	Level              string   `json:"level"`
}

func (r courseRequest) toCourse() domain.Course {
	course := domain.Course{
		Title:              r.Title,
		Description:        r.Description,
		ShortDescription:   r.ShortDescription,
		Category:           r.Category,
		TotalDurationHours: r.TotalDurationHours,
		Price:              r.Price,
		ImageURL:           r.ImageURL,
		PreviewVideoURL:    r.PreviewVideoURL,
		IsFeatured:         r.IsFeatured,
		Level:              domain.CourseLevel(r.Level),
	}
	switch {
	case r.TagsInput != "":
		course.SetTagsFromInput(r.TagsInput)
	case r.Tags != nil:
		course.Tags = r.Tags
	}
	return course
}

// GetInstructorCourses lists the caller's courses; admins see all of them.
func (h *Handler) GetInstructorCourses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courses, err := h.CourseUsecase.GetAllCourses(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	if role, _ := getUserRole(c); role != "admin" {
		own := make([]domain.Course, 0, len(courses))
		for _, course := range courses {
			if course.InstructorID == userID {
				own = append(own, course)
			}
		}
		courses = own
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"count":   len(courses),
	})
}

func (h *Handler) GetInstructorCourse(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	detail, ok := h.ownsCourse(c, courseID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": detail, "stats": detail.Stats()})
}

func (h *Handler) CreateCourse(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	course := req.toCourse()
	course.InstructorID = userID

	if err := h.CourseUsecase.CreateCourse(c.Request.Context(), &course); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	if _, ok := h.ownsCourse(c, courseID); !ok {
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	course := req.toCourse()
	course.ID = courseID

	if err := h.CourseUsecase.UpdateCourse(c.Request.Context(), &course); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Course updated successfully", "course": course})
}

func (h *Handler) DeleteCourse(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	if _, ok := h.ownsCourse(c, courseID); !ok {
		return
	}

	if err := h.CourseUsecase.DeleteCourse(c.Request.Context(), courseID); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

func (h *Handler) PublishCourse(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	if _, ok := h.ownsCourse(c, courseID); !ok {
		return
	}

	course, err := h.CourseUsecase.PublishCourse(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *Handler) UnpublishCourse(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	if _, ok := h.ownsCourse(c, courseID); !ok {
		return
	}

	course, err := h.CourseUsecase.UnpublishCourse(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *Handler) AddLesson(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	if _, ok := h.ownsCourse(c, courseID); !ok {
		return
	}

	var req struct {
		Title           string `json:"title" binding:"required"`
		Description     string `json:"description"`
		Content         string `json:"content" binding:"required"`
		OrderNumber     int    `json:"order_number"`
		VideoURL        string `json:"video_url"`
		PresentationURL string `json:"presentation_url"`
		MaterialsURL    string `json:"materials_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	lesson := domain.Lesson{
		ElementBase: domain.ElementBase{
			CourseID:    courseID,
			Title:       req.Title,
			Description: req.Description,
			OrderNumber: req.OrderNumber,
		},
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		PresentationURL: req.PresentationURL,
		MaterialsURL:    req.MaterialsURL,
	}

	if err := h.CourseUsecase.AddLesson(c.Request.Context(), &lesson); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

func (h *Handler) AddQuiz(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	if _, ok := h.ownsCourse(c, courseID); !ok {
		return
	}

	var req struct {
		LessonID              *uint    `json:"lesson_id"`
		Title                 string   `json:"title" binding:"required"`
		Description           string   `json:"description"`
		OrderNumber           int      `json:"order_number"`
		Question              string   `json:"question" binding:"required"`
		Options               []string `json:"options" binding:"required,min=1"`
		CorrectAnswerIndex    int      `json:"correct_answer_index"`
		Points                int      `json:"points"`
		Explanation           string   `json:"explanation"`
		TimeLimitMinutes      int      `json:"time_limit_minutes"`
		AllowMultipleAttempts *bool    `json:"allow_multiple_attempts"`
		MaxAttempts           int      `json:"max_attempts"`
		Type                  string   `json:"type"`
		Difficulty            string   `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	quiz := domain.Quiz{
		ElementBase: domain.ElementBase{
			CourseID:    courseID,
			Title:       req.Title,
			Description: req.Description,
			OrderNumber: req.OrderNumber,
		},
		LessonID:              req.LessonID,
		Question:              req.Question,
		Options:               req.Options,
		CorrectAnswerIndex:    req.CorrectAnswerIndex,
		Points:                req.Points,
		Explanation:           req.Explanation,
		TimeLimitMinutes:      req.TimeLimitMinutes,
		AllowMultipleAttempts: true,
		MaxAttempts:           req.MaxAttempts,
		Type:                  domain.QuizType(req.Type),
		Difficulty:            domain.DifficultyLevel(req.Difficulty),
	}
	if req.AllowMultipleAttempts != nil {
		quiz.AllowMultipleAttempts = *req.AllowMultipleAttempts
	}

	if err := h.CourseUsecase.AddQuiz(c.Request.Context(), &quiz); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GradeEnrollment completes a learner's enrollment with a grade, or
// replaces the grade of one already completed.
func (h *Handler) GradeEnrollment(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	learnerID := strings.TrimSpace(c.Param("user_id"))
	if learnerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if _, ok := h.ownsCourse(c, courseID); !ok {
		return
	}

	var req struct {
		Grade *float64 `json:"grade" binding:"required,min=0,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	enrollment, err := h.EnrollmentUsecase.GradeEnrollment(c.Request.Context(), learnerID, courseID, *req.Grade)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Enrollment graded", "enrollment": enrollment})
}

func (h *Handler) ExportGradebook(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	if _, ok := h.ownsCourse(c, courseID); !ok {
		return
	}

	data, err := h.ReportUsecase.ExportGradebook(c.Request.Context(), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("course-%d-gradebook.xlsx", courseID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *Handler) GetCourseActivity(c *gin.Context) {
	courseID, ok := parseID(c, "id", "course")
	if !ok {
		return
	}
	if _, ok := h.ownsCourse(c, courseID); !ok {
		return
	}

	limit := int64(defaultActivityLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxActivityLimit)
	}

	events, err := h.CourseUsecase.GetCourseActivity(c.Request.Context(), courseID, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

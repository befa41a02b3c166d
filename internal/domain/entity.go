package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

type CourseStatus string

const (
	CourseDraft    CourseStatus = "draft"
	CourseReview   CourseStatus = "review"
	CourseActive   CourseStatus = "active"
	CourseArchived CourseStatus = "archived"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
	EnrollmentInactive  EnrollmentStatus = "inactive"
)

type QuizType string

const (
	QuizSingleChoice   QuizType = "single_choice"
	QuizMultipleChoice QuizType = "multiple_choice"
	QuizTrueFalse      QuizType = "true_false"
	QuizMatching       QuizType = "matching"
	QuizFillInBlank    QuizType = "fill_in_blank"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Course - rating and review_count are derived from the reviews table and
// only ever written together by the review aggregation.
type Course struct {
	ID                 uint                        `json:"id" gorm:"primaryKey"`
	Title              string                      `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Description        string                      `json:"description" gorm:"type:text;not null" validate:"required,max=5000"`
	ShortDescription   string                      `json:"short_description,omitempty" gorm:"size:500" validate:"max=500"`
	Category           string                      `json:"category,omitempty" gorm:"size:100" validate:"max=100"`
	Tags               datatypes.JSONSlice[string] `json:"tags" gorm:"column:tags_json"`
	TotalDurationHours int                         `json:"total_duration_hours" validate:"min=1,max=1000"`
	Price              float64                     `json:"price" validate:"min=0,max=1000000"`
	ImageURL           string                      `json:"image_url,omitempty" validate:"omitempty,url"`
	PreviewVideoURL    string                      `json:"preview_video_url,omitempty" validate:"omitempty,url"`
	InstructorID       string                      `json:"instructor_id" gorm:"size:128;not null;index" validate:"required,max=128"`
	IsPublished        bool                        `json:"is_published"`
	IsFeatured         bool                        `json:"is_featured"`
	Rating             float64                     `json:"rating"`
	ReviewCount        int                         `json:"review_count"`
	Level              CourseLevel                 `json:"level" gorm:"type:varchar(20);not null" validate:"oneof=beginner intermediate advanced"`
	Status             CourseStatus                `json:"status" gorm:"type:varchar(20);not null;index" validate:"oneof=draft review active archived"`
	PublishedAt        *time.Time                  `json:"published_at,omitempty"`
	CreatedAt          time.Time                   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`
}

// ElementBase holds the fields shared by every course element.
type ElementBase struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CourseID    uint      `json:"course_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Description string    `json:"description" gorm:"size:2000;not null" validate:"required,max=2000"`
	OrderNumber int       `json:"order_number" gorm:"not null" validate:"min=1,max=1000"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Lesson struct {
	ElementBase
	Content         string `json:"content" gorm:"type:text;not null" validate:"required"`
	VideoURL        string `json:"video_url,omitempty" validate:"omitempty,url"`
	PresentationURL string `json:"presentation_url,omitempty" validate:"omitempty,url"`
	MaterialsURL    string `json:"materials_url,omitempty" validate:"omitempty,url"`

	// Set when the lesson is loaded together with its course's quizzes.
	AttachedQuizzes int `json:"attached_quizzes" gorm:"-"`
}

type Quiz struct {
	ElementBase
	LessonID              *uint                       `json:"lesson_id,omitempty" gorm:"index"`
	Question              string                      `json:"question" gorm:"type:text;not null" validate:"required"`
	Options               datatypes.JSONSlice[string] `json:"options" gorm:"column:options_json;not null" validate:"min=1,dive,required"`
	CorrectAnswerIndex    int                         `json:"correct_answer_index" validate:"min=0,max=100"`
	Points                int                         `json:"points" validate:"min=1,max=100"`
	Explanation           string                      `json:"explanation,omitempty" gorm:"type:text"`
	TimeLimitMinutes      int                         `json:"time_limit_minutes" validate:"min=1,max=180"`
	AllowMultipleAttempts bool                        `json:"allow_multiple_attempts"`
	MaxAttempts           int                         `json:"max_attempts" validate:"min=1,max=10"`
	Type                  QuizType                    `json:"type" gorm:"type:varchar(20);not null" validate:"oneof=single_choice multiple_choice true_false matching fill_in_blank"`
	Difficulty            DifficultyLevel             `json:"difficulty" gorm:"type:varchar(20);not null" validate:"oneof=easy medium hard"`
}

// Enrollment - one per (user, course).
type Enrollment struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	UserID           string           `json:"user_id" gorm:"size:128;not null;uniqueIndex:idx_enrollment_user_course;index"`
	CourseID         uint             `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course;index"`
	EnrollmentDate   time.Time        `json:"enrollment_date" gorm:"not null"`
	StartDate        *time.Time       `json:"start_date,omitempty"`
	CompletionDate   *time.Time       `json:"completion_date,omitempty"`
	LastActivityDate *time.Time       `json:"last_activity_date,omitempty"`
	Grade            *float64         `json:"grade,omitempty" validate:"omitempty,min=0,max=100"`
	Status           EnrollmentStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	CreatedAt        time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// LessonProgress - one per (enrollment, lesson), upserted.
type LessonProgress struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	EnrollmentID uint       `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson"`
	LessonID     uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson;index"`
	StartedAt    time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	IsCompleted  bool       `json:"is_completed"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// QuizAttempt rows are append-only.
type QuizAttempt struct {
	ID                  uint          `json:"id" gorm:"primaryKey"`
	EnrollmentID        uint          `json:"enrollment_id" gorm:"not null;index:idx_attempt_enrollment_quiz"`
	QuizID              uint          `json:"quiz_id" gorm:"not null;index:idx_attempt_enrollment_quiz;index"`
	AttemptDate         time.Time     `json:"attempt_date" gorm:"not null"`
	SelectedAnswerIndex int           `json:"selected_answer_index"`
	IsCorrect           bool          `json:"is_correct"`
	PointsEarned        int           `json:"points_earned"`
	TimeSpent           time.Duration `json:"-"`
}

// MarshalJSON reports the time spent in seconds.
func (a QuizAttempt) MarshalJSON() ([]byte, error) {
	type attempt QuizAttempt
	return json.Marshal(struct {
		attempt
		TimeSpentSeconds float64 `json:"time_spent_seconds"`
	}{attempt(a), a.TimeSpent.Seconds()})
}

// Review - one per (user, course).
type Review struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"size:128;not null;uniqueIndex:idx_review_user_course"`
	CourseID     uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_review_user_course;index"`
	Rating       int        `json:"rating" gorm:"not null" validate:"min=1,max=5"`
	Comment      string     `json:"comment,omitempty" gorm:"type:text" validate:"max=2000"`
	HelpfulCount int        `json:"helpful_count"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// ========== RESPONSE DTOs ==========

// CourseStats - derived course metrics, the cached read model.
type CourseStats struct {
	CourseID            uint    `json:"course_id"`
	StudentCount        int     `json:"student_count"`
	CompletedStudents   int     `json:"completed_students"`
	CompletionRate      float64 `json:"completion_rate"`
	LessonCount         int     `json:"lesson_count"`
	QuizCount           int     `json:"quiz_count"`
	ActualDurationHours float64 `json:"actual_duration_hours"`
	Rating              float64 `json:"rating"`
	ReviewCount         int     `json:"review_count"`
}

// EnrollmentWithProgress - an enrollment together with its computed progress.
type EnrollmentWithProgress struct {
	Enrollment
	CourseTitle       string  `json:"course_title"`
	CompletedElements int     `json:"completed_elements"`
	TotalElements     int     `json:"total_elements"`
	Progress          float64 `json:"progress"`
}

type QuizStats struct {
	QuizID       uint    `json:"quiz_id"`
	AttemptCount int     `json:"attempt_count"`
	CorrectCount int     `json:"correct_count"`
	SuccessRate  float64 `json:"success_rate"`
}

// StudentSummary - per-student aggregate over all enrollments.
type StudentSummary struct {
	UserID           string  `json:"user_id"`
	TotalEnrollments int     `json:"total_enrollments"`
	CompletedCourses int     `json:"completed_courses"`
	InProgress       int     `json:"in_progress"`
	AverageGrade     float64 `json:"average_grade"`
}

// GradebookRow is one exported line per enrollment.
type GradebookRow struct {
	UserID           string
	Status           EnrollmentStatus
	Progress         float64
	Grade            *float64
	EnrollmentDate   time.Time
	LastActivityDate *time.Time
	CompletionDate   *time.Time
	QuizPoints       int
}

package domain

import (
	"context"
	"time"
)

// Optional lookups (GetByID, GetByUserAndCourse, ...) return (nil, nil)
// when the row does not exist.

type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	Update(ctx context.Context, course *Course) error
	// UpdateDetails writes the instructor-editable columns only.
	UpdateDetails(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id uint) (*Course, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*Course, error)
	GetAll(ctx context.Context) ([]Course, error)
	GetPublished(ctx context.Context) ([]Course, error)
	Delete(ctx context.Context, id uint) error
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *Lesson) error
	Update(ctx context.Context, lesson *Lesson) error
	GetByID(ctx context.Context, id uint) (*Lesson, error)
	GetByCourseID(ctx context.Context, courseID uint) ([]Lesson, error)
	DeleteByCourseID(ctx context.Context, courseID uint) error
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *Quiz) error
	Update(ctx context.Context, quiz *Quiz) error
	GetByID(ctx context.Context, id uint) (*Quiz, error)
	GetByCourseID(ctx context.Context, courseID uint) ([]Quiz, error)
	DeleteByCourseID(ctx context.Context, courseID uint) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *Enrollment) error
	Update(ctx context.Context, enrollment *Enrollment) error
	GetByID(ctx context.Context, id uint) (*Enrollment, error)
	GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*Enrollment, error)
	GetByUserAndCourseForUpdate(ctx context.Context, userID string, courseID uint) (*Enrollment, error)
	GetByUserID(ctx context.Context, userID string) ([]Enrollment, error)
	GetByCourseID(ctx context.Context, courseID uint) ([]Enrollment, error)
	CountByCourseID(ctx context.Context, courseID uint) (int64, error)
	DeleteByCourseID(ctx context.Context, courseID uint) error
}

type LessonProgressRepository interface {
	Create(ctx context.Context, progress *LessonProgress) error
	Update(ctx context.Context, progress *LessonProgress) error
	GetByEnrollmentAndLesson(ctx context.Context, enrollmentID, lessonID uint) (*LessonProgress, error)
	GetByEnrollmentID(ctx context.Context, enrollmentID uint) ([]LessonProgress, error)
	DeleteByEnrollmentIDs(ctx context.Context, enrollmentIDs []uint) error
}

type QuizAttemptRepository interface {
	Create(ctx context.Context, attempt *QuizAttempt) error
	GetByEnrollmentID(ctx context.Context, enrollmentID uint) ([]QuizAttempt, error)
	GetByEnrollmentAndQuiz(ctx context.Context, enrollmentID, quizID uint) ([]QuizAttempt, error)
	CountByEnrollmentAndQuiz(ctx context.Context, enrollmentID, quizID uint) (int64, error)
	GetByQuizID(ctx context.Context, quizID uint) ([]QuizAttempt, error)
	DeleteByEnrollmentIDs(ctx context.Context, enrollmentIDs []uint) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	Update(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id uint) (*Review, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*Review, error)
	GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*Review, error)
	GetByCourseID(ctx context.Context, courseID uint) ([]Review, error)
	DeleteByCourseID(ctx context.Context, courseID uint) error
}

// Repositories bundles the repositories bound to one database handle,
// either the root connection or an open transaction.
type Repositories struct {
	Courses     CourseRepository
	Lessons     LessonRepository
	Quizzes     QuizRepository
	Enrollments EnrollmentRepository
	Progress    LessonProgressRepository
	Attempts    QuizAttemptRepository
	Reviews     ReviewRepository
}

// UnitOfWork runs fn inside one transaction. fn must only use the
// repositories it is handed.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// ========== SIDE CHANNELS ==========

type ActivityType string

const (
	ActivityEnrolled        ActivityType = "enrolled"
	ActivityLessonProgress  ActivityType = "lesson_progress"
	ActivityQuizAttempt     ActivityType = "quiz_attempt"
	ActivityCourseCompleted ActivityType = "course_completed"
	ActivityReviewAdded     ActivityType = "review_added"
)

type ActivityEvent struct {
	Type       ActivityType   `json:"type" bson:"type"`
	UserID     string         `json:"user_id" bson:"user_id"`
	CourseID   uint           `json:"course_id" bson:"course_id"`
	EntityID   uint           `json:"entity_id,omitempty" bson:"entity_id,omitempty"`
	Detail     map[string]any `json:"detail,omitempty" bson:"detail,omitempty"`
	OccurredAt time.Time      `json:"occurred_at" bson:"occurred_at"`
}

// ActivityLog is an append-only audit trail. Writes are best-effort.
type ActivityLog interface {
	Record(ctx context.Context, event ActivityEvent) error
	ListByCourse(ctx context.Context, courseID uint, limit int64) ([]ActivityEvent, error)
}

// StatsCache holds CourseStats snapshots. Get returns (nil, nil) on a miss.
// Every Invalidate bumps the course's version; Set only stores a snapshot
// when the version is still the one read before the snapshot was computed.
type StatsCache interface {
	Get(ctx context.Context, courseID uint) (*CourseStats, error)
	Version(ctx context.Context, courseID uint) (int64, error)
	Set(ctx context.Context, stats *CourseStats, version int64) error
	Invalidate(ctx context.Context, courseID uint) error
}

// ========== USECASES ==========

type EnrollmentUsecase interface {
	EnrollUser(ctx context.Context, userID string, courseID uint) (*Enrollment, error)
	CanEnroll(ctx context.Context, userID string, courseID uint) (bool, error)
	GetCourseProgress(ctx context.Context, userID string, courseID uint) (float64, error)
	UpdateLessonProgress(ctx context.Context, userID string, lessonID uint, completed bool) (*LessonProgress, error)
	CompleteCourse(ctx context.Context, userID string, courseID uint, grade *float64) (*Enrollment, error)
	GradeEnrollment(ctx context.Context, userID string, courseID uint, grade float64) (*Enrollment, error)
	DropCourse(ctx context.Context, userID string, courseID uint) (*Enrollment, error)
	GetEnrollment(ctx context.Context, userID string, courseID uint) (*EnrollmentWithProgress, error)
	GetStudentEnrollments(ctx context.Context, userID string) ([]EnrollmentWithProgress, *StudentSummary, error)
}

type QuizUsecase interface {
	SubmitQuizAnswer(ctx context.Context, userID string, quizID uint, selectedIndex int, timeSpent time.Duration) (*QuizAttempt, error)
	CanUserAttempt(ctx context.Context, userID string, quizID uint) (bool, error)
	GetAttempts(ctx context.Context, userID string, quizID uint) ([]QuizAttempt, error)
	GetQuizStats(ctx context.Context, quizID uint) (*QuizStats, error)
}

type ReviewUsecase interface {
	AddReview(ctx context.Context, userID string, courseID uint, rating int, comment string) (*Review, error)
	MarkHelpful(ctx context.Context, reviewID uint) (*Review, error)
	UnmarkHelpful(ctx context.Context, reviewID uint) (*Review, error)
	GetCourseReviews(ctx context.Context, courseID uint) ([]Review, error)
}

type CourseUsecase interface {
	GetCourse(ctx context.Context, courseID uint) (*Course, error)
	GetCourseDetail(ctx context.Context, courseID uint) (*CourseDetail, error)
	GetAllCourses(ctx context.Context) ([]Course, error)
	GetPublishedCourses(ctx context.Context) ([]Course, error)
	GetCourseLessons(ctx context.Context, courseID uint) ([]Lesson, error)
	GetCourseQuizzes(ctx context.Context, courseID uint) ([]Quiz, error)
	GetCourseStats(ctx context.Context, courseID uint) (*CourseStats, error)
	CreateCourse(ctx context.Context, course *Course) error
	UpdateCourse(ctx context.Context, course *Course) error
	PublishCourse(ctx context.Context, courseID uint) (*Course, error)
	UnpublishCourse(ctx context.Context, courseID uint) (*Course, error)
	DeleteCourse(ctx context.Context, courseID uint) error
	AddLesson(ctx context.Context, lesson *Lesson) error
	AddQuiz(ctx context.Context, quiz *Quiz) error
	GetCourseActivity(ctx context.Context, courseID uint, limit int64) ([]ActivityEvent, error)
}

type ReportUsecase interface {
	ExportGradebook(ctx context.Context, courseID uint) ([]byte, error)
}

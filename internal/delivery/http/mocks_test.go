package http_test

import (
	"context"
	"time"

	"coursehub-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockCourseUsecase struct {
	mock.Mock
}

func (m *MockCourseUsecase) GetCourse(ctx context.Context, courseID uint) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	course, _ := args.Get(0).(*domain.Course)
	return course, args.Error(1)
}

func (m *MockCourseUsecase) GetCourseDetail(ctx context.Context, courseID uint) (*domain.CourseDetail, error) {
	args := m.Called(ctx, courseID)
	detail, _ := args.Get(0).(*domain.CourseDetail)
	return detail, args.Error(1)
}

func (m *MockCourseUsecase) GetAllCourses(ctx context.Context) ([]domain.Course, error) {
	args := m.Called(ctx)
	courses, _ := args.Get(0).([]domain.Course)
	return courses, args.Error(1)
}

func (m *MockCourseUsecase) GetPublishedCourses(ctx context.Context) ([]domain.Course, error) {
	args := m.Called(ctx)
	courses, _ := args.Get(0).([]domain.Course)
	return courses, args.Error(1)
}

func (m *MockCourseUsecase) GetCourseLessons(ctx context.Context, courseID uint) ([]domain.Lesson, error) {
	args := m.Called(ctx, courseID)
	lessons, _ := args.Get(0).([]domain.Lesson)
	return lessons, args.Error(1)
}

func (m *MockCourseUsecase) GetCourseQuizzes(ctx context.Context, courseID uint) ([]domain.Quiz, error) {
	args := m.Called(ctx, courseID)
	quizzes, _ := args.Get(0).([]domain.Quiz)
	return quizzes, args.Error(1)
}

func (m *MockCourseUsecase) GetCourseStats(ctx context.Context, courseID uint) (*domain.CourseStats, error) {
	args := m.Called(ctx, courseID)
	stats, _ := args.Get(0).(*domain.CourseStats)
	return stats, args.Error(1)
}

func (m *MockCourseUsecase) CreateCourse(ctx context.Context, course *domain.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *MockCourseUsecase) UpdateCourse(ctx context.Context, course *domain.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *MockCourseUsecase) PublishCourse(ctx context.Context, courseID uint) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	course, _ := args.Get(0).(*domain.Course)
	return course, args.Error(1)
}

func (m *MockCourseUsecase) UnpublishCourse(ctx context.Context, courseID uint) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	course, _ := args.Get(0).(*domain.Course)
	return course, args.Error(1)
}

func (m *MockCourseUsecase) DeleteCourse(ctx context.Context, courseID uint) error {
	return m.Called(ctx, courseID).Error(0)
}

func (m *MockCourseUsecase) AddLesson(ctx context.Context, lesson *domain.Lesson) error {
	return m.Called(ctx, lesson).Error(0)
}

func (m *MockCourseUsecase) AddQuiz(ctx context.Context, quiz *domain.Quiz) error {
	return m.Called(ctx, quiz).Error(0)
}

func (m *MockCourseUsecase) GetCourseActivity(ctx context.Context, courseID uint, limit int64) ([]domain.ActivityEvent, error) {
	args := m.Called(ctx, courseID, limit)
	events, _ := args.Get(0).([]domain.ActivityEvent)
	return events, args.Error(1)
}

type MockEnrollmentUsecase struct {
	mock.Mock
}

func (m *MockEnrollmentUsecase) EnrollUser(ctx context.Context, userID string, courseID uint) (*domain.Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	e, _ := args.Get(0).(*domain.Enrollment)
	return e, args.Error(1)
}

func (m *MockEnrollmentUsecase) CanEnroll(ctx context.Context, userID string, courseID uint) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentUsecase) GetCourseProgress(ctx context.Context, userID string, courseID uint) (float64, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockEnrollmentUsecase) UpdateLessonProgress(ctx context.Context, userID string, lessonID uint, completed bool) (*domain.LessonProgress, error) {
	args := m.Called(ctx, userID, lessonID, completed)
	p, _ := args.Get(0).(*domain.LessonProgress)
	return p, args.Error(1)
}

func (m *MockEnrollmentUsecase) CompleteCourse(ctx context.Context, userID string, courseID uint, grade *float64) (*domain.Enrollment, error) {
	args := m.Called(ctx, userID, courseID, grade)
	e, _ := args.Get(0).(*domain.Enrollment)
	return e, args.Error(1)
}

func (m *MockEnrollmentUsecase) GradeEnrollment(ctx context.Context, userID string, courseID uint, grade float64) (*domain.Enrollment, error) {
	args := m.Called(ctx, userID, courseID, grade)
	e, _ := args.Get(0).(*domain.Enrollment)
	return e, args.Error(1)
}

func (m *MockEnrollmentUsecase) DropCourse(ctx context.Context, userID string, courseID uint) (*domain.Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	e, _ := args.Get(0).(*domain.Enrollment)
	return e, args.Error(1)
}

func (m *MockEnrollmentUsecase) GetEnrollment(ctx context.Context, userID string, courseID uint) (*domain.EnrollmentWithProgress, error) {
	args := m.Called(ctx, userID, courseID)
	e, _ := args.Get(0).(*domain.EnrollmentWithProgress)
	return e, args.Error(1)
}

func (m *MockEnrollmentUsecase) GetStudentEnrollments(ctx context.Context, userID string) ([]domain.EnrollmentWithProgress, *domain.StudentSummary, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.EnrollmentWithProgress)
	summary, _ := args.Get(1).(*domain.StudentSummary)
	return list, summary, args.Error(2)
}

type MockQuizUsecase struct {
	mock.Mock
}

func (m *MockQuizUsecase) SubmitQuizAnswer(ctx context.Context, userID string, quizID uint, selectedIndex int, timeSpent time.Duration) (*domain.QuizAttempt, error) {
	args := m.Called(ctx, userID, quizID, selectedIndex, timeSpent)
	a, _ := args.Get(0).(*domain.QuizAttempt)
	return a, args.Error(1)
}

func (m *MockQuizUsecase) CanUserAttempt(ctx context.Context, userID string, quizID uint) (bool, error) {
	args := m.Called(ctx, userID, quizID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizUsecase) GetAttempts(ctx context.Context, userID string, quizID uint) ([]domain.QuizAttempt, error) {
	args := m.Called(ctx, userID, quizID)
	list, _ := args.Get(0).([]domain.QuizAttempt)
	return list, args.Error(1)
}

func (m *MockQuizUsecase) GetQuizStats(ctx context.Context, quizID uint) (*domain.QuizStats, error) {
	args := m.Called(ctx, quizID)
	s, _ := args.Get(0).(*domain.QuizStats)
	return s, args.Error(1)
}

type MockReviewUsecase struct {
	mock.Mock
}

func (m *MockReviewUsecase) AddReview(ctx context.Context, userID string, courseID uint, rating int, comment string) (*domain.Review, error) {
	args := m.Called(ctx, userID, courseID, rating, comment)
	r, _ := args.Get(0).(*domain.Review)
	return r, args.Error(1)
}

func (m *MockReviewUsecase) MarkHelpful(ctx context.Context, reviewID uint) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	r, _ := args.Get(0).(*domain.Review)
	return r, args.Error(1)
}

func (m *MockReviewUsecase) UnmarkHelpful(ctx context.Context, reviewID uint) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	r, _ := args.Get(0).(*domain.Review)
	return r, args.Error(1)
}

func (m *MockReviewUsecase) GetCourseReviews(ctx context.Context, courseID uint) ([]domain.Review, error) {
	args := m.Called(ctx, courseID)
	list, _ := args.Get(0).([]domain.Review)
	return list, args.Error(1)
}

type MockReportUsecase struct {
	mock.Mock
}

func (m *MockReportUsecase) ExportGradebook(ctx context.Context, courseID uint) ([]byte, error) {
	args := m.Called(ctx, courseID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

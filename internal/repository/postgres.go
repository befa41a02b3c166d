package repository

import (
	"context"
	"errors"

	"coursehub-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewRepositories binds every repository to db, which may be a transaction.
func NewRepositories(db *gorm.DB) domain.Repositories {
	return domain.Repositories{
		Courses:     NewCourseRepository(db),
		Lessons:     NewLessonRepository(db),
		Quizzes:     NewQuizRepository(db),
		Enrollments: NewEnrollmentRepository(db),
		Progress:    NewLessonProgressRepository(db),
		Attempts:    NewQuizAttemptRepository(db),
		Reviews:     NewReviewRepository(db),
	}
}

// ========== UNIT OF WORK ==========

type unitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) domain.UnitOfWork {
	return &unitOfWork{db}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// ========== COURSE REPOSITORY ==========

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) domain.CourseRepository {
	return &courseRepo{db}
}

func (r *courseRepo) Create(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) Update(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// courseDetailColumns are the columns an instructor edit may write.
// Rating, review count and publication state have their own write paths.
var courseDetailColumns = []string{
	"title", "description", "short_description", "category", "tags_json",
	"total_duration_hours", "price", "image_url", "preview_video_url",
	"is_featured", "level", "updated_at",
}

func (r *courseRepo) UpdateDetails(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).
		Model(course).
		Select(courseDetailColumns).
		Updates(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id uint) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByIDForUpdate locks the course row until the surrounding transaction ends.
// Dialects without row locks (sqlite) drop the clause.
func (r *courseRepo) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetAll(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) GetPublished(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("published_at DESC, id DESC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Course{}, id).Error
}

// ========== LESSON REPOSITORY ==========

type lessonRepo struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) domain.LessonRepository {
	return &lessonRepo{db}
}

func (r *lessonRepo) Create(ctx context.Context, lesson *domain.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepo) Update(ctx context.Context, lesson *domain.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

func (r *lessonRepo) GetByID(ctx context.Context, id uint) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := r.db.WithContext(ctx).First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) GetByCourseID(ctx context.Context, courseID uint) ([]domain.Lesson, error) {
	var lessons []domain.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_number ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) DeleteByCourseID(ctx context.Context, courseID uint) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&domain.Lesson{}).Error
}

// ========== QUIZ REPOSITORY ==========

type quizRepo struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) domain.QuizRepository {
	return &quizRepo{db}
}

func (r *quizRepo) Create(ctx context.Context, quiz *domain.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepo) Update(ctx context.Context, quiz *domain.Quiz) error {
	return r.db.WithContext(ctx).Save(quiz).Error
}

func (r *quizRepo) GetByID(ctx context.Context, id uint) (*domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.db.WithContext(ctx).First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) GetByCourseID(ctx context.Context, courseID uint) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_number ASC, id ASC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepo) DeleteByCourseID(ctx context.Context, courseID uint) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&domain.Quiz{}).Error
}

// ========== ENROLLMENT REPOSITORY ==========

type enrollmentRepo struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) domain.EnrollmentRepository {
	return &enrollmentRepo{db}
}

// Create reports domain.ErrAlreadyEnrolled when the (user, course) index rejects the row.
func (r *enrollmentRepo) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	return mapUnique(r.db.WithContext(ctx).Create(enrollment).Error, domain.ErrAlreadyEnrolled)
}

func (r *enrollmentRepo) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id uint) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := r.db.WithContext(ctx).First(&enrollment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := r.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetByUserAndCourseForUpdate serialises writers on one enrollment for the
// rest of the transaction.
func (r *enrollmentRepo) GetByUserAndCourseForUpdate(ctx context.Context, userID string, courseID uint) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrollment_date DESC, id DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) GetByCourseID(ctx context.Context, courseID uint) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("enrollment_date ASC, id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) CountByCourseID(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *enrollmentRepo) DeleteByCourseID(ctx context.Context, courseID uint) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&domain.Enrollment{}).Error
}

// ========== LESSON PROGRESS REPOSITORY ==========

type lessonProgressRepo struct {
	db *gorm.DB
}

func NewLessonProgressRepository(db *gorm.DB) domain.LessonProgressRepository {
	return &lessonProgressRepo{db}
}

func (r *lessonProgressRepo) Create(ctx context.Context, progress *domain.LessonProgress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

func (r *lessonProgressRepo) Update(ctx context.Context, progress *domain.LessonProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

func (r *lessonProgressRepo) GetByEnrollmentAndLesson(ctx context.Context, enrollmentID, lessonID uint) (*domain.LessonProgress, error) {
	var progress domain.LessonProgress
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *lessonProgressRepo) GetByEnrollmentID(ctx context.Context, enrollmentID uint) ([]domain.LessonProgress, error) {
	var progress []domain.LessonProgress
	err := r.db.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).Find(&progress).Error
	return progress, err
}

func (r *lessonProgressRepo) DeleteByEnrollmentIDs(ctx context.Context, enrollmentIDs []uint) error {
	if len(enrollmentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("enrollment_id IN ?", enrollmentIDs).Delete(&domain.LessonProgress{}).Error
}

// ========== QUIZ ATTEMPT REPOSITORY ==========

type quizAttemptRepo struct {
	db *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) domain.QuizAttemptRepository {
	return &quizAttemptRepo{db}
}

func (r *quizAttemptRepo) Create(ctx context.Context, attempt *domain.QuizAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *quizAttemptRepo) GetByEnrollmentID(ctx context.Context, enrollmentID uint) ([]domain.QuizAttempt, error) {
	var attempts []domain.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("attempt_date ASC, id ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *quizAttemptRepo) GetByEnrollmentAndQuiz(ctx context.Context, enrollmentID, quizID uint) ([]domain.QuizAttempt, error) {
	var attempts []domain.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ? AND quiz_id = ?", enrollmentID, quizID).
		Order("attempt_date ASC, id ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *quizAttemptRepo) CountByEnrollmentAndQuiz(ctx context.Context, enrollmentID, quizID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.QuizAttempt{}).
		Where("enrollment_id = ? AND quiz_id = ?", enrollmentID, quizID).
		Count(&count).Error
	return count, err
}

func (r *quizAttemptRepo) GetByQuizID(ctx context.Context, quizID uint) ([]domain.QuizAttempt, error) {
	var attempts []domain.QuizAttempt
	err := r.db.WithContext(ctx).Where("quiz_id = ?", quizID).Find(&attempts).Error
	return attempts, err
}

func (r *quizAttemptRepo) DeleteByEnrollmentIDs(ctx context.Context, enrollmentIDs []uint) error {
	if len(enrollmentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("enrollment_id IN ?", enrollmentIDs).Delete(&domain.QuizAttempt{}).Error
}

// ========== REVIEW REPOSITORY ==========

type reviewRepo struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return &reviewRepo{db}
}

// Create reports domain.ErrDuplicateReview when the (user, course) index rejects the row.
func (r *reviewRepo) Create(ctx context.Context, review *domain.Review) error {
	return mapUnique(r.db.WithContext(ctx).Create(review).Error, domain.ErrDuplicateReview)
}

func (r *reviewRepo) Update(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepo) GetByID(ctx context.Context, id uint) (*domain.Review, error) {
	var review domain.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Review, error) {
	var review domain.Review
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*domain.Review, error) {
	var review domain.Review
	err := r.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) GetByCourseID(ctx context.Context, courseID uint) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) DeleteByCourseID(ctx context.Context, courseID uint) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&domain.Review{}).Error
}

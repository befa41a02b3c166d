package testutil

import (
	"fmt"
	"testing"
	"time"

	"coursehub-backend/internal/domain"

	"gorm.io/gorm"
)

func SeedCourse(tb testing.TB, db *gorm.DB, published bool) *domain.Course {
	tb.Helper()
	c := &domain.Course{
		Title:              "Go for Backend Engineers",
		Description:        "Services, storage and testing in Go.",
		Category:           "programming",
		Tags:               []string{"go", "backend"},
		TotalDurationHours: 12,
		Price:              49,
		InstructorID:       "instructor-1",
		Level:              domain.LevelIntermediate,
		Status:             domain.CourseDraft,
	}
	if published {
		c.Publish(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedLesson(tb testing.TB, db *gorm.DB, courseID uint, order int) *domain.Lesson {
	tb.Helper()
	l := &domain.Lesson{
		ElementBase: domain.ElementBase{
			CourseID:    courseID,
			Title:       fmt.Sprintf("Lesson %d", order),
			Description: "lesson",
			OrderNumber: order,
		},
		Content: "Read the chapter.",
	}
	if err := db.Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

// SeedQuiz creates a two-option quiz whose correct answer is index 1.
func SeedQuiz(tb testing.TB, db *gorm.DB, courseID uint, order int, mutate ...func(q *domain.Quiz)) *domain.Quiz {
	tb.Helper()
	q := &domain.Quiz{
		ElementBase: domain.ElementBase{
			CourseID:    courseID,
			Title:       fmt.Sprintf("Quiz %d", order),
			Description: "quiz",
			OrderNumber: order,
		},
		Question:              "Which keyword starts a goroutine?",
		Options:               []string{"defer", "go"},
		CorrectAnswerIndex:    1,
		AllowMultipleAttempts: true,
	}
	q.ApplyDefaults()
	for _, m := range mutate {
		m(q)
	}
	if err := db.Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedEnrollment(tb testing.TB, db *gorm.DB, userID string, courseID uint) *domain.Enrollment {
	tb.Helper()
	e := domain.NewEnrollment(userID, courseID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	if err := db.Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedReview(tb testing.TB, db *gorm.DB, userID string, courseID uint, rating int) *domain.Review {
	tb.Helper()
	r := domain.NewReview(userID, courseID, rating, "")
	if err := db.Create(r).Error; err != nil {
		tb.Fatalf("seed review: %v", err)
	}
	return r
}

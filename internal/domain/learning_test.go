package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"coursehub-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func grade(v float64) *float64 { return &v }

func TestEnrollmentCompleteCourse(t *testing.T) {
	e := domain.NewEnrollment("u-1", 1, t0)
	assert.Equal(t, domain.EnrollmentActive, e.Status)
	assert.False(t, e.IsCompleted())

	_, err := e.CompleteCourse(grade(120), t0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, e.IsCompleted())

	done, err := e.CompleteCourse(grade(91), t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, domain.EnrollmentCompleted, e.Status)

	// A second completion leaves date and grade alone.
	done, err = e.CompleteCourse(grade(50), t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, t0.Add(time.Hour), *e.CompletionDate)
	assert.Equal(t, 91.0, *e.Grade)

	d, ok := e.Duration()
	assert.True(t, ok)
	assert.Equal(t, time.Hour, d)

	assert.ErrorIs(t, e.Drop(t0), domain.ErrEnrollmentClosed)
}

func TestEnrollmentAssignGrade(t *testing.T) {
	e := domain.NewEnrollment("u-1", 1, t0)

	_, err := e.AssignGrade(-5, t0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, e.IsCompleted())

	done, err := e.AssignGrade(70, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 70.0, *e.Grade)

	done, err = e.AssignGrade(85, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 85.0, *e.Grade)
	assert.Equal(t, t0.Add(time.Hour), *e.CompletionDate)
}

func TestEnrollmentDrop(t *testing.T) {
	e := domain.NewEnrollment("u-1", 1, t0)
	require.NoError(t, e.Drop(t0.Add(time.Minute)))
	assert.Equal(t, domain.EnrollmentDropped, e.Status)
	require.NotNil(t, e.LastActivityDate)

	_, ok := e.Duration()
	assert.False(t, ok)
}

func TestLessonProgressTimeSpent(t *testing.T) {
	p := domain.LessonProgress{StartedAt: t0}
	_, ok := p.TimeSpent()
	assert.False(t, ok)

	p.SetCompleted(true, t0.Add(20*time.Minute))
	spent, ok := p.TimeSpent()
	assert.True(t, ok)
	assert.Equal(t, 20*time.Minute, spent)

	p.SetCompleted(false, t0.Add(time.Hour))
	assert.Nil(t, p.CompletedAt)
	_, ok = p.TimeSpent()
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	done := domain.NewEnrollment("u-1", 1, t0)
	_, _ = done.CompleteCourse(grade(80), t0)
	doneToo := domain.NewEnrollment("u-1", 2, t0)
	_, _ = doneToo.CompleteCourse(grade(90), t0)
	open := domain.NewEnrollment("u-1", 3, t0)
	dropped := domain.NewEnrollment("u-1", 4, t0)
	_ = dropped.Drop(t0)

	s := domain.Summarize("u-1", []domain.Enrollment{*done, *doneToo, *open, *dropped})

	assert.Equal(t, 4, s.TotalEnrollments)
	assert.Equal(t, 2, s.CompletedCourses)
	assert.Equal(t, 1, s.InProgress)
	assert.InDelta(t, 85.0, s.AverageGrade, 1e-9)

	assert.Equal(t, 0.0, domain.Summarize("u-2", nil).AverageGrade)
}

func TestProgressPercentage(t *testing.T) {
	detail := domain.NewCourseDetail(domain.Course{ID: 1},
		[]domain.Lesson{lesson(1, 1), lesson(2, 2)},
		[]domain.Quiz{quiz(3, 3)},
		nil, nil,
	)
	elements := detail.Elements()

	records := domain.ProgressRecords{
		LessonProgress: []domain.LessonProgress{
			{LessonID: 1, IsCompleted: true},
			{LessonID: 2, IsCompleted: false},
		},
		Attempts: []domain.QuizAttempt{
			{QuizID: 3, IsCorrect: false},
			{QuizID: 3, IsCorrect: true, PointsEarned: 10},
			{QuizID: 3, IsCorrect: true, PointsEarned: 10},
		},
	}

	assert.Equal(t, 2, records.CompletedElements(elements))
	assert.InDelta(t, 66.67, records.Percentage(elements), 0.01)
	assert.Equal(t, 10, records.QuizPoints())

	empty := domain.NewCourseDetail(domain.Course{ID: 2}, nil, nil, nil, nil)
	assert.Equal(t, 0.0, records.Percentage(empty.Elements()))
}

func TestQuizAttemptPolicy(t *testing.T) {
	q := domain.Quiz{AllowMultipleAttempts: false, MaxAttempts: 2}
	assert.True(t, q.CanUserAttempt(0))
	assert.True(t, q.CanUserAttempt(1))
	assert.False(t, q.CanUserAttempt(2))

	q.AllowMultipleAttempts = true
	assert.True(t, q.CanUserAttempt(50))
}

func TestQuizCheck(t *testing.T) {
	q := quiz(1, 1)
	q.Title = "Q"
	q.Description = "pick one"
	q.Question = "Which keyword defers?"
	q.Options = []string{"go", "defer"}
	q.CorrectAnswerIndex = 1
	q.ApplyDefaults()

	require.NoError(t, q.Check())
	assert.Equal(t, domain.DefaultQuizPoints, q.Points)
	assert.Equal(t, domain.DefaultQuizMaxAttempts, q.MaxAttempts)
	assert.Equal(t, domain.QuizSingleChoice, q.Type)

	q.CorrectAnswerIndex = 2
	assert.ErrorIs(t, q.Check(), domain.ErrValidation)
}

func TestQuizNewAttempt(t *testing.T) {
	q := quiz(7, 1)
	q.CorrectAnswerIndex = 1
	q.Points = 15

	right := q.NewAttempt(3, 1, 30*time.Second, t0)
	assert.True(t, right.IsCorrect)
	assert.Equal(t, 15, right.PointsEarned)
	assert.Equal(t, uint(7), right.QuizID)

	wrong := q.NewAttempt(3, 0, 0, t0)
	assert.False(t, wrong.IsCorrect)
	assert.Equal(t, 0, wrong.PointsEarned)

	stats := domain.NewQuizStats(7, []domain.QuizAttempt{*right, *wrong})
	assert.Equal(t, 2, stats.AttemptCount)
	assert.Equal(t, 1, stats.CorrectCount)
	assert.InDelta(t, 50.0, stats.SuccessRate, 1e-9)
	assert.Equal(t, 0.0, domain.SuccessRate(nil))
}

func TestQuizAttemptJSONReportsSeconds(t *testing.T) {
	q := quiz(7, 1)
	a := q.NewAttempt(3, 0, 45*time.Second, t0)

	raw, err := json.Marshal(a)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, 45.0, fields["time_spent_seconds"])
	assert.NotContains(t, fields, "time_spent")
	assert.Equal(t, 7.0, fields["quiz_id"])

	list, err := json.Marshal([]domain.QuizAttempt{*a})
	require.NoError(t, err)
	assert.Contains(t, string(list), `"time_spent_seconds":45`)
}

func TestReviewHelpfulAndRating(t *testing.T) {
	r := domain.NewReview("u-1", 1, 5, "")
	assert.False(t, r.HasComment())

	r.UnmarkHelpful(t0)
	assert.Equal(t, 0, r.HelpfulCount)
	r.MarkHelpful(t0)
	r.MarkHelpful(t0)
	r.UnmarkHelpful(t0)
	assert.Equal(t, 1, r.HelpfulCount)

	c := domain.Course{}
	c.ApplyReviews([]domain.Review{{Rating: 4}, {Rating: 5}, {Rating: 3}})
	assert.Equal(t, 3, c.ReviewCount)
	assert.InDelta(t, 4.0, c.Rating, 1e-9)

	c.ApplyReviews(nil)
	assert.Equal(t, 0, c.ReviewCount)
	assert.Equal(t, 0.0, c.Rating)
}

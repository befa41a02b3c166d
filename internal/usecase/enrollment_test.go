package usecase_test

import (
	"context"
	"testing"
	"time"

	"coursehub-backend/internal/domain"
	"coursehub-backend/internal/testutil"
	"coursehub-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollUser(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewEnrollmentUsecase(e.deps, true)
	ctx := context.Background()

	live := testutil.SeedCourse(t, e.db, true)
	draft := testutil.SeedCourse(t, e.db, false)

	t.Run("First enrollment", func(t *testing.T) {
		enrollment, err := uc.EnrollUser(ctx, "u-1", live.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EnrollmentActive, enrollment.Status)
		assert.Equal(t, e.clock.Now(), enrollment.EnrollmentDate)
		assert.True(t, e.cache.wasInvalidated(live.ID))
		assert.Contains(t, e.activityTypes(), domain.ActivityEnrolled)
	})

	t.Run("Second enrollment is a duplicate", func(t *testing.T) {
		_, err := uc.EnrollUser(ctx, "u-1", live.ID)
		assert.ErrorIs(t, err, domain.ErrDuplicateRelationship)

		n, err := e.deps.Repos.Enrollments.CountByCourseID(ctx, live.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Publication is left to the caller", func(t *testing.T) {
		ok, err := uc.CanEnroll(ctx, "u-3", draft.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		enrollment, err := uc.EnrollUser(ctx, "u-3", draft.ID)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, enrollment.CourseID)
	})

	t.Run("Missing course", func(t *testing.T) {
		_, err := uc.EnrollUser(ctx, "u-1", 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Blank user", func(t *testing.T) {
		_, err := uc.EnrollUser(ctx, "  ", live.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("CanEnroll", func(t *testing.T) {
		ok, err := uc.CanEnroll(ctx, "u-1", live.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = uc.CanEnroll(ctx, "u-2", live.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = uc.CanEnroll(ctx, "u-2", draft.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCompleteCourseIsIdempotent(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewEnrollmentUsecase(e.deps, true)
	ctx := context.Background()

	course := testutil.SeedCourse(t, e.db, true)
	testutil.SeedEnrollment(t, e.db, "u-1", course.ID)

	grade := 92.0
	first, err := uc.CompleteCourse(ctx, "u-1", course.ID, &grade)
	require.NoError(t, err)
	require.NotNil(t, first.CompletionDate)
	completedAt := *first.CompletionDate

	e.clock.Advance(time.Hour)
	other := 10.0
	second, err := uc.CompleteCourse(ctx, "u-1", course.ID, &other)
	require.NoError(t, err)
	assert.WithinDuration(t, completedAt, *second.CompletionDate, time.Second)
	assert.Equal(t, 92.0, *second.Grade)

	completions := 0
	for _, typ := range e.activityTypes() {
		if typ == domain.ActivityCourseCompleted {
			completions++
		}
	}
	assert.Equal(t, 1, completions)

	_, err = uc.DropCourse(ctx, "u-1", course.ID)
	assert.ErrorIs(t, err, domain.ErrEnrollmentClosed)

	_, err = uc.CompleteCourse(ctx, "u-9", course.ID, nil)
	assert.ErrorIs(t, err, domain.ErrNoEnrollment)
}

func TestCompleteCourseRejectsBadGrade(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewEnrollmentUsecase(e.deps, true)
	ctx := context.Background()

	course := testutil.SeedCourse(t, e.db, true)
	testutil.SeedEnrollment(t, e.db, "u-1", course.ID)

	grade := -1.0
	_, err := uc.CompleteCourse(ctx, "u-1", course.ID, &grade)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := uc.GetEnrollment(ctx, "u-1", course.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CompletionDate)
}

func TestGradeEnrollment(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewEnrollmentUsecase(e.deps, true)
	ctx := context.Background()

	course := testutil.SeedCourse(t, e.db, true)
	testutil.SeedEnrollment(t, e.db, "u-1", course.ID)
	testutil.SeedEnrollment(t, e.db, "u-2", course.ID)

	t.Run("Grading completes an active enrollment", func(t *testing.T) {
		got, err := uc.GradeEnrollment(ctx, "u-1", course.ID, 77)
		require.NoError(t, err)
		assert.Equal(t, domain.EnrollmentCompleted, got.Status)
		require.NotNil(t, got.Grade)
		assert.Equal(t, 77.0, *got.Grade)
		assert.Contains(t, e.activityTypes(), domain.ActivityCourseCompleted)
	})

	t.Run("Regrading keeps the completion date", func(t *testing.T) {
		_, err := uc.CompleteCourse(ctx, "u-2", course.ID, nil)
		require.NoError(t, err)
		before, err := uc.GetEnrollment(ctx, "u-2", course.ID)
		require.NoError(t, err)

		e.clock.Advance(time.Hour)
		got, err := uc.GradeEnrollment(ctx, "u-2", course.ID, 64.5)
		require.NoError(t, err)
		assert.Equal(t, 64.5, *got.Grade)

		stored, err := uc.GetEnrollment(ctx, "u-2", course.ID)
		require.NoError(t, err)
		assert.Equal(t, 64.5, *stored.Grade)
		assert.WithinDuration(t, *before.CompletionDate, *stored.CompletionDate, time.Second)
	})

	t.Run("Out of range", func(t *testing.T) {
		_, err := uc.GradeEnrollment(ctx, "u-1", course.ID, 101)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Not enrolled", func(t *testing.T) {
		_, err := uc.GradeEnrollment(ctx, "u-9", course.ID, 50)
		assert.ErrorIs(t, err, domain.ErrNoEnrollment)
	})
}

func TestDropCourse(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewEnrollmentUsecase(e.deps, true)
	ctx := context.Background()

	course := testutil.SeedCourse(t, e.db, true)
	testutil.SeedEnrollment(t, e.db, "u-1", course.ID)

	dropped, err := uc.DropCourse(ctx, "u-1", course.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentDropped, dropped.Status)
}

func TestCourseProgress(t *testing.T) {
	e := newEnv(t)
	enrollments := usecase.NewEnrollmentUsecase(e.deps, true)
	quizzes := usecase.NewQuizUsecase(e.deps, true)
	ctx := context.Background()

	course := testutil.SeedCourse(t, e.db, true)
	l1 := testutil.SeedLesson(t, e.db, course.ID, 1)
	l2 := testutil.SeedLesson(t, e.db, course.ID, 2)
	quiz := testutil.SeedQuiz(t, e.db, course.ID, 3)
	testutil.SeedEnrollment(t, e.db, "u-1", course.ID)

	t.Run("Not enrolled is zero", func(t *testing.T) {
		p, err := enrollments.GetCourseProgress(ctx, "u-2", course.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, p)
	})

	t.Run("One lesson and a passed quiz", func(t *testing.T) {
		_, err := enrollments.UpdateLessonProgress(ctx, "u-1", l1.ID, true)
		require.NoError(t, err)
		_, err = enrollments.UpdateLessonProgress(ctx, "u-1", l2.ID, false)
		require.NoError(t, err)
		_, err = quizzes.SubmitQuizAnswer(ctx, "u-1", quiz.ID, quiz.CorrectAnswerIndex, 30*time.Second)
		require.NoError(t, err)

		p, err := enrollments.GetCourseProgress(ctx, "u-1", course.ID)
		require.NoError(t, err)
		assert.InDelta(t, 66.67, p, 0.01)

		got, err := enrollments.GetEnrollment(ctx, "u-1", course.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.CompletedElements)
		assert.Equal(t, 3, got.TotalElements)
		assert.NotNil(t, got.LastActivityDate)
		assert.Nil(t, got.CompletionDate)
	})

	t.Run("Upsert keeps one row per lesson", func(t *testing.T) {
		_, err := enrollments.UpdateLessonProgress(ctx, "u-1", l1.ID, false)
		require.NoError(t, err)
		p, err := enrollments.UpdateLessonProgress(ctx, "u-1", l1.ID, true)
		require.NoError(t, err)
		assert.True(t, p.IsCompleted)

		got, err := enrollments.GetEnrollment(ctx, "u-1", course.ID)
		require.NoError(t, err)
		records, err := e.deps.Repos.Progress.GetByEnrollmentID(ctx, got.ID)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("Last element completes the course", func(t *testing.T) {
		_, err := enrollments.UpdateLessonProgress(ctx, "u-1", l2.ID, true)
		require.NoError(t, err)

		got, err := enrollments.GetEnrollment(ctx, "u-1", course.ID)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, got.Progress, 1e-9)
		assert.Equal(t, domain.EnrollmentCompleted, got.Status)
		assert.Nil(t, got.Grade)
		assert.Contains(t, e.activityTypes(), domain.ActivityCourseCompleted)
	})

	t.Run("Unknown lesson", func(t *testing.T) {
		_, err := enrollments.UpdateLessonProgress(ctx, "u-1", 999, true)
		assert.ErrorIs(t, err, domain.ErrLessonNotFound)
	})

	t.Run("Lesson of a course the user is not in", func(t *testing.T) {
		_, err := enrollments.UpdateLessonProgress(ctx, "u-2", l1.ID, true)
		assert.ErrorIs(t, err, domain.ErrNoEnrollment)
	})
}

func TestAutoCompleteDisabled(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewEnrollmentUsecase(e.deps, false)
	ctx := context.Background()

	course := testutil.SeedCourse(t, e.db, true)
	lesson := testutil.SeedLesson(t, e.db, course.ID, 1)
	testutil.SeedEnrollment(t, e.db, "u-1", course.ID)

	_, err := uc.UpdateLessonProgress(ctx, "u-1", lesson.ID, true)
	require.NoError(t, err)

	got, err := uc.GetEnrollment(ctx, "u-1", course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got.Progress, 1e-9)
	assert.Equal(t, domain.EnrollmentActive, got.Status)
}

func TestEmptyCourseProgressIsZero(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewEnrollmentUsecase(e.deps, true)
	ctx := context.Background()

	course := testutil.SeedCourse(t, e.db, true)
	testutil.SeedEnrollment(t, e.db, "u-1", course.ID)

	p, err := uc.GetCourseProgress(ctx, "u-1", course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)
}

func TestGetStudentEnrollments(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewEnrollmentUsecase(e.deps, true)
	ctx := context.Background()

	a := testutil.SeedCourse(t, e.db, true)
	b := testutil.SeedCourse(t, e.db, true)
	testutil.SeedEnrollment(t, e.db, "u-1", a.ID)
	testutil.SeedEnrollment(t, e.db, "u-1", b.ID)

	grade := 70.0
	_, err := uc.CompleteCourse(ctx, "u-1", a.ID, &grade)
	require.NoError(t, err)

	list, summary, err := uc.GetStudentEnrollments(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, a.Title, list[0].CourseTitle)
	assert.Equal(t, 2, summary.TotalEnrollments)
	assert.Equal(t, 1, summary.CompletedCourses)
	assert.Equal(t, 1, summary.InProgress)
	assert.Equal(t, 70.0, summary.AverageGrade)

	_, err = uc.GetEnrollment(ctx, "u-2", a.ID)
	assert.ErrorIs(t, err, domain.ErrNoEnrollment)
}

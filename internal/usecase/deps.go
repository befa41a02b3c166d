package usecase

import (
	"context"
	"errors"
	"time"

	"coursehub-backend/internal/domain"
	"coursehub-backend/pkg/logger"
)

// Deps are the collaborators shared by every usecase. Activity, Cache, Log
// and Now are optional.
type Deps struct {
	Repos    domain.Repositories
	UoW      domain.UnitOfWork
	Activity domain.ActivityLog
	Cache    domain.StatsCache
	Log      *logger.Logger
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Activity == nil {
		d.Activity = nopActivity{}
	}
	if d.Cache == nil {
		d.Cache = nopCache{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// record writes an activity event after commit. Failures are logged only.
func (d Deps) record(ctx context.Context, event domain.ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = d.Now()
	}
	if err := d.Activity.Record(ctx, event); err != nil {
		d.Log.Warn("activity record failed", "type", event.Type, "course_id", event.CourseID, "error", err)
	}
}

func (d Deps) invalidateStats(ctx context.Context, courseID uint) {
	if err := d.Cache.Invalidate(ctx, courseID); err != nil {
		d.Log.Warn("stats cache invalidation failed", "course_id", courseID, "error", err)
	}
}

// storeErr passes domain outcomes through and tags everything else as a
// persistence failure of op.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrDuplicateRelationship),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAttemptLimitExceeded),
		errors.Is(err, domain.ErrCourseNotPublished),
		errors.Is(err, domain.ErrEnrollmentClosed),
		errors.Is(err, domain.ErrPersistence):
		return err
	}
	return domain.PersistenceError(op, err)
}

// progressOf loads everything needed to compute one enrollment's progress.
func progressOf(ctx context.Context, repos domain.Repositories, e *domain.Enrollment) (*domain.CourseDetail, domain.ProgressRecords, error) {
	var records domain.ProgressRecords

	course, err := repos.Courses.GetByID(ctx, e.CourseID)
	if err != nil {
		return nil, records, err
	}
	if course == nil {
		return nil, records, domain.ErrCourseNotFound
	}
	lessons, err := repos.Lessons.GetByCourseID(ctx, e.CourseID)
	if err != nil {
		return nil, records, err
	}
	quizzes, err := repos.Quizzes.GetByCourseID(ctx, e.CourseID)
	if err != nil {
		return nil, records, err
	}
	if records.LessonProgress, err = repos.Progress.GetByEnrollmentID(ctx, e.ID); err != nil {
		return nil, records, err
	}
	if records.Attempts, err = repos.Attempts.GetByEnrollmentID(ctx, e.ID); err != nil {
		return nil, records, err
	}
	return domain.NewCourseDetail(*course, lessons, quizzes, nil, nil), records, nil
}

// autoComplete completes e (without a grade) when enabled and every
// completable element of its course is done. The caller persists e.
func autoComplete(ctx context.Context, enabled bool, now time.Time, repos domain.Repositories, e *domain.Enrollment) (bool, error) {
	if !enabled || e.IsCompleted() {
		return false, nil
	}
	detail, records, err := progressOf(ctx, repos, e)
	if err != nil {
		return false, err
	}
	elements := detail.Elements()
	if domain.CompletableCount(elements) == 0 || records.Percentage(elements) < 100 {
		return false, nil
	}
	return e.CompleteCourse(nil, now)
}

func withProgress(e domain.Enrollment, detail *domain.CourseDetail, records domain.ProgressRecords) domain.EnrollmentWithProgress {
	elements := detail.Elements()
	return domain.EnrollmentWithProgress{
		Enrollment:        e,
		CourseTitle:       detail.Title,
		CompletedElements: records.CompletedElements(elements),
		TotalElements:     domain.CompletableCount(elements),
		Progress:          records.Percentage(elements),
	}
}

type nopActivity struct{}

func (nopActivity) Record(context.Context, domain.ActivityEvent) error { return nil }
func (nopActivity) ListByCourse(context.Context, uint, int64) ([]domain.ActivityEvent, error) {
	return nil, nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, uint) (*domain.CourseStats, error) { return nil, nil }
func (nopCache) Version(context.Context, uint) (int64, error)           { return 0, nil }
func (nopCache) Set(context.Context, *domain.CourseStats, int64) error  { return nil }
func (nopCache) Invalidate(context.Context, uint) error                 { return nil }

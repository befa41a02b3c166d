package usecase

import (
	"context"
	"strings"

	"coursehub-backend/internal/domain"
)

type enrollmentUsecase struct {
	Deps
	autoComplete bool
}

// NewEnrollmentUsecase - with autoComplete set, an enrollment is completed
// (without a grade) as soon as its progress reaches 100%.
func NewEnrollmentUsecase(deps Deps, autoComplete bool) domain.EnrollmentUsecase {
	return &enrollmentUsecase{Deps: deps.withDefaults(), autoComplete: autoComplete}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.NewValidationError("user_id", "is required")
	}
	return nil
}

// ========== ENROLLMENT ==========

// EnrollUser does not look at publication; callers guard with CanEnroll or
// their own check before enrolling.
func (uc *enrollmentUsecase) EnrollUser(ctx context.Context, userID string, courseID uint) (*domain.Enrollment, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var enrollment *domain.Enrollment
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		course, err := repos.Courses.GetByID(ctx, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domain.ErrCourseNotFound
		}

		existing, err := repos.Enrollments.GetByUserAndCourse(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyEnrolled
		}

		enrollment = domain.NewEnrollment(userID, courseID, uc.Now())
		return repos.Enrollments.Create(ctx, enrollment)
	})
	if err != nil {
		return nil, storeErr("enroll user", err)
	}

	uc.Log.Info("user enrolled", "user_id", userID, "course_id", courseID, "enrollment_id", enrollment.ID)
	uc.record(ctx, domain.ActivityEvent{
		Type:     domain.ActivityEnrolled,
		UserID:   userID,
		CourseID: courseID,
		EntityID: enrollment.ID,
	})
	uc.invalidateStats(ctx, courseID)
	return enrollment, nil
}

func (uc *enrollmentUsecase) CanEnroll(ctx context.Context, userID string, courseID uint) (bool, error) {
	course, err := uc.Repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return false, storeErr("can enroll", err)
	}
	if course == nil {
		return false, domain.ErrCourseNotFound
	}
	if !course.IsPublished {
		return false, nil
	}
	existing, err := uc.Repos.Enrollments.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return false, storeErr("can enroll", err)
	}
	return existing == nil, nil
}

func (uc *enrollmentUsecase) CompleteCourse(ctx context.Context, userID string, courseID uint, grade *float64) (*domain.Enrollment, error) {
	var (
		enrollment *domain.Enrollment
		changed    bool
	)
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		enrollment, err = repos.Enrollments.GetByUserAndCourseForUpdate(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return domain.ErrNoEnrollment
		}
		changed, err = enrollment.CompleteCourse(grade, uc.Now())
		if err != nil || !changed {
			return err
		}
		return repos.Enrollments.Update(ctx, enrollment)
	})
	if err != nil {
		return nil, storeErr("complete course", err)
	}

	if changed {
		uc.afterCompletion(ctx, enrollment)
	}
	return enrollment, nil
}

// GradeEnrollment is the instructor path: unlike CompleteCourse it overwrites
// the grade of an already completed enrollment.
func (uc *enrollmentUsecase) GradeEnrollment(ctx context.Context, userID string, courseID uint, grade float64) (*domain.Enrollment, error) {
	var (
		enrollment *domain.Enrollment
		completed  bool
	)
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		enrollment, err = repos.Enrollments.GetByUserAndCourseForUpdate(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return domain.ErrNoEnrollment
		}
		if completed, err = enrollment.AssignGrade(grade, uc.Now()); err != nil {
			return err
		}
		return repos.Enrollments.Update(ctx, enrollment)
	})
	if err != nil {
		return nil, storeErr("grade enrollment", err)
	}

	uc.Log.Info("enrollment graded", "user_id", userID, "course_id", courseID, "grade", grade)
	if completed {
		uc.afterCompletion(ctx, enrollment)
	}
	return enrollment, nil
}

func (uc *enrollmentUsecase) DropCourse(ctx context.Context, userID string, courseID uint) (*domain.Enrollment, error) {
	var enrollment *domain.Enrollment
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		enrollment, err = repos.Enrollments.GetByUserAndCourseForUpdate(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return domain.ErrNoEnrollment
		}
		if err := enrollment.Drop(uc.Now()); err != nil {
			return err
		}
		return repos.Enrollments.Update(ctx, enrollment)
	})
	if err != nil {
		return nil, storeErr("drop course", err)
	}
	uc.Log.Info("enrollment dropped", "user_id", userID, "course_id", courseID)
	return enrollment, nil
}

func (uc *enrollmentUsecase) afterCompletion(ctx context.Context, e *domain.Enrollment) {
	uc.Log.Info("course completed", "user_id", e.UserID, "course_id", e.CourseID, "enrollment_id", e.ID)
	uc.record(ctx, domain.ActivityEvent{
		Type:     domain.ActivityCourseCompleted,
		UserID:   e.UserID,
		CourseID: e.CourseID,
		EntityID: e.ID,
	})
	uc.invalidateStats(ctx, e.CourseID)
}

// ========== PROGRESS ==========

// GetCourseProgress is 0 for users who are not enrolled.
func (uc *enrollmentUsecase) GetCourseProgress(ctx context.Context, userID string, courseID uint) (float64, error) {
	enrollment, err := uc.Repos.Enrollments.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return 0, storeErr("get course progress", err)
	}
	if enrollment == nil {
		return 0, nil
	}
	detail, records, err := progressOf(ctx, uc.Repos, enrollment)
	if err != nil {
		return 0, storeErr("get course progress", err)
	}
	return records.Percentage(detail.Elements()), nil
}

// UpdateLessonProgress upserts the (enrollment, lesson) progress row and
// touches the enrollment's activity date in the same transaction.
func (uc *enrollmentUsecase) UpdateLessonProgress(ctx context.Context, userID string, lessonID uint, completed bool) (*domain.LessonProgress, error) {
	var (
		progress   *domain.LessonProgress
		enrollment *domain.Enrollment
		finished   bool
	)
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		lesson, err := repos.Lessons.GetByID(ctx, lessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return domain.ErrLessonNotFound
		}

		enrollment, err = repos.Enrollments.GetByUserAndCourseForUpdate(ctx, userID, lesson.CourseID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return domain.ErrNoEnrollment
		}

		now := uc.Now()
		progress, err = repos.Progress.GetByEnrollmentAndLesson(ctx, enrollment.ID, lessonID)
		if err != nil {
			return err
		}
		if progress == nil {
			progress = &domain.LessonProgress{
				EnrollmentID: enrollment.ID,
				LessonID:     lessonID,
				StartedAt:    now,
			}
			progress.SetCompleted(completed, now)
			err = repos.Progress.Create(ctx, progress)
		} else {
			progress.SetCompleted(completed, now)
			err = repos.Progress.Update(ctx, progress)
		}
		if err != nil {
			return err
		}

		enrollment.Touch(now)
		if completed {
			if finished, err = autoComplete(ctx, uc.autoComplete, now, repos, enrollment); err != nil {
				return err
			}
		}
		return repos.Enrollments.Update(ctx, enrollment)
	})
	if err != nil {
		return nil, storeErr("update lesson progress", err)
	}

	uc.Log.Debug("lesson progress updated", "user_id", userID, "lesson_id", lessonID, "completed", completed)
	uc.record(ctx, domain.ActivityEvent{
		Type:     domain.ActivityLessonProgress,
		UserID:   userID,
		CourseID: enrollment.CourseID,
		EntityID: lessonID,
		Detail:   map[string]any{"completed": completed},
	})
	if finished {
		uc.afterCompletion(ctx, enrollment)
	}
	return progress, nil
}

// ========== QUERIES ==========

func (uc *enrollmentUsecase) GetEnrollment(ctx context.Context, userID string, courseID uint) (*domain.EnrollmentWithProgress, error) {
	enrollment, err := uc.Repos.Enrollments.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, storeErr("get enrollment", err)
	}
	if enrollment == nil {
		return nil, domain.ErrNoEnrollment
	}
	detail, records, err := progressOf(ctx, uc.Repos, enrollment)
	if err != nil {
		return nil, storeErr("get enrollment", err)
	}
	out := withProgress(*enrollment, detail, records)
	return &out, nil
}

func (uc *enrollmentUsecase) GetStudentEnrollments(ctx context.Context, userID string) ([]domain.EnrollmentWithProgress, *domain.StudentSummary, error) {
	enrollments, err := uc.Repos.Enrollments.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, storeErr("get student enrollments", err)
	}

	out := make([]domain.EnrollmentWithProgress, 0, len(enrollments))
	for i := range enrollments {
		detail, records, err := progressOf(ctx, uc.Repos, &enrollments[i])
		if err != nil {
			return nil, nil, storeErr("get student enrollments", err)
		}
		out = append(out, withProgress(enrollments[i], detail, records))
	}

	summary := domain.Summarize(userID, enrollments)
	return out, &summary, nil
}

package usecase

import (
	"context"
	"errors"
	"time"

	"coursehub-backend/internal/domain"
)

type quizUsecase struct {
	Deps
	autoComplete bool
}

func NewQuizUsecase(deps Deps, autoComplete bool) domain.QuizUsecase {
	return &quizUsecase{Deps: deps.withDefaults(), autoComplete: autoComplete}
}

// SubmitQuizAnswer scores and appends a new attempt. A submission over the
// attempt limit is refused before anything is written.
func (uc *quizUsecase) SubmitQuizAnswer(ctx context.Context, userID string, quizID uint, selectedIndex int, timeSpent time.Duration) (*domain.QuizAttempt, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if timeSpent < 0 {
		return nil, domain.NewValidationError("time_spent_seconds", "must not be negative")
	}

	var (
		attempt    *domain.QuizAttempt
		enrollment *domain.Enrollment
		finished   bool
	)
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		quiz, err := repos.Quizzes.GetByID(ctx, quizID)
		if err != nil {
			return err
		}
		if quiz == nil {
			return domain.ErrQuizNotFound
		}
		if selectedIndex < 0 || selectedIndex >= len(quiz.Options) {
			return domain.NewValidationError("selected_answer_index", "must reference one of the options")
		}

		enrollment, err = repos.Enrollments.GetByUserAndCourseForUpdate(ctx, userID, quiz.CourseID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return domain.ErrNoEnrollment
		}

		count, err := repos.Attempts.CountByEnrollmentAndQuiz(ctx, enrollment.ID, quiz.ID)
		if err != nil {
			return err
		}
		if !quiz.CanUserAttempt(count) {
			return domain.ErrAttemptLimitExceeded
		}

		now := uc.Now()
		attempt = quiz.NewAttempt(enrollment.ID, selectedIndex, timeSpent, now)
		if err := repos.Attempts.Create(ctx, attempt); err != nil {
			return err
		}

		enrollment.Touch(now)
		if attempt.IsCorrect {
			if finished, err = autoComplete(ctx, uc.autoComplete, now, repos, enrollment); err != nil {
				return err
			}
		}
		return repos.Enrollments.Update(ctx, enrollment)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAttemptLimitExceeded) {
			uc.Log.Info("quiz attempt refused", "user_id", userID, "quiz_id", quizID)
		}
		return nil, storeErr("submit quiz answer", err)
	}

	uc.Log.Debug("quiz attempt recorded", "user_id", userID, "quiz_id", quizID, "correct", attempt.IsCorrect)
	uc.record(ctx, domain.ActivityEvent{
		Type:     domain.ActivityQuizAttempt,
		UserID:   userID,
		CourseID: enrollment.CourseID,
		EntityID: quizID,
		Detail:   map[string]any{"correct": attempt.IsCorrect, "points": attempt.PointsEarned},
	})
	if finished {
		uc.Log.Info("course completed", "user_id", userID, "course_id", enrollment.CourseID)
		uc.record(ctx, domain.ActivityEvent{
			Type:     domain.ActivityCourseCompleted,
			UserID:   userID,
			CourseID: enrollment.CourseID,
			EntityID: enrollment.ID,
		})
		uc.invalidateStats(ctx, enrollment.CourseID)
	}
	return attempt, nil
}

// CanUserAttempt counts the user's attempts through their enrollment; a user
// without an enrollment has none.
func (uc *quizUsecase) CanUserAttempt(ctx context.Context, userID string, quizID uint) (bool, error) {
	quiz, err := uc.Repos.Quizzes.GetByID(ctx, quizID)
	if err != nil {
		return false, storeErr("can user attempt", err)
	}
	if quiz == nil {
		return false, domain.ErrQuizNotFound
	}
	if quiz.AllowMultipleAttempts {
		return true, nil
	}

	var count int64
	enrollment, err := uc.Repos.Enrollments.GetByUserAndCourse(ctx, userID, quiz.CourseID)
	if err != nil {
		return false, storeErr("can user attempt", err)
	}
	if enrollment != nil {
		if count, err = uc.Repos.Attempts.CountByEnrollmentAndQuiz(ctx, enrollment.ID, quizID); err != nil {
			return false, storeErr("can user attempt", err)
		}
	}
	return quiz.CanUserAttempt(count), nil
}

func (uc *quizUsecase) GetAttempts(ctx context.Context, userID string, quizID uint) ([]domain.QuizAttempt, error) {
	quiz, err := uc.Repos.Quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, storeErr("get attempts", err)
	}
	if quiz == nil {
		return nil, domain.ErrQuizNotFound
	}
	enrollment, err := uc.Repos.Enrollments.GetByUserAndCourse(ctx, userID, quiz.CourseID)
	if err != nil {
		return nil, storeErr("get attempts", err)
	}
	if enrollment == nil {
		return nil, domain.ErrNoEnrollment
	}
	attempts, err := uc.Repos.Attempts.GetByEnrollmentAndQuiz(ctx, enrollment.ID, quizID)
	return attempts, storeErr("get attempts", err)
}

func (uc *quizUsecase) GetQuizStats(ctx context.Context, quizID uint) (*domain.QuizStats, error) {
	quiz, err := uc.Repos.Quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, storeErr("get quiz stats", err)
	}
	if quiz == nil {
		return nil, domain.ErrQuizNotFound
	}
	attempts, err := uc.Repos.Attempts.GetByQuizID(ctx, quizID)
	if err != nil {
		return nil, storeErr("get quiz stats", err)
	}
	stats := domain.NewQuizStats(quizID, attempts)
	return &stats, nil
}

package usecase

import (
	"context"
	"time"

	"coursehub-backend/internal/domain"
)

type reviewUsecase struct {
	Deps
}

func NewReviewUsecase(deps Deps) domain.ReviewUsecase {
	return &reviewUsecase{Deps: deps.withDefaults()}
}

// AddReview inserts the review and recomputes the course rating and review
// count in the same transaction, holding the course row lock.
func (uc *reviewUsecase) AddReview(ctx context.Context, userID string, courseID uint, rating int, comment string) (*domain.Review, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	review := domain.NewReview(userID, courseID, rating, comment)
	review.CreatedAt = uc.Now()
	if err := domain.Validate(review); err != nil {
		return nil, err
	}

	var course *domain.Course
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		course, err = repos.Courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domain.ErrCourseNotFound
		}

		existing, err := repos.Reviews.GetByUserAndCourse(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateReview
		}
		if err := repos.Reviews.Create(ctx, review); err != nil {
			return err
		}

		reviews, err := repos.Reviews.GetByCourseID(ctx, courseID)
		if err != nil {
			return err
		}
		course.ApplyReviews(reviews)
		return repos.Courses.Update(ctx, course)
	})
	if err != nil {
		return nil, storeErr("add review", err)
	}

	uc.Log.Info("review added", "user_id", userID, "course_id", courseID, "rating", rating,
		"course_rating", course.Rating, "review_count", course.ReviewCount)
	uc.record(ctx, domain.ActivityEvent{
		Type:     domain.ActivityReviewAdded,
		UserID:   userID,
		CourseID: courseID,
		EntityID: review.ID,
		Detail:   map[string]any{"rating": rating},
	})
	uc.invalidateStats(ctx, courseID)
	return review, nil
}

func (uc *reviewUsecase) MarkHelpful(ctx context.Context, reviewID uint) (*domain.Review, error) {
	return uc.updateHelpful(ctx, reviewID, "mark helpful", (*domain.Review).MarkHelpful)
}

func (uc *reviewUsecase) UnmarkHelpful(ctx context.Context, reviewID uint) (*domain.Review, error) {
	return uc.updateHelpful(ctx, reviewID, "unmark helpful", (*domain.Review).UnmarkHelpful)
}

// updateHelpful holds the review row lock across the read and the write.
func (uc *reviewUsecase) updateHelpful(ctx context.Context, reviewID uint, op string, apply func(*domain.Review, time.Time)) (*domain.Review, error) {
	var review *domain.Review
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		review, err = repos.Reviews.GetByIDForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}
		if review == nil {
			return domain.ErrReviewNotFound
		}
		apply(review, uc.Now())
		return repos.Reviews.Update(ctx, review)
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return review, nil
}

func (uc *reviewUsecase) GetCourseReviews(ctx context.Context, courseID uint) ([]domain.Review, error) {
	course, err := uc.Repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, storeErr("get course reviews", err)
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}
	reviews, err := uc.Repos.Reviews.GetByCourseID(ctx, courseID)
	return reviews, storeErr("get course reviews", err)
}

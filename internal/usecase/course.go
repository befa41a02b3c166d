package usecase

import (
	"context"

	"coursehub-backend/internal/domain"
)

type courseUsecase struct {
	Deps
}

func NewCourseUsecase(deps Deps) domain.CourseUsecase {
	return &courseUsecase{Deps: deps.withDefaults()}
}

// ========== READ ACCESSORS ==========

func (uc *courseUsecase) GetCourse(ctx context.Context, courseID uint) (*domain.Course, error) {
	return uc.requireCourse(ctx, courseID)
}

func (uc *courseUsecase) GetCourseDetail(ctx context.Context, courseID uint) (*domain.CourseDetail, error) {
	detail, err := loadCourseDetail(ctx, uc.Repos, courseID)
	return detail, storeErr("get course detail", err)
}

func loadCourseDetail(ctx context.Context, repos domain.Repositories, courseID uint) (*domain.CourseDetail, error) {
	course, err := repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}
	lessons, err := repos.Lessons.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	quizzes, err := repos.Quizzes.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrollments, err := repos.Enrollments.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	reviews, err := repos.Reviews.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return domain.NewCourseDetail(*course, lessons, quizzes, enrollments, reviews), nil
}

func (uc *courseUsecase) GetAllCourses(ctx context.Context) ([]domain.Course, error) {
	courses, err := uc.Repos.Courses.GetAll(ctx)
	return courses, storeErr("get all courses", err)
}

func (uc *courseUsecase) GetPublishedCourses(ctx context.Context) ([]domain.Course, error) {
	courses, err := uc.Repos.Courses.GetPublished(ctx)
	return courses, storeErr("get published courses", err)
}

func (uc *courseUsecase) GetCourseLessons(ctx context.Context, courseID uint) ([]domain.Lesson, error) {
	course, err := uc.requireCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lessons, err := uc.Repos.Lessons.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, storeErr("get course lessons", err)
	}
	quizzes, err := uc.Repos.Quizzes.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, storeErr("get course lessons", err)
	}
	return domain.NewCourseDetail(*course, lessons, quizzes, nil, nil).Lessons, nil
}

func (uc *courseUsecase) GetCourseQuizzes(ctx context.Context, courseID uint) ([]domain.Quiz, error) {
	if _, err := uc.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	quizzes, err := uc.Repos.Quizzes.GetByCourseID(ctx, courseID)
	return quizzes, storeErr("get course quizzes", err)
}

// GetCourseStats serves from the stats cache when possible. Cache errors
// fall through to the database. A snapshot computed while a writer
// invalidated the course is not stored.
func (uc *courseUsecase) GetCourseStats(ctx context.Context, courseID uint) (*domain.CourseStats, error) {
	cached, err := uc.Cache.Get(ctx, courseID)
	if err != nil {
		uc.Log.Warn("stats cache read failed", "course_id", courseID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	version, verErr := uc.Cache.Version(ctx, courseID)
	if verErr != nil {
		uc.Log.Warn("stats cache version read failed", "course_id", courseID, "error", verErr)
	}

	detail, err := loadCourseDetail(ctx, uc.Repos, courseID)
	if err != nil {
		return nil, storeErr("get course stats", err)
	}
	stats := detail.Stats()
	if verErr == nil {
		if err := uc.Cache.Set(ctx, &stats, version); err != nil {
			uc.Log.Warn("stats cache write failed", "course_id", courseID, "error", err)
		}
	}
	return &stats, nil
}

func (uc *courseUsecase) GetCourseActivity(ctx context.Context, courseID uint, limit int64) ([]domain.ActivityEvent, error) {
	if _, err := uc.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	events, err := uc.Activity.ListByCourse(ctx, courseID, limit)
	return events, storeErr("get course activity", err)
}

func (uc *courseUsecase) requireCourse(ctx context.Context, courseID uint) (*domain.Course, error) {
	course, err := uc.Repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, storeErr("get course", err)
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}
	return course, nil
}

// ========== AUTHORING ==========

// CreateCourse always starts a course as an unpublished draft without reviews.
func (uc *courseUsecase) CreateCourse(ctx context.Context, course *domain.Course) error {
	course.ID = 0
	course.IsPublished = false
	course.Status = domain.CourseDraft
	course.PublishedAt = nil
	course.Rating = 0
	course.ReviewCount = 0
	course.ApplyDefaults()
	if err := domain.Validate(course); err != nil {
		return err
	}
	if err := uc.Repos.Courses.Create(ctx, course); err != nil {
		return storeErr("create course", err)
	}
	uc.Log.Info("course created", "course_id", course.ID, "instructor_id", course.InstructorID)
	return nil
}

// UpdateCourse copies the editable fields onto the stored course under the
// course row lock. Publication state, rating and review count are not written.
func (uc *courseUsecase) UpdateCourse(ctx context.Context, course *domain.Course) error {
	var updated *domain.Course
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		existing, err := repos.Courses.GetByIDForUpdate(ctx, course.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrCourseNotFound
		}

		existing.Title = course.Title
		existing.Description = course.Description
		existing.ShortDescription = course.ShortDescription
		existing.Category = course.Category
		if course.Tags != nil {
			existing.Tags = course.Tags
		}
		existing.TotalDurationHours = course.TotalDurationHours
		existing.Price = course.Price
		existing.ImageURL = course.ImageURL
		existing.PreviewVideoURL = course.PreviewVideoURL
		existing.IsFeatured = course.IsFeatured
		if course.Level != "" {
			existing.Level = course.Level
		}
		if err := domain.Validate(existing); err != nil {
			return err
		}
		if err := repos.Courses.UpdateDetails(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return storeErr("update course", err)
	}
	*course = *updated
	uc.invalidateStats(ctx, course.ID)
	return nil
}

func (uc *courseUsecase) PublishCourse(ctx context.Context, courseID uint) (*domain.Course, error) {
	return uc.setPublished(ctx, courseID, true)
}

func (uc *courseUsecase) UnpublishCourse(ctx context.Context, courseID uint) (*domain.Course, error) {
	return uc.setPublished(ctx, courseID, false)
}

func (uc *courseUsecase) setPublished(ctx context.Context, courseID uint, publish bool) (*domain.Course, error) {
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
		var changed bool
		if publish {
			changed = course.Publish(uc.Now())
		} else {
			changed = course.Unpublish()
		}
		if !changed {
			return nil
		}
		return repos.Courses.Update(ctx, course)
	})
	if err != nil {
		return nil, storeErr("set published", err)
	}
	uc.Log.Info("course publication changed", "course_id", courseID, "published", course.IsPublished)
	return course, nil
}

// DeleteCourse removes the course and everything it owns in one transaction.
func (uc *courseUsecase) DeleteCourse(ctx context.Context, courseID uint) error {
	err := uc.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		course, err := repos.Courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domain.ErrCourseNotFound
		}

		enrollments, err := repos.Enrollments.GetByCourseID(ctx, courseID)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(enrollments))
		for _, e := range enrollments {
			ids = append(ids, e.ID)
		}

		steps := []func() error{
			func() error { return repos.Attempts.DeleteByEnrollmentIDs(ctx, ids) },
			func() error { return repos.Progress.DeleteByEnrollmentIDs(ctx, ids) },
			func() error { return repos.Enrollments.DeleteByCourseID(ctx, courseID) },
			func() error { return repos.Reviews.DeleteByCourseID(ctx, courseID) },
			func() error { return repos.Quizzes.DeleteByCourseID(ctx, courseID) },
			func() error { return repos.Lessons.DeleteByCourseID(ctx, courseID) },
			func() error { return repos.Courses.Delete(ctx, courseID) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeErr("delete course", err)
	}
	uc.Log.Info("course deleted", "course_id", courseID)
	uc.invalidateStats(ctx, courseID)
	return nil
}

func (uc *courseUsecase) AddLesson(ctx context.Context, lesson *domain.Lesson) error {
	if err := domain.Validate(lesson); err != nil {
		return err
	}
	if _, err := uc.requireCourse(ctx, lesson.CourseID); err != nil {
		return err
	}
	lesson.ID = 0
	if err := uc.Repos.Lessons.Create(ctx, lesson); err != nil {
		return storeErr("add lesson", err)
	}
	uc.invalidateStats(ctx, lesson.CourseID)
	return nil
}

// AddQuiz fills defaults, then validates the quiz. A quiz attached to a
// lesson must belong to the lesson's course.
func (uc *courseUsecase) AddQuiz(ctx context.Context, quiz *domain.Quiz) error {
	quiz.ApplyDefaults()
	if err := quiz.Check(); err != nil {
		return err
	}
	if _, err := uc.requireCourse(ctx, quiz.CourseID); err != nil {
		return err
	}
	if quiz.LessonID != nil {
		lesson, err := uc.Repos.Lessons.GetByID(ctx, *quiz.LessonID)
		if err != nil {
			return storeErr("add quiz", err)
		}
		if lesson == nil || lesson.CourseID != quiz.CourseID {
			return domain.NewValidationError("lesson_id", "must reference a lesson of the same course")
		}
	}
	quiz.ID = 0
	if err := uc.Repos.Quizzes.Create(ctx, quiz); err != nil {
		return storeErr("add quiz", err)
	}
	uc.invalidateStats(ctx, quiz.CourseID)
	return nil
}

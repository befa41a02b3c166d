package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrDuplicateRelationship = errors.New("relationship already exists")
	ErrAttemptLimitExceeded  = errors.New("quiz attempt limit exceeded")
	ErrValidation            = errors.New("validation failed")
	ErrPersistence           = errors.New("persistence failure")
)

var (
	ErrAlreadyEnrolled    = fmt.Errorf("%w: already enrolled in this course", ErrDuplicateRelationship)
	ErrDuplicateReview    = fmt.Errorf("%w: course already reviewed by this user", ErrDuplicateRelationship)
	ErrNoEnrollment       = fmt.Errorf("%w: user is not enrolled in this course", ErrNotFound)
	ErrCourseNotFound     = fmt.Errorf("%w: course", ErrNotFound)
	ErrLessonNotFound     = fmt.Errorf("%w: lesson", ErrNotFound)
	ErrQuizNotFound       = fmt.Errorf("%w: quiz", ErrNotFound)
	ErrReviewNotFound     = fmt.Errorf("%w: review", ErrNotFound)
	ErrEnrollmentNotFound = fmt.Errorf("%w: enrollment", ErrNotFound)
	ErrCourseNotPublished = errors.New("course is not published")
	ErrEnrollmentClosed   = errors.New("enrollment is already completed")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError wraps a storage failure for a named operation.
func PersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

package domain

import "time"

func NewEnrollment(userID string, courseID uint, now time.Time) *Enrollment {
	start := now
	return &Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: now,
		StartDate:      &start,
		Status:         EnrollmentActive,
	}
}

func (e *Enrollment) IsCompleted() bool { return e.CompletionDate != nil }

// Touch records learner activity.
func (e *Enrollment) Touch(now time.Time) {
	e.LastActivityDate = &now
}

// CompleteCourse is idempotent: it reports false and changes nothing when
// the enrollment is already completed.
func (e *Enrollment) CompleteCourse(grade *float64, now time.Time) (bool, error) {
	if e.IsCompleted() {
		return false, nil
	}
	if grade != nil && (*grade < 0 || *grade > 100) {
		return false, NewValidationError("grade", "must be between 0 and 100")
	}
	e.CompletionDate = &now
	e.Status = EnrollmentCompleted
	e.Grade = grade
	e.Touch(now)
	return true, nil
}

// AssignGrade records an instructor's grade, completing the enrollment first
// when needed. It reports whether the enrollment became completed.
func (e *Enrollment) AssignGrade(grade float64, now time.Time) (bool, error) {
	if grade < 0 || grade > 100 {
		return false, NewValidationError("grade", "must be between 0 and 100")
	}
	if e.IsCompleted() {
		e.Grade = &grade
		return false, nil
	}
	return e.CompleteCourse(&grade, now)
}

// Drop marks an active enrollment as dropped. Completed enrollments stay completed.
func (e *Enrollment) Drop(now time.Time) error {
	if e.IsCompleted() {
		return ErrEnrollmentClosed
	}
	e.Status = EnrollmentDropped
	e.Touch(now)
	return nil
}

// Duration is the time between start (or enrollment) and completion.
func (e *Enrollment) Duration() (time.Duration, bool) {
	if e.CompletionDate == nil {
		return 0, false
	}
	start := e.EnrollmentDate
	if e.StartDate != nil {
		start = *e.StartDate
	}
	return e.CompletionDate.Sub(start), true
}

// TimeSpent is only known for completed lessons.
func (p *LessonProgress) TimeSpent() (time.Duration, bool) {
	if !p.IsCompleted || p.CompletedAt == nil {
		return 0, false
	}
	return p.CompletedAt.Sub(p.StartedAt), true
}

// SetCompleted applies a progress update; un-completing clears the completion time.
func (p *LessonProgress) SetCompleted(completed bool, now time.Time) {
	p.IsCompleted = completed
	if completed {
		p.CompletedAt = &now
	} else {
		p.CompletedAt = nil
	}
}

// Summarize aggregates a student's enrollments.
func Summarize(userID string, enrollments []Enrollment) StudentSummary {
	s := StudentSummary{UserID: userID, TotalEnrollments: len(enrollments)}
	var gradeSum float64
	var graded int
	for i := range enrollments {
		e := &enrollments[i]
		if e.IsCompleted() {
			s.CompletedCourses++
		} else if e.Status == EnrollmentActive {
			s.InProgress++
		}
		if e.Grade != nil {
			gradeSum += *e.Grade
			graded++
		}
	}
	if graded > 0 {
		s.AverageGrade = gradeSum / float64(graded)
	}
	return s
}

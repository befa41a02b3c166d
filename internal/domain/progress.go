package domain

// ProgressRecords are the progress and attempt rows of one enrollment.
type ProgressRecords struct {
	LessonProgress []LessonProgress
	Attempts       []QuizAttempt
}

func (r ProgressRecords) IsLessonCompleted(lessonID uint) bool {
	for _, p := range r.LessonProgress {
		if p.LessonID == lessonID && p.IsCompleted {
			return true
		}
	}
	return false
}

func (r ProgressRecords) IsQuizPassed(quizID uint) bool {
	for _, a := range r.Attempts {
		if a.QuizID == quizID && a.IsCorrect {
			return true
		}
	}
	return false
}

func (r ProgressRecords) isElementCompleted(e CourseElement) bool {
	switch e.(type) {
	case *Lesson:
		return r.IsLessonCompleted(e.ElementID())
	case *Quiz:
		return r.IsQuizPassed(e.ElementID())
	}
	return false
}

// CompletedElements counts completable elements of the course that are done.
// A quiz with several correct attempts counts once.
func (r ProgressRecords) CompletedElements(elements []CourseElement) int {
	n := 0
	for _, e := range elements {
		if e.CanBeCompleted() && r.isElementCompleted(e) {
			n++
		}
	}
	return n
}

// Percentage is unrounded and 0 when nothing in the course can be completed.
func (r ProgressRecords) Percentage(elements []CourseElement) float64 {
	total := CompletableCount(elements)
	if total == 0 {
		return 0
	}
	return float64(r.CompletedElements(elements)) / float64(total) * 100
}

func CompletableCount(elements []CourseElement) int {
	n := 0
	for _, e := range elements {
		if e.CanBeCompleted() {
			n++
		}
	}
	return n
}

// QuizPoints sums points earned on correct attempts, best attempt per quiz.
func (r ProgressRecords) QuizPoints() int {
	best := make(map[uint]int)
	for _, a := range r.Attempts {
		if a.PointsEarned > best[a.QuizID] {
			best[a.QuizID] = a.PointsEarned
		}
	}
	total := 0
	for _, p := range best {
		total += p
	}
	return total
}

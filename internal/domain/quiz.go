package domain

import "time"

const (
	DefaultQuizPoints      = 10
	DefaultQuizTimeLimit   = 10
	DefaultQuizMaxAttempts = 3
)

// QuizView is a quiz as shown to learners: no answer key, no explanation.
type QuizView struct {
	ElementBase
	LessonID              *uint           `json:"lesson_id,omitempty"`
	Question              string          `json:"question"`
	Options               []string        `json:"options"`
	Points                int             `json:"points"`
	TimeLimitMinutes      int             `json:"time_limit_minutes"`
	AllowMultipleAttempts bool            `json:"allow_multiple_attempts"`
	MaxAttempts           int             `json:"max_attempts"`
	Type                  QuizType        `json:"type"`
	Difficulty            DifficultyLevel `json:"difficulty"`
}

func (q *Quiz) LearnerView() QuizView {
	return QuizView{
		ElementBase:           q.ElementBase,
		LessonID:              q.LessonID,
		Question:              q.Question,
		Options:               q.Options,
		Points:                q.Points,
		TimeLimitMinutes:      q.TimeLimitMinutes,
		AllowMultipleAttempts: q.AllowMultipleAttempts,
		MaxAttempts:           q.MaxAttempts,
		Type:                  q.Type,
		Difficulty:            q.Difficulty,
	}
}

func LearnerViews(quizzes []Quiz) []QuizView {
	out := make([]QuizView, len(quizzes))
	for i := range quizzes {
		out[i] = quizzes[i].LearnerView()
	}
	return out
}

func (q *Quiz) ValidateAnswer(selectedIndex int) bool {
	return selectedIndex == q.CorrectAnswerIndex
}

// CanUserAttempt applies the attempt policy to the number of attempts the
// user already has on this quiz.
func (q *Quiz) CanUserAttempt(attemptCount int64) bool {
	if q.AllowMultipleAttempts {
		return true
	}
	return attemptCount < int64(q.MaxAttempts)
}

func (q *Quiz) ApplyDefaults() {
	if q.Points == 0 {
		q.Points = DefaultQuizPoints
	}
	if q.TimeLimitMinutes == 0 {
		q.TimeLimitMinutes = DefaultQuizTimeLimit
	}
	if q.MaxAttempts == 0 {
		q.MaxAttempts = DefaultQuizMaxAttempts
	}
	if q.Type == "" {
		q.Type = QuizSingleChoice
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyMedium
	}
	if q.Options == nil {
		q.Options = []string{}
	}
}

// Check validates field constraints and that the correct answer exists.
func (q *Quiz) Check() error {
	if err := Validate(q); err != nil {
		return err
	}
	if q.CorrectAnswerIndex >= len(q.Options) {
		return NewValidationError("correct_answer_index", "must reference one of the options")
	}
	return nil
}

// NewAttempt scores a submission. The returned attempt is not yet persisted.
func (q *Quiz) NewAttempt(enrollmentID uint, selectedIndex int, timeSpent time.Duration, now time.Time) *QuizAttempt {
	correct := q.ValidateAnswer(selectedIndex)
	points := 0
	if correct {
		points = q.Points
	}
	return &QuizAttempt{
		EnrollmentID:        enrollmentID,
		QuizID:              q.ID,
		AttemptDate:         now,
		SelectedAnswerIndex: selectedIndex,
		IsCorrect:           correct,
		PointsEarned:        points,
		TimeSpent:           timeSpent,
	}
}

func SuccessRate(attempts []QuizAttempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	correct := 0
	for _, a := range attempts {
		if a.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(attempts)) * 100
}

func NewQuizStats(quizID uint, attempts []QuizAttempt) QuizStats {
	s := QuizStats{QuizID: quizID, AttemptCount: len(attempts), SuccessRate: SuccessRate(attempts)}
	for _, a := range attempts {
		if a.IsCorrect {
			s.CorrectCount++
		}
	}
	return s
}

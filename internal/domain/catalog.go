package domain

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// CourseElement is the closed set of course content kinds: *Lesson and *Quiz.
type CourseElement interface {
	ElementID() uint
	Order() int
	EstimatedDuration() float64
	CanBeCompleted() bool
	ElementType() string
}

var (
	_ CourseElement = (*Lesson)(nil)
	_ CourseElement = (*Quiz)(nil)
)

// Reading-time heuristic, in hours.
const (
	lessonBaseHours         = 0.5
	lessonVideoHours        = 1.0
	lessonPresentationHours = 0.5
	lessonQuizHours         = 0.25
	lessonCharsPerHour      = 2000.0
)

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func (e *ElementBase) ElementID() uint { return e.ID }
func (e *ElementBase) Order() int      { return e.OrderNumber }

func (l *Lesson) HasVideo() bool        { return l.VideoURL != "" }
func (l *Lesson) HasPresentation() bool { return l.PresentationURL != "" }
func (l *Lesson) HasMaterials() bool    { return l.MaterialsURL != "" }

func (l *Lesson) EstimatedDuration() float64 {
	d := lessonBaseHours
	if l.HasVideo() {
		d += lessonVideoHours
	}
	if l.HasPresentation() {
		d += lessonPresentationHours
	}
	if l.AttachedQuizzes > 0 {
		d += lessonQuizHours
	}
	d += float64(utf8.RuneCountInString(l.Content)) / lessonCharsPerHour
	return roundTo(d, 1)
}

func (l *Lesson) CanBeCompleted() bool { return true }
func (l *Lesson) ElementType() string  { return "Lesson" }

func (q *Quiz) EstimatedDuration() float64 { return float64(q.TimeLimitMinutes) / 60.0 }
func (q *Quiz) CanBeCompleted() bool       { return true }
func (q *Quiz) ElementType() string        { return "Quiz" }

// ========== COURSE LIFECYCLE ==========

// Publish moves a draft to active. It reports false if the course was
// already published; the first publish timestamp is kept.
func (c *Course) Publish(now time.Time) bool {
	if c.IsPublished {
		return false
	}
	c.IsPublished = true
	c.Status = CourseActive
	if c.PublishedAt == nil {
		c.PublishedAt = &now
	}
	return true
}

func (c *Course) Unpublish() bool {
	if !c.IsPublished {
		return false
	}
	c.IsPublished = false
	c.Status = CourseDraft
	return true
}

// SetTagsFromInput parses a comma separated tag list, dropping blanks.
func (c *Course) SetTagsFromInput(input string) {
	tags := make([]string, 0)
	for _, t := range strings.Split(input, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	c.Tags = tags
}

// ApplyDefaults fills the zero-valued enums of a new course.
func (c *Course) ApplyDefaults() {
	if c.Level == "" {
		c.Level = LevelBeginner
	}
	if c.Status == "" {
		c.Status = CourseDraft
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
}

// ========== COURSE DETAIL ==========

// CourseDetail is a course with its separately loaded collections.
type CourseDetail struct {
	Course
	Lessons     []Lesson     `json:"lessons"`
	Quizzes     []Quiz       `json:"quizzes"`
	Enrollments []Enrollment `json:"-"`
	Reviews     []Review     `json:"reviews"`
}

// NewCourseDetail orders lessons and quizzes by order number and marks
// lessons that have quizzes attached.
func NewCourseDetail(course Course, lessons []Lesson, quizzes []Quiz, enrollments []Enrollment, reviews []Review) *CourseDetail {
	attached := make(map[uint]int)
	for _, q := range quizzes {
		if q.LessonID != nil {
			attached[*q.LessonID]++
		}
	}
	for i := range lessons {
		lessons[i].AttachedQuizzes = attached[lessons[i].ID]
	}

	sort.SliceStable(lessons, func(i, j int) bool { return elementLess(&lessons[i].ElementBase, &lessons[j].ElementBase) })
	sort.SliceStable(quizzes, func(i, j int) bool { return elementLess(&quizzes[i].ElementBase, &quizzes[j].ElementBase) })

	return &CourseDetail{
		Course:      course,
		Lessons:     lessons,
		Quizzes:     quizzes,
		Enrollments: enrollments,
		Reviews:     reviews,
	}
}

// LearnerCourseDetail is the public rendering of a course detail.
type LearnerCourseDetail struct {
	Course
	Lessons []Lesson   `json:"lessons"`
	Quizzes []QuizView `json:"quizzes"`
	Reviews []Review   `json:"reviews"`
}

func (d *CourseDetail) LearnerView() LearnerCourseDetail {
	return LearnerCourseDetail{
		Course:  d.Course,
		Lessons: d.Lessons,
		Quizzes: LearnerViews(d.Quizzes),
		Reviews: d.Reviews,
	}
}

func elementLess(a, b *ElementBase) bool {
	if a.OrderNumber != b.OrderNumber {
		return a.OrderNumber < b.OrderNumber
	}
	return a.ID < b.ID
}

// Elements returns lessons and quizzes merged in traversal order.
func (d *CourseDetail) Elements() []CourseElement {
	out := make([]CourseElement, 0, len(d.Lessons)+len(d.Quizzes))
	for i := range d.Lessons {
		out = append(out, &d.Lessons[i])
	}
	for i := range d.Quizzes {
		out = append(out, &d.Quizzes[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order() != out[j].Order() {
			return out[i].Order() < out[j].Order()
		}
		return out[i].ElementType() < out[j].ElementType()
	})
	return out
}

func (d *CourseDetail) LessonCount() int  { return len(d.Lessons) }
func (d *CourseDetail) QuizCount() int    { return len(d.Quizzes) }
func (d *CourseDetail) StudentCount() int { return len(d.Enrollments) }

func (d *CourseDetail) ActualDurationHours() float64 {
	total := 0.0
	for _, e := range d.Elements() {
		total += e.EstimatedDuration()
	}
	return roundTo(total, 1)
}

func (d *CourseDetail) CompletedStudents() int {
	n := 0
	for i := range d.Enrollments {
		if d.Enrollments[i].IsCompleted() {
			n++
		}
	}
	return n
}

func (d *CourseDetail) CompletionRate() float64 {
	if len(d.Enrollments) == 0 {
		return 0
	}
	return float64(d.CompletedStudents()) / float64(len(d.Enrollments)) * 100
}

func (d *CourseDetail) EnrollmentFor(userID string) *Enrollment {
	for i := range d.Enrollments {
		if d.Enrollments[i].UserID == userID {
			return &d.Enrollments[i]
		}
	}
	return nil
}

// CanEnroll is false for unpublished courses and for users already enrolled.
func (d *CourseDetail) CanEnroll(userID string) bool {
	if !d.IsPublished {
		return false
	}
	return d.EnrollmentFor(userID) == nil
}

func (d *CourseDetail) Stats() CourseStats {
	return CourseStats{
		CourseID:            d.ID,
		StudentCount:        d.StudentCount(),
		CompletedStudents:   d.CompletedStudents(),
		CompletionRate:      d.CompletionRate(),
		LessonCount:         d.LessonCount(),
		QuizCount:           d.QuizCount(),
		ActualDurationHours: d.ActualDurationHours(),
		Rating:              d.Rating,
		ReviewCount:         d.ReviewCount,
	}
}

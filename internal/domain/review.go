package domain

import "time"

func NewReview(userID string, courseID uint, rating int, comment string) *Review {
	return &Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Comment:  comment,
	}
}

func (r *Review) HasComment() bool { return r.Comment != "" }

func (r *Review) MarkHelpful(now time.Time) {
	r.HelpfulCount++
	r.UpdatedAt = &now
}

// UnmarkHelpful never takes the count below zero.
func (r *Review) UnmarkHelpful(now time.Time) {
	if r.HelpfulCount > 0 {
		r.HelpfulCount--
	}
	r.UpdatedAt = &now
}

// ApplyReviews recomputes rating and review count from the full review set.
// Both fields are always written together.
func (c *Course) ApplyReviews(reviews []Review) {
	c.ReviewCount = len(reviews)
	if len(reviews) == 0 {
		c.Rating = 0
		return
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	c.Rating = float64(sum) / float64(len(reviews))
}

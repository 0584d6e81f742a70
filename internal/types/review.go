package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const MaxCommentLength = 2000

var ErrInvalidReview = errors.New("invalid review")

// Review is a single student review of a course.
//
// Firestore Structure:
//   - reviews/{review_id}
//
// Indexes Required:
//   - reviews: course_id + created_at desc
//   - reviews: user_id + created_at desc
type Review struct {
	ID         string    `json:"id" firestore:"id"`
	CourseID   string    `json:"course_id" firestore:"course_id"`
	CourseCode string    `json:"course_code" firestore:"course_code"`
	UserID     string    `json:"-" firestore:"user_id"`
	AuthorName string    `json:"author_name" firestore:"author_name"`
	Semester   string    `json:"semester,omitempty" firestore:"semester"`
	Content    int       `json:"content" firestore:"content"`
	Teaching   int       `json:"teaching" firestore:"teaching"`
	Grading    int       `json:"grading" firestore:"grading"`
	Workload   int       `json:"workload" firestore:"workload"`
	Comment    string    `json:"comment,omitempty" firestore:"comment"`
	CreatedAt  time.Time `json:"created_at" firestore:"created_at"`
}

// Validate checks the rating bounds and comment length.
func (r Review) Validate() error {
	dims := []struct {
		name  string
		value int
	}{
		{"content", r.Content},
		{"teaching", r.Teaching},
		{"grading", r.Grading},
		{"workload", r.Workload},
	}
	for _, d := range dims {
		if d.value < 1 || d.value > 5 {
			return fmt.Errorf("%w: %s rating must be between 1 and 5", ErrInvalidReview, d.name)
		}
	}

	if len([]rune(r.Comment)) > MaxCommentLength {
		return fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidReview, MaxCommentLength)
	}

	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("%w: missing author", ErrInvalidReview)
	}

	return nil
}

// SiteStats are the counters shown on the home page.
type SiteStats struct {
	Reviews   int64 `json:"reviews"`
	Courses   int64 `json:"courses"`
	Reviewers int64 `json:"reviewers"`
}

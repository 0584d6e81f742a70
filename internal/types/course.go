package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidCourseCode = errors.New("invalid course code")

// Course represents a catalog course stored in Firestore.
//
// Firestore Structure:
//   - courses/{course_id}
//
// course_id is the lowercased code with spaces removed (e.g., "math521").
// Review aggregates live on the course document so that listing pages never
// have to touch the reviews collection:
//   - review_count is incremented once per review
//   - rating_totals holds the running sum of each rating dimension
//
// Indexes Required:
//   - courses: department_code (equality, used by the listing page)
//
// Related Collections:
//   - departments/{department_code}
//   - reviews/{review_id} with course_id for per-course queries
type Course struct {
	ID             string `json:"id" firestore:"id"`                           // e.g., "math521"
	Code           string `json:"code" firestore:"code"`                       // e.g., "MATH 521"
	DepartmentCode string `json:"department_code" firestore:"department_code"` // e.g., "MATH"
	Number         int    `json:"number" firestore:"number"`                   // e.g., 521

	Name        string `json:"name" firestore:"name"`
	Description string `json:"description,omitempty" firestore:"description"`
	Credits     int    `json:"credits,omitempty" firestore:"credits"`
	Department  string `json:"department,omitempty" firestore:"department"` // Department display name

	ReviewCount  int          `json:"review_count" firestore:"review_count"`
	RatingTotals RatingTotals `json:"-" firestore:"rating_totals"`

	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

// RatingTotals is the running sum of every review's ratings for a course.
type RatingTotals struct {
	Content  int64 `firestore:"content"`
	Teaching int64 `firestore:"teaching"`
	Grading  int64 `firestore:"grading"`
	Workload int64 `firestore:"workload"`
}

// Ratings holds the four review dimensions on the 1-5 scale.
type Ratings struct {
	Content  float64 `json:"content"`
	Teaching float64 `json:"teaching"`
	Grading  float64 `json:"grading"`
	Workload float64 `json:"workload"`
}

// AverageRatings returns nil for a course nobody has reviewed yet.
func (c Course) AverageRatings() *Ratings {
	if c.ReviewCount <= 0 {
		return nil
	}
	n := float64(c.ReviewCount)
	return &Ratings{
		Content:  float64(c.RatingTotals.Content) / n,
		Teaching: float64(c.RatingTotals.Teaching) / n,
		Grading:  float64(c.RatingTotals.Grading) / n,
		Workload: float64(c.RatingTotals.Workload) / n,
	}
}

// Department represents a row of the departments collection.
type Department struct {
	Code string `json:"code" firestore:"code" yaml:"code"`
	Name string `json:"name" firestore:"name" yaml:"name"`
}

// CourseCode is a parsed "DEPT NUMBER" course code.
type CourseCode struct {
	Department string
	Number     int
}

// String renders the canonical form, e.g. "COMP SCI 300".
func (cc CourseCode) String() string {
	return fmt.Sprintf("%s %d", cc.Department, cc.Number)
}

// ID returns the Firestore document ID for the code.
func (cc CourseCode) ID() string {
	return strings.ToLower(strings.ReplaceAll(cc.Department, " ", "")) + strconv.Itoa(cc.Number)
}

// ParseCourseCode accepts codes like "math 521", "MATH521" or "Comp  Sci 300".
// The department is everything before the trailing number, uppercased with
// whitespace collapsed.
func ParseCourseCode(raw string) (CourseCode, error) {
	fields := strings.Fields(strings.ToUpper(raw))
	if len(fields) == 0 {
		return CourseCode{}, fmt.Errorf("%w: empty", ErrInvalidCourseCode)
	}

	joined := strings.Join(fields, " ")
	end := len(joined)
	start := end
	for start > 0 && joined[start-1] >= '0' && joined[start-1] <= '9' {
		start--
	}
	if start == end {
		return CourseCode{}, fmt.Errorf("%w: %q has no course number", ErrInvalidCourseCode, raw)
	}

	number, err := strconv.Atoi(joined[start:end])
	if err != nil || number <= 0 {
		return CourseCode{}, fmt.Errorf("%w: %q", ErrInvalidCourseCode, raw)
	}

	dept := strings.TrimSpace(joined[:start])
	if dept == "" {
		return CourseCode{}, fmt.Errorf("%w: %q has no department", ErrInvalidCourseCode, raw)
	}

	return CourseCode{Department: dept, Number: number}, nil
}

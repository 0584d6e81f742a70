// Package rating converts 1-5 review averages into UW-Madison letter grades
// and the badges that display them.
package rating

import "math"

// Grade is a UW-Madison letter grade.
type Grade string

const (
	A  Grade = "A"
	AB Grade = "AB"
	B  Grade = "B"
	BC Grade = "BC"
	C  Grade = "C"
	D  Grade = "D"
	F  Grade = "F"
)

// Grades lists every grade from best to worst.
var Grades = []Grade{A, AB, B, BC, C, D, F}

var thresholds = []struct {
	min   float64
	grade Grade
}{
	{4.7, A},
	{4.2, AB},
	{3.7, B},
	{3.2, BC},
	{2.5, C},
	{1.5, D},
}

// FromRating maps a numeric rating to a grade. Anything below 1.5, including
// NaN, is an F.
func FromRating(r float64) Grade {
	if math.IsNaN(r) {
		return F
	}
	for _, t := range thresholds {
		if r >= t.min {
			return t.grade
		}
	}
	return F
}

// Valid reports whether g is one of the seven grades.
func (g Grade) Valid() bool {
	for _, known := range Grades {
		if g == known {
			return true
		}
	}
	return false
}

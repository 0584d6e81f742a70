package rating

import "strings"

// Size controls badge padding and font size.
type Size string

const (
	Small  Size = "sm"
	Medium Size = "md"
	Large  Size = "lg"
)

const baseClass = "inline-flex items-center justify-center rounded-md font-semibold"

var gradeClasses = map[Grade]string{
	A:  "bg-green-100 text-green-800 border border-green-200",
	AB: "bg-green-50 text-green-700 border border-green-200",
	B:  "bg-blue-50 text-blue-700 border border-blue-200",
	BC: "bg-blue-50 text-blue-600 border border-blue-200",
	C:  "bg-yellow-50 text-yellow-700 border border-yellow-200",
	D:  "bg-orange-50 text-orange-700 border border-orange-200",
	F:  "bg-red-50 text-red-700 border border-red-200",
}

var sizeClasses = map[Size]string{
	Small:  "px-2 py-1 text-xs",
	Medium: "px-3 py-1.5 text-sm",
	Large:  "px-4 py-2 text-base",
}

// Badge is the rendered form of a grade with an optional label.
type Badge struct {
	Grade Grade
	Label string
	Size  Size
	Class string
}

// NewBadge builds a badge. Unknown sizes render as Medium.
func NewBadge(grade Grade, label string, size Size) Badge {
	if _, ok := sizeClasses[size]; !ok {
		size = Medium
	}

	classes := []string{baseClass}
	if c, ok := gradeClasses[grade]; ok {
		classes = append(classes, c)
	}
	classes = append(classes, sizeClasses[size])

	return Badge{
		Grade: grade,
		Label: label,
		Size:  size,
		Class: strings.Join(classes, " "),
	}
}

// ForRating is shorthand for NewBadge(FromRating(r), label, size).
func ForRating(r float64, label string, size Size) Badge {
	return NewBadge(FromRating(r), label, size)
}

// Text is the visible badge content, e.g. "Teaching: AB".
func (b Badge) Text() string {
	if b.Label == "" {
		return string(b.Grade)
	}
	return b.Label + ": " + string(b.Grade)
}

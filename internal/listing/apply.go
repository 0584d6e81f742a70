package listing

import (
	"sort"
	"strings"

	"github.com/madspace-uw/madspace/internal/types"
)

// Result is one page of filtered courses.
type Result struct {
	Courses    []types.Course
	Total      int
	Page       int
	TotalPages int
}

// HasNext reports whether a later page exists.
func (r Result) HasNext() bool {
	return r.Page < r.TotalPages
}

// Apply filters, sorts and pages candidates. candidates is not modified.
func Apply(candidates []types.Course, q Query) Result {
	filtered := make([]types.Course, 0, len(candidates))
	for _, course := range candidates {
		if Matches(course, q) {
			filtered = append(filtered, course)
		}
	}

	SortCourses(filtered, q.Sort)

	total := len(filtered)
	page := q.Page
	if page < 1 {
		page = 1
	}

	start := total
	if page-1 <= total/PageSize {
		start = min((page-1)*PageSize, total)
	}
	end := start + PageSize
	if end > total {
		end = total
	}

	return Result{
		Courses:    filtered[start:end],
		Total:      total,
		Page:       page,
		TotalPages: TotalPages(total),
	}
}

// Matches reports whether a course passes the search, department and level
// filters of q.
func Matches(course types.Course, q Query) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(course.Code), needle) &&
			!strings.Contains(strings.ToLower(course.Name), needle) {
			return false
		}
	}

	if q.Department != "" && !strings.EqualFold(course.DepartmentCode, q.Department) {
		return false
	}

	if lo, hi, ok := q.LevelRange(); ok {
		if course.Number < lo {
			return false
		}
		if hi > 0 && course.Number >= hi {
			return false
		}
	}

	return true
}

// SortCourses orders courses in place. Unknown keys sort by popularity.
func SortCourses(courses []types.Course, key string) {
	var less func(a, b types.Course) bool

	switch key {
	case SortName:
		less = func(a, b types.Course) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortCode:
		less = func(a, b types.Course) bool {
			return a.Code < b.Code
		}
	case SortNewest:
		less = func(a, b types.Course) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	default:
		less = func(a, b types.Course) bool {
			if a.ReviewCount != b.ReviewCount {
				return a.ReviewCount > b.ReviewCount
			}
			return a.Code < b.Code
		}
	}

	sort.SliceStable(courses, func(i, j int) bool {
		return less(courses[i], courses[j])
	})
}

// TotalPages is ceil(total / PageSize).
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

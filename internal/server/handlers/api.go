package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/firebase"
	"github.com/madspace-uw/madspace/internal/listing"
	"github.com/madspace-uw/madspace/internal/rating"
	"github.com/madspace-uw/madspace/internal/types"
)

// courseJSON adds averaged ratings and their letter grades to a course.
type courseJSON struct {
	types.Course
	Ratings *types.Ratings          `json:"ratings,omitempty"`
	Grades  map[string]rating.Grade `json:"grades,omitempty"`
}

func newCourseJSON(course types.Course) courseJSON {
	out := courseJSON{Course: course}
	if avg := course.AverageRatings(); avg != nil {
		out.Ratings = avg
		out.Grades = map[string]rating.Grade{
			"content":  rating.FromRating(avg.Content),
			"teaching": rating.FromRating(avg.Teaching),
			"grading":  rating.FromRating(avg.Grading),
			"workload": rating.FromRating(avg.Workload),
		}
	}
	return out
}

// ListCourses returns one page of courses.
// Query parameters (all optional):
//   - q: case-insensitive substring of the course code or name
//   - dept: department code (e.g., "MATH")
//   - level: 100, 200, 300, 400 or 500+
//   - sort: popularity (default), name, code or newest
//   - page: 1-based page number, 12 courses per page
func (h *Handler) ListCourses(c *gin.Context) {
	q := listing.Parse(c.Request.URL.Query())

	result, err := h.catalog.ListCourses(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	courses := make([]courseJSON, len(result.Courses))
	for i, course := range result.Courses {
		courses[i] = newCourseJSON(course)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(courses),
		"courses":    courses,
		"pagination": buildPaginationMeta(result),
		"query": gin.H{
			"search":     q.Search,
			"department": q.Department,
			"level":      q.Level,
			"sort":       q.Sort,
		},
	})
}

// GetCourseJSON returns a single course by code (e.g., "MATH 521" or "math521").
func (h *Handler) GetCourseJSON(c *gin.Context) {
	course, err := h.catalog.GetCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, firebase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": newCourseJSON(*course)})
}

// ListDepartments returns every department offered in the listing filter.
func (h *Handler) ListDepartments(c *gin.Context) {
	departments := h.catalog.Departments(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count":       len(departments),
		"departments": departments,
	})
}

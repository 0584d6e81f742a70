package view

import (
	"net/url"

	"github.com/madspace-uw/madspace/internal/history"
	"github.com/madspace-uw/madspace/internal/rating"
	"github.com/madspace-uw/madspace/internal/types"
)

// CourseCard is the summary tile shown in listings and on the course page.
type CourseCard struct {
	Code        string
	Name        string
	Description string
	Credits     int
	Department  string
	ReviewCount int
	Badges      []rating.Badge
	HasRatings  bool
	Taken       bool
	Href        string
}

// NewCourseCard builds a card. taken is the set of normalized codes from the
// user's course history and may be nil.
func NewCourseCard(c types.Course, taken map[string]bool) CourseCard {
	card := CourseCard{
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Credits:     c.Credits,
		Department:  c.Department,
		ReviewCount: c.ReviewCount,
		Href:        CourseHref(c.Code),
		Taken:       taken[history.NormalizeCode(c.Code)],
	}

	if avg := c.AverageRatings(); avg != nil {
		card.HasRatings = true
		card.Badges = RatingBadges(*avg, rating.Small)
	}

	return card
}

// RatingBadges renders the four rating dimensions in display order.
func RatingBadges(r types.Ratings, size rating.Size) []rating.Badge {
	return []rating.Badge{
		rating.ForRating(r.Content, "Content", size),
		rating.ForRating(r.Teaching, "Teaching", size),
		rating.ForRating(r.Grading, "Grading", size),
		rating.ForRating(r.Workload, "Workload", size),
	}
}

// CourseCards maps a page of courses to cards.
func CourseCards(courses []types.Course, taken map[string]bool) []CourseCard {
	cards := make([]CourseCard, len(courses))
	for i, c := range courses {
		cards[i] = NewCourseCard(c, taken)
	}
	return cards
}

// CourseHref links to a course detail page.
func CourseHref(code string) string {
	return "/courses/" + url.PathEscape(code)
}

package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/madspace-uw/madspace/internal/rating"
	"github.com/madspace-uw/madspace/internal/types"
	"github.com/madspace-uw/madspace/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesDefinePages(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"header", "footer", "navbar", "course_card", "rating_badge", "home", "reviews", "course", "account", "auth", "error"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestCourseCardRendersBadges(t *testing.T) {
	tmpl := MustTemplates()

	card := view.NewCourseCard(types.Course{
		Code:         "MATH 521",
		Name:         "Analysis I",
		Credits:      3,
		ReviewCount:  1,
		RatingTotals: types.RatingTotals{Content: 5, Teaching: 4, Grading: 3, Workload: 2},
	}, map[string]bool{"MATH 521": true})

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "course_card", card))
	out := buf.String()

	assert.Contains(t, out, `href="/courses/MATH%20521"`)
	assert.Contains(t, out, "Content: A")
	assert.Contains(t, out, "Workload: D")
	assert.Contains(t, out, "3 credits")
	assert.Contains(t, out, "1 reviews")
	assert.Contains(t, out, "You took this")
	assert.NotContains(t, out, "No reviews yet")
}

func TestCourseCardWithoutReviews(t *testing.T) {
	tmpl := MustTemplates()

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "course_card", view.NewCourseCard(types.Course{Code: "CS 300"}, nil)))
	out := buf.String()

	assert.Contains(t, out, "No reviews yet")
	assert.NotContains(t, out, "credits")
	assert.NotContains(t, out, "You took this")
}

func TestRatingBadge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MustTemplates().ExecuteTemplate(&buf, "rating_badge", rating.ForRating(4.3, "Teaching", rating.Large)))
	assert.Contains(t, buf.String(), "Teaching: AB")
	assert.Contains(t, buf.String(), "px-4 py-2 text-base")
}

func TestNavbarAuthArea(t *testing.T) {
	tmpl := MustTemplates()

	var anon bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&anon, "navbar", view.NewNavbar("/", nil)))
	assert.Contains(t, anon.String(), "Sign In")
	assert.NotContains(t, anon.String(), "Sign Out")

	var signedIn bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&signedIn, "navbar", view.NewNavbar("/", &types.User{UID: "u1"})))
	assert.Contains(t, signedIn.String(), "Account")
	assert.Contains(t, signedIn.String(), "Sign Out")
}

func TestHomePage(t *testing.T) {
	data := map[string]any{
		"Title":      "Home",
		"Nav":        view.NewNavbar("/", nil),
		"Stats":      view.FeaturedStats(types.SiteStats{Reviews: 1200, Courses: 45, Reviewers: 300}),
		"QuickLinks": view.QuickLinks,
		"Today":      view.NewToday(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)),
	}

	var buf bytes.Buffer
	require.NoError(t, MustTemplates().ExecuteTemplate(&buf, "home", data))
	out := buf.String()

	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "https://studentcenter.wisc.edu")
	assert.Contains(t, out, "Monday, October 2026")
	assert.Contains(t, out, "Join the MADSPACE Community")
}

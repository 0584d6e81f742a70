package view

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/madspace-uw/madspace/internal/types"
)

// QuickLink is an external campus resource.
type QuickLink struct {
	Name string
	URL  string
	Icon string
}

// QuickLinks are the campus resources shown on the home page.
var QuickLinks = []QuickLink{
	{Name: "Canvas", URL: "https://canvas.wisc.edu", Icon: "external-link"},
	{Name: "Student Center", URL: "https://studentcenter.wisc.edu", Icon: "external-link"},
	{Name: "Course Catalog", URL: "https://guide.wisc.edu", Icon: "book-open"},
}

// Stat is one featured counter.
type Stat struct {
	Label string
	Value string
	Icon  string
}

// FeaturedStats formats the site counters with thousands separators.
func FeaturedStats(s types.SiteStats) []Stat {
	return []Stat{
		{Label: "Total Reviews", Value: humanize.Comma(s.Reviews), Icon: "users"},
		{Label: "Courses Covered", Value: humanize.Comma(s.Courses), Icon: "book-open"},
		{Label: "Active Reviewers", Value: humanize.Comma(s.Reviewers), Icon: "trending-up"},
	}
}

// Today is the calendar card.
type Today struct {
	Day  int
	Line string
}

// NewToday renders t as the day of month and a "Monday, October 2026" line.
func NewToday(t time.Time) Today {
	return Today{
		Day:  t.Day(),
		Line: t.Format("Monday, January 2006"),
	}
}

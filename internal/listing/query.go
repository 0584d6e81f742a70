// Package listing turns the review page's URL parameters into a course query
// and applies it to a set of candidate courses.
package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the number of course cards on one page.
const PageSize = 12

// MaxPage is the largest page number a query keeps; anything beyond it would
// overflow the offset.
const MaxPage = math.MaxInt/PageSize + 1

// Sort orders supported by the listing page.
const (
	SortPopularity = "popularity"
	SortName       = "name"
	SortCode       = "code"
	SortNewest     = "newest"
)

// Level500Plus is the open-ended top level bucket.
const Level500Plus = "500+"

// URL parameter names.
const (
	ParamSearch     = "q"
	ParamSort       = "sort"
	ParamDepartment = "dept"
	ParamLevel      = "level"
	ParamPage       = "page"
)

// DefaultDepartments are offered when the departments collection is empty.
var DefaultDepartments = []string{"MATH", "CS", "PHYS", "CHEM", "ECON", "HIST", "ENGL", "PSYC"}

// Levels are the course level buckets offered in the level filter.
var Levels = []string{"100", "200", "300", "400", Level500Plus}

// SortOptions pairs each sort key with its label, in menu order.
var SortOptions = []struct {
	Value string
	Label string
}{
	{SortPopularity, "Most Popular"},
	{SortName, "Course Name"},
	{SortCode, "Course Code"},
	{SortNewest, "Newest"},
}

// Query is the normalized form of the listing page's filters.
type Query struct {
	Search     string
	Department string
	Level      string
	Sort       string
	Page       int
}

// Parse reads a Query from URL parameters. Unknown or malformed values fall
// back to their defaults rather than failing.
func Parse(values url.Values) Query {
	q := Query{
		Search:     strings.TrimSpace(values.Get(ParamSearch)),
		Department: normalizeDepartment(values.Get(ParamDepartment)),
		Level:      normalizeLevel(values.Get(ParamLevel)),
		Sort:       normalizeSort(values.Get(ParamSort)),
		Page:       1,
	}

	if page, err := strconv.Atoi(strings.TrimSpace(values.Get(ParamPage))); err == nil && page > 0 {
		q.Page = min(page, MaxPage)
	}

	return q
}

func normalizeDepartment(value string) string {
	value = strings.ToUpper(strings.Join(strings.Fields(value), " "))
	if value == "ALL" {
		return ""
	}
	return value
}

func normalizeLevel(value string) string {
	value = strings.TrimSpace(value)
	for _, level := range Levels {
		if value == level {
			return value
		}
	}
	return ""
}

func normalizeSort(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case SortName:
		return SortName
	case SortCode:
		return SortCode
	case SortNewest:
		return SortNewest
	default:
		// "popular" is what the home page links to
		return SortPopularity
	}
}

// Offset is the index of the first course on the current page.
func (q Query) Offset() int {
	return (q.Page - 1) * PageSize
}

// Limit is the page size.
func (q Query) Limit() int {
	return PageSize
}

// LevelRange returns the inclusive lower and exclusive upper course number
// for the level filter. hi is 0 when the range is open-ended. ok is false
// when no level filter is set.
func (q Query) LevelRange() (lo, hi int, ok bool) {
	if q.Level == "" {
		return 0, 0, false
	}
	if q.Level == Level500Plus {
		return 500, 0, true
	}
	n, err := strconv.Atoi(q.Level)
	if err != nil {
		return 0, 0, false
	}
	return n, n + 100, true
}

// HasFilters reports whether any narrowing filter is active.
func (q Query) HasFilters() bool {
	return q.Search != "" || q.Department != "" || q.Level != ""
}

// Values encodes the query, leaving out empty and default values.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	if q.Department != "" {
		v.Set(ParamDepartment, q.Department)
	}
	if q.Level != "" {
		v.Set(ParamLevel, q.Level)
	}
	if q.Sort != "" && q.Sort != SortPopularity {
		v.Set(ParamSort, q.Sort)
	}
	if q.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	return v
}

// Href renders the query as a link under base.
func (q Query) Href(base string) string {
	encoded := q.Values().Encode()
	if encoded == "" {
		return base
	}
	return base + "?" + encoded
}

// Set returns a copy with one parameter changed. An empty value clears the
// parameter. Changing anything other than the page sends the user back to
// page 1.
func (q Query) Set(key, value string) Query {
	switch key {
	case ParamSearch:
		q.Search = strings.TrimSpace(value)
	case ParamDepartment:
		q.Department = normalizeDepartment(value)
	case ParamLevel:
		q.Level = normalizeLevel(value)
	case ParamSort:
		q.Sort = normalizeSort(value)
	case ParamPage:
		page, err := strconv.Atoi(value)
		if err != nil || page < 1 {
			page = 1
		}
		q.Page = min(page, MaxPage)
		return q
	default:
		return q
	}
	q.Page = 1
	return q
}

// Filter is one "active filter" chip.
type Filter struct {
	Param string
	Label string
	Value string
}

// ActiveFilters lists the chips shown above the results.
func (q Query) ActiveFilters() []Filter {
	var filters []Filter
	if q.Search != "" {
		filters = append(filters, Filter{Param: ParamSearch, Label: "Search", Value: q.Search})
	}
	if q.Department != "" {
		filters = append(filters, Filter{Param: ParamDepartment, Label: "Department", Value: q.Department})
	}
	if q.Level != "" {
		filters = append(filters, Filter{Param: ParamLevel, Label: "Level", Value: q.Level})
	}
	return filters
}

// Without returns the link that removes f under base.
func (q Query) Without(f Filter, base string) string {
	return q.Set(f.Param, "").Href(base)
}

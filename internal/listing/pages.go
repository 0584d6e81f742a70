package listing

import "strconv"

// maxPageLinks is the width of the numbered page window.
const maxPageLinks = 5

// PageLink is one numbered pagination button.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// NavLink is the previous or next button.
type NavLink struct {
	Href     string
	Disabled bool
}

// Pagination is everything the pager needs to render.
type Pagination struct {
	Show       bool
	Page       int
	TotalPages int
	Prev       NavLink
	Next       NavLink
	Links      []PageLink
}

// Window returns the page numbers to show: up to five pages starting two
// before the current one, never below 1 and never past total.
func Window(current, total int) []int {
	if total <= 0 {
		return nil
	}

	start := current - 2
	if start < 1 {
		start = 1
	}

	count := maxPageLinks
	if total < count {
		count = total
	}

	pages := make([]int, 0, count)
	for i := 0; i < count; i++ {
		page := start + i
		if page > total {
			break
		}
		pages = append(pages, page)
	}
	return pages
}

// Paginate builds the pager for q given the number of pages. Links are
// rendered under base.
func Paginate(q Query, totalPages int, base string) Pagination {
	p := Pagination{
		Show:       totalPages > 1,
		Page:       q.Page,
		TotalPages: totalPages,
	}

	p.Prev = NavLink{
		Href:     q.Set(ParamPage, strconv.Itoa(q.Page-1)).Href(base),
		Disabled: q.Page <= 1,
	}
	p.Next = NavLink{
		Href:     q.Set(ParamPage, strconv.Itoa(q.Page+1)).Href(base),
		Disabled: q.Page >= totalPages,
	}

	for _, n := range Window(q.Page, totalPages) {
		p.Links = append(p.Links, PageLink{
			Number:  n,
			Href:    q.Set(ParamPage, strconv.Itoa(n)).Href(base),
			Current: n == q.Page,
		})
	}

	return p
}

// Package view holds the models rendered by the shared page templates: the
// navigation bar, course cards and the home page panels.
package view

import (
	"net/url"
	"strings"

	"github.com/madspace-uw/madspace/internal/types"
)

const Brand = "MADSPACE"

// NavLink is a top-level navigation entry.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// Navbar is rendered at the top of every page.
type Navbar struct {
	Brand    string
	Links    []NavLink
	User     *types.User
	SignedIn bool
}

// NewNavbar builds the navbar for the current path and (optional) user.
func NewNavbar(path string, user *types.User) Navbar {
	links := []NavLink{
		{Label: "Browse Reviews", Href: "/reviews"},
		{Label: "Catalog", Href: "/catalog"},
	}
	for i := range links {
		links[i].Active = path == links[i].Href || strings.HasPrefix(path, links[i].Href+"/")
	}

	return Navbar{
		Brand:    Brand,
		Links:    links,
		User:     user,
		SignedIn: user != nil,
	}
}

// SearchHref returns where a search for query should go, or "" when the
// trimmed query is blank and nothing should happen.
func SearchHref(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	return "/reviews?q=" + url.QueryEscape(query)
}

// Package web embeds the HTML templates rendered by the server.
package web

import (
	"embed"
	"html/template"

	"github.com/madspace-uw/madspace/internal/view"
)

//go:embed templates/*.tmpl
var files embed.FS

var funcs = template.FuncMap{
	"courseHref": view.CourseHref,
}

// Templates parses every page and partial. Pages are addressed by their
// define name, e.g. "home" or "reviews".
func Templates() (*template.Template, error) {
	return template.New("madspace").Funcs(funcs).ParseFS(files, "templates/*.tmpl")
}

// MustTemplates is Templates for use at startup.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

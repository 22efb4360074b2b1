package ui

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render writes the dashboard page for p.
func Render(w io.Writer, p Page) error {
	return pageTemplate.ExecuteTemplate(w, "page.html", p)
}

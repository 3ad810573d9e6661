// Package view plugs html/template into Echo's Renderer interface so that
// handlers render named pages with a bag of values. Every template reads
// only keys that every code path supplies; a missing variable on any path
// is treated as a bug in the handler, not the template.
package view

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// Renderer implements echo.Renderer over a parsed template set.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses all templates matching the glob (e.g.
// "web/templates/*.html") and returns a Renderer ready to be assigned to
// echo.Echo.Renderer.
func NewRenderer(glob string) (*Renderer, error) {
	t, err := template.ParseGlob(glob)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render executes the named template with the given data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

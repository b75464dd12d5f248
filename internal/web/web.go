// Package web renders the marketplace page. Templates are embedded and use
// html/template, so every piece of user-posted content (titles,
// descriptions, usernames) is escaped at the render boundary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/campusmart/campusmart/internal/model"
	"github.com/campusmart/campusmart/internal/notify"
)

//go:embed templates/*.tmpl.html
var templateFS embed.FS

// Categories offered by the post-item form.
var Categories = []string{
	"textbooks",
	"electronics",
	"furniture",
	"clothing",
	"stationery",
	"other",
}

// PageData is everything the page template needs for one render.
// The rendered affordances are a pure function of Identity: a non-nil
// identity shows the account header and post form with a populated grid,
// nil shows the guest header and an empty grid.
type PageData struct {
	Identity *model.Identity
	Notice   *notify.Notice
	Listings []*model.Listing

	// LoadFailed marks a failed listing load. The grid section renders a
	// retry hint instead of an empty grid, so a transient store error is
	// not mistaken for "no items".
	LoadFailed bool

	Categories []string
}

// Renderer renders the marketplace page.
type Renderer struct {
	page *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	page, err := template.New("page.tmpl.html").ParseFS(templateFS, "templates/*.tmpl.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{page: page}, nil
}

// RenderPage writes the full page. Card order in the output matches the
// order of data.Listings; rendering the same data twice yields identical
// output.
func (r *Renderer) RenderPage(w io.Writer, data PageData) error {
	if data.Categories == nil {
		data.Categories = Categories
	}
	if err := r.page.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

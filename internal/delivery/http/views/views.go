// Package views renders the console pages from embedded templates. Every
// page is parsed together with the shared layout into its own template set,
// so pages can all define the same "content" block.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/notify"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates
var files embed.FS

const layoutName = "layout"

// Page is the data every template receives.
type Page struct {
	Title  string
	Path   string
	Me     *account.Me
	Nav    []Link
	Notice *notify.Notice
	// Errors holds inline field messages of a rejected form.
	Errors map[string]string
	Data   any
}

// Err returns the inline message of a form field.
func (p *Page) Err(field string) string {
	if p == nil {
		return ""
	}
	return p.Errors[field]
}

// ListState carries the query of a list page so pager, search and sort
// links keep it.
type ListState struct {
	Path        string
	Q           string
	Sort        string
	Dir         string
	Tab         string
	DriverID    int64
	Placeholder string
	// Page is the *page.Page being shown.
	Page any
}

// Column is the argument of the sortable header template.
type Column struct {
	State ListState
	Key   string
	Label string
}

func (s ListState) Column(key, label string) Column {
	return Column{State: s, Key: key, Label: label}
}

// Renderer implements gin's HTMLRender over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	base, err := template.New(layoutName).Funcs(Funcs()).ParseFS(files, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	entries, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, entry := range entries {
		page, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(files, entry); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry, err)
		}
		r.pages[path.Base(entry)] = page
	}
	return r, nil
}

// MustNew is New for program start-up.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = r.pages["error.html"]
		data = &Page{Title: "Error", Data: fmt.Sprintf("page %q not found", name)}
	}
	return render.HTML{Template: t, Name: layoutName, Data: data}
}

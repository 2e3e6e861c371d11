// Package render turns transformed pages into final HTML documents using a
// set of embedded html/template layouts. The engine's output fragments
// arrive as pre-rendered HTML; templates only frame them.
package render

import (
	"embed"
	"html/template"
	"io"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/bibliography"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/slug"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates are the leaf layouts; each is parsed together with base.html
// into its own template set so every page can define "content".
var pageTemplates = []string{
	"home", "page", "post", "post_index", "research", "tag_index", "tag_page",
}

var funcMap = template.FuncMap{
	"slugify": slug.Make,
	"formatDate": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	"formatCitation": func(pub bibliography.Publication) template.HTML {
		return template.HTML(bibliography.FormatCitation(pub))
	},
}

// Site is the template view of the configuration, shared by every page.
type Site struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
	Nav         []config.NavItem
	Style       config.StyleConfig
	Math        bool
	Year        int
}

// Fragments carries the engine's per-document output into a template.
type Fragments struct {
	Content      template.HTML
	Toc          template.HTML
	Bibliography template.HTML
}

// Renderer renders pages against one site configuration.
type Renderer struct {
	site Site
	sets map[string]*template.Template
}

// New parses the embedded layouts. Parse errors are programmer errors but
// are still returned rather than panicking, matching the rest of the build.
func New(cfg *config.Config) (*Renderer, error) {
	r := &Renderer{
		site: Site{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BaseURL:     cfg.Site.BaseURL,
			Author:      cfg.Site.Author,
			Nav:         cfg.Nav,
			Style:       cfg.Style,
			Math:        cfg.MathEnabled(),
			Year:        time.Now().Year(),
		},
		sets: make(map[string]*template.Template),
	}

	for _, name := range pageTemplates {
		set, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS,
			"templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, siteerrors.RenderFailed(name, err)
		}
		r.sets[name] = set
	}
	return r, nil
}

func (r *Renderer) render(w io.Writer, name string, data any) error {
	set, ok := r.sets[name]
	if !ok {
		return siteerrors.New(siteerrors.CategoryInternal, siteerrors.SeverityFatal,
			"unknown template: "+name)
	}
	if err := set.ExecuteTemplate(w, "base.html", data); err != nil {
		return siteerrors.RenderFailed(name, err)
	}
	return nil
}

// HomeData feeds the landing page: the about document plus recency windows.
type HomeData struct {
	Site  Site
	Title string
	About Fragments
	// RecentWriting and RecentPublications are the three newest entries of
	// their kind.
	RecentWriting      []*content.Page
	RecentPublications []bibliography.Publication
}

func (r *Renderer) Home(w io.Writer, data HomeData) error {
	data.Site = r.site
	return r.render(w, "home", data)
}

// PageData renders a standalone page (now, and any future static document).
type PageData struct {
	Site      Site
	Title     string
	Subtitle  string
	URL       string
	Fragments Fragments
}

func (r *Renderer) Page(w io.Writer, data PageData) error {
	data.Site = r.site
	return r.render(w, "page", data)
}

// PostData renders a writing post or note document.
type PostData struct {
	Site      Site
	Page      *content.Page
	Fragments Fragments
}

func (r *Renderer) Post(w io.Writer, data PostData) error {
	data.Site = r.site
	return r.render(w, "post", data)
}

// PostIndexData renders a section listing (writing index, notes index).
type PostIndexData struct {
	Site  Site
	Title string
	URL   string
	Pages []*content.Page
}

func (r *Renderer) PostIndex(w io.Writer, data PostIndexData) error {
	data.Site = r.site
	return r.render(w, "post_index", data)
}

// ResearchData renders the research page: project cards and the full
// publication list grouped by year.
type ResearchData struct {
	Site      Site
	Title     string
	Fragments Fragments
	Projects  []*content.Project
	Years     []bibliography.YearGroup
}

func (r *Renderer) Research(w io.Writer, data ResearchData) error {
	data.Site = r.site
	return r.render(w, "research", data)
}

// TagIndexData renders the tag overview page.
type TagIndexData struct {
	Site Site
	Tags []TagSummary
}

// TagSummary is one row of the tag overview.
type TagSummary struct {
	Name  string
	Slug  string
	Count int
}

func (r *Renderer) TagIndex(w io.Writer, data TagIndexData) error {
	data.Site = r.site
	return r.render(w, "tag_index", data)
}

// TagPageData renders the listing for one tag.
type TagPageData struct {
	Site  Site
	Name  string
	Slug  string
	Pages []*content.Page
}

func (r *Renderer) TagPage(w io.Writer, data TagPageData) error {
	data.Site = r.site
	return r.render(w, "tag_page", data)
}

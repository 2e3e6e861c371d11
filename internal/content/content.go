// Package content walks the content tree once and produces the content
// index: every page and project, plus the frozen page registry that wiki
// links resolve against.
package content

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
)

// Section identifies which part of the site a page belongs to.
type Section string

const (
	SectionPage    Section = "page"    // standalone pages: about, research, now
	SectionWriting Section = "writing" // dated posts
	SectionNote    Section = "note"    // dated notes
)

// Page is one static page, post, or note. Created during index building;
// the HTML fields are populated by the transform phase and the value is
// treated as immutable afterwards.
type Page struct {
	Title    string
	Subtitle string
	Date     time.Time
	HasDate  bool
	Tags     []string
	Draft    bool
	Toc      bool

	Slug       string
	URL        string
	Section    Section
	SourcePath string

	Body string // raw markdown body

	HTML             string
	TocHTML          string
	BibliographyHTML string
}

// Project is a card shown on the research page. Projects have no URL of
// their own.
type Project struct {
	Title       string
	Description string
	Image       string
	Links       []frontmatter.Link
	Order       int
	Slug        string
	Body        string
	HTML        string
}

// PageRef is the registry view of a page: everything wiki-link resolution
// and templates need without mutable access to the page itself.
type PageRef struct {
	URL     string
	Title   string
	Section Section
}

// Registry maps title slugs to page references. It is frozen inside
// BuildIndex; nothing mutates it afterwards.
type Registry struct {
	entries map[string]PageRef
}

// Resolve looks up a page by the slug of its title.
func (r *Registry) Resolve(slug string) (PageRef, bool) {
	ref, ok := r.entries[slug]
	return ref, ok
}

// Len returns the number of registered pages.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Index is the result of walking the content tree.
type Index struct {
	// All lists every page in deterministic order: standalone pages first,
	// then writing posts, then notes. The transform phase iterates this.
	All []*Page

	Statics  []*Page // about, research, now (present subset, fixed order)
	Writing  []*Page // date descending, slug ascending on ties
	Notes    []*Page // date descending, slug ascending on ties
	Projects []*Project

	// Tags maps each tag's slug to the pages carrying it, independent of
	// section. TagNames maps the slug back to the first-seen display form.
	Tags     map[string][]*Page
	TagNames map[string]string

	registry *Registry
}

// Registry returns the frozen page registry.
func (i *Index) Registry() *Registry {
	return i.registry
}

// Lookup returns the page whose title slugifies to slug.
func (i *Index) Lookup(slug string) (*Page, bool) {
	for _, p := range i.All {
		if p.Slug == slug {
			return p, true
		}
	}
	return nil, false
}

// TagSlugs returns all tag slugs in sorted order for deterministic output.
func (i *Index) TagSlugs() []string {
	slugs := make([]string, 0, len(i.Tags))
	for s := range i.Tags {
		slugs = append(slugs, s)
	}
	sortStrings(slugs)
	return slugs
}

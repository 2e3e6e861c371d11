package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/slug"
)

// staticPages are the standalone documents at the content root and the URL
// each one maps to.
var staticPages = []struct {
	file string
	url  string
}{
	{"about.md", "/"},
	{"research.md", "/research/"},
	{"now.md", "/now/"},
}

// BuildIndex walks the content tree once and returns the frozen index.
//
// Metadata problems (missing title, missing date on dated sections, missing
// project description, duplicate title slugs) are fatal: a page that cannot
// be addressed safely must stop the build, unlike the per-document warnings
// the transform phase produces.
func BuildIndex(root string, includeDrafts bool) (*Index, error) {
	idx := &Index{
		Tags:     make(map[string][]*Page),
		TagNames: make(map[string]string),
		registry: &Registry{entries: make(map[string]PageRef)},
	}

	for _, static := range staticPages {
		path := filepath.Join(root, static.file)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		page, err := loadPage(path, SectionPage, static.url)
		if err != nil {
			return nil, err
		}
		idx.Statics = append(idx.Statics, page)
	}

	writing, err := loadSection(filepath.Join(root, "writing"), SectionWriting, "/writing/")
	if err != nil {
		return nil, err
	}
	notes, err := loadSection(filepath.Join(root, "notes"), SectionNote, "/notes/")
	if err != nil {
		return nil, err
	}

	for _, page := range writing {
		if page.Draft && !includeDrafts {
			continue
		}
		idx.Writing = append(idx.Writing, page)
	}
	for _, page := range notes {
		if page.Draft && !includeDrafts {
			continue
		}
		idx.Notes = append(idx.Notes, page)
	}

	sortByDateDesc(idx.Writing)
	sortByDateDesc(idx.Notes)

	idx.All = append(idx.All, idx.Statics...)
	idx.All = append(idx.All, idx.Writing...)
	idx.All = append(idx.All, idx.Notes...)

	for _, page := range idx.All {
		if existing, clash := idx.registry.entries[page.Slug]; clash {
			return nil, siteerrors.ContentError(page.SourcePath,
				fmt.Sprintf("title slug %q already used by page %q", page.Slug, existing.Title))
		}
		idx.registry.entries[page.Slug] = PageRef{URL: page.URL, Title: page.Title, Section: page.Section}

		for _, tag := range page.Tags {
			tagSlug := slug.Make(tag)
			if _, seen := idx.TagNames[tagSlug]; !seen {
				idx.TagNames[tagSlug] = tag
			}
			idx.Tags[tagSlug] = append(idx.Tags[tagSlug], page)
		}
	}
	for _, tagSlug := range idx.TagSlugs() {
		sortByDateDesc(idx.Tags[tagSlug])
	}

	projects, err := loadProjects(filepath.Join(root, "projects"))
	if err != nil {
		return nil, err
	}
	idx.Projects = projects

	slog.Debug("Content index built",
		"pages", len(idx.All),
		"writing", len(idx.Writing),
		"notes", len(idx.Notes),
		"projects", len(idx.Projects),
		"tags", len(idx.Tags))

	return idx, nil
}

func loadSection(dir string, section Section, urlPrefix string) ([]*Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, siteerrors.FileSystemError("read "+dir, err)
	}

	var pages []*Page
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		page, err := loadPage(path, section, "")
		if err != nil {
			return nil, err
		}
		page.URL = urlPrefix + page.Slug + "/"
		pages = append(pages, page)
	}
	return pages, nil
}

// loadPage reads one markdown document and validates the fields its section
// requires: title always, date for writing and notes.
func loadPage(path string, section Section, url string) (*Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, siteerrors.FileSystemError("read "+path, err)
	}

	meta, body, err := frontmatter.Extract(raw)
	if err != nil {
		if se, ok := err.(*siteerrors.SiteError); ok {
			se.WithContext("file", path)
		}
		return nil, err
	}

	if meta.Title == "" {
		return nil, siteerrors.ContentError(path, fmt.Sprintf("missing required field \"title\" in %s", path))
	}
	if section != SectionPage && !meta.HasDate {
		return nil, siteerrors.ContentError(path, fmt.Sprintf("missing required field \"date\" in %s", path))
	}

	return &Page{
		Title:      meta.Title,
		Subtitle:   meta.Subtitle,
		Date:       meta.Date,
		HasDate:    meta.HasDate,
		Tags:       meta.Tags,
		Draft:      meta.Draft,
		Toc:        meta.Toc,
		Slug:       slug.Make(meta.Title),
		URL:        url,
		Section:    section,
		SourcePath: path,
		Body:       string(body),
	}, nil
}

func loadProjects(dir string) ([]*Project, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, siteerrors.FileSystemError("read "+dir, err)
	}

	var projects []*Project
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, siteerrors.FileSystemError("read "+path, err)
		}

		meta, body, err := frontmatter.Extract(raw)
		if err != nil {
			if se, ok := err.(*siteerrors.SiteError); ok {
				se.WithContext("file", path)
			}
			return nil, err
		}
		if meta.Title == "" {
			return nil, siteerrors.ContentError(path, fmt.Sprintf("missing required field \"title\" in %s", path))
		}
		if meta.Description == "" {
			return nil, siteerrors.ContentError(path, fmt.Sprintf("missing required field \"description\" in %s", path))
		}

		projects = append(projects, &Project{
			Title:       meta.Title,
			Description: meta.Description,
			Image:       meta.Image,
			Links:       meta.Links,
			Order:       meta.Order,
			Slug:        slug.Make(meta.Title),
			Body:        string(body),
		})
	}

	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Order != projects[j].Order {
			return projects[i].Order < projects[j].Order
		}
		return projects[i].Slug < projects[j].Slug
	})

	return projects, nil
}

// sortByDateDesc orders pages newest first, breaking ties by slug so output
// never depends on directory iteration order.
func sortByDateDesc(pages []*Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		if !pages[i].Date.Equal(pages[j].Date) {
			return pages[i].Date.After(pages[j].Date)
		}
		return pages[i].Slug < pages[j].Slug
	})
}

func sortStrings(s []string) {
	sort.Strings(s)
}

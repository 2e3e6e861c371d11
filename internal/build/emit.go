package build

import (
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/bibliography"
	"git.home.luguber.info/inful/sitegen/internal/content"
	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/feeds"
	"git.home.luguber.info/inful/sitegen/internal/highlight"
	"git.home.luguber.info/inful/sitegen/internal/render"
)

// recentCount is how many writing posts and publications the home page shows.
const recentCount = 3

func htmlFragment(s string) template.HTML {
	return template.HTML(s)
}

// emit is phase three and four: render every output document and copy the
// static trees. It only reads the index; all transformation is done.
func (b *Builder) emit(idx *content.Index, bib *bibliography.Registry, report *Report) error {
	if b.opts.Clean {
		if err := os.RemoveAll(b.opts.OutputDir); err != nil {
			return siteerrors.FileSystemError("clean "+b.opts.OutputDir, err)
		}
	}
	if err := os.MkdirAll(b.opts.OutputDir, 0o755); err != nil {
		return siteerrors.FileSystemError("mkdir "+b.opts.OutputDir, err)
	}

	renderer, err := render.New(b.cfg)
	if err != nil {
		return err
	}

	if err := b.emitStatics(renderer, idx, bib); err != nil {
		return err
	}
	if err := b.emitSections(renderer, idx); err != nil {
		return err
	}
	if err := b.emitTags(renderer, idx); err != nil {
		return err
	}
	if err := b.emitExtras(idx); err != nil {
		return err
	}
	return b.copyStaticTrees()
}

// emitStatics renders the standalone pages. about.md becomes the home page,
// research.md the research page; everything else gets the plain layout.
func (b *Builder) emitStatics(renderer *render.Renderer, idx *content.Index, bib *bibliography.Registry) error {
	for _, page := range idx.Statics {
		var err error
		switch page.URL {
		case "/":
			recent := idx.Writing
			if len(recent) > recentCount {
				recent = recent[:recentCount]
			}
			err = b.writePage(page.URL, func(w *os.File) error {
				return renderer.Home(w, render.HomeData{
					Title:              page.Title,
					About:              fragmentsOf(page),
					RecentWriting:      recent,
					RecentPublications: bib.Recent(recentCount),
				})
			})
		case "/research/":
			err = b.writePage(page.URL, func(w *os.File) error {
				return renderer.Research(w, render.ResearchData{
					Title:     page.Title,
					Fragments: fragmentsOf(page),
					Projects:  idx.Projects,
					Years:     bib.GroupByYear(),
				})
			})
		default:
			err = b.writePage(page.URL, func(w *os.File) error {
				return renderer.Page(w, render.PageData{
					Title:     page.Title,
					Subtitle:  page.Subtitle,
					URL:       page.URL,
					Fragments: fragmentsOf(page),
				})
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) emitSections(renderer *render.Renderer, idx *content.Index) error {
	sections := []struct {
		title string
		url   string
		pages []*content.Page
	}{
		{"Writing", "/writing/", idx.Writing},
		{"Notes", "/notes/", idx.Notes},
	}

	for _, section := range sections {
		if len(section.pages) == 0 {
			continue
		}
		err := b.writePage(section.url, func(w *os.File) error {
			return renderer.PostIndex(w, render.PostIndexData{
				Title: section.title,
				URL:   section.url,
				Pages: section.pages,
			})
		})
		if err != nil {
			return err
		}

		for _, page := range section.pages {
			err := b.writePage(page.URL, func(w *os.File) error {
				return renderer.Post(w, render.PostData{Page: page, Fragments: fragmentsOf(page)})
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) emitTags(renderer *render.Renderer, idx *content.Index) error {
	if len(idx.Tags) == 0 {
		return nil
	}

	var summaries []render.TagSummary
	for _, tagSlug := range idx.TagSlugs() {
		summaries = append(summaries, render.TagSummary{
			Name:  idx.TagNames[tagSlug],
			Slug:  tagSlug,
			Count: len(idx.Tags[tagSlug]),
		})
	}

	err := b.writePage("/tags/", func(w *os.File) error {
		return renderer.TagIndex(w, render.TagIndexData{Tags: summaries})
	})
	if err != nil {
		return err
	}

	for _, tagSlug := range idx.TagSlugs() {
		err := b.writePage("/tags/"+tagSlug+"/", func(w *os.File) error {
			return renderer.TagPage(w, render.TagPageData{
				Name:  idx.TagNames[tagSlug],
				Slug:  tagSlug,
				Pages: idx.Tags[tagSlug],
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// emitExtras writes the feed, the sitemap, and the highlight stylesheet.
func (b *Builder) emitExtras(idx *content.Index) error {
	now := time.Now()

	if err := b.writeFile("feed.xml", func(w *os.File) error {
		return feeds.WriteRSS(w, b.cfg, idx.Writing, now)
	}); err != nil {
		return err
	}
	if err := b.writeFile("sitemap.xml", func(w *os.File) error {
		return feeds.WriteSitemap(w, b.cfg, idx, now)
	}); err != nil {
		return err
	}
	return b.writeFile(filepath.Join("assets", "css", "highlight.css"), func(w *os.File) error {
		return highlight.WriteCSS(w)
	})
}

// copyStaticTrees copies static/ into the output root and assets/ under
// /assets/. Missing source directories are not an error.
func (b *Builder) copyStaticTrees() error {
	copies := []struct {
		src string
		dst string
	}{
		{b.opts.StaticDir, b.opts.OutputDir},
		{b.opts.AssetsDir, filepath.Join(b.opts.OutputDir, "assets")},
	}

	for _, c := range copies {
		info, err := os.Stat(c.src)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := copyTree(c.src, c.dst); err != nil {
			return siteerrors.FileSystemError("copy "+c.src, err)
		}
	}
	return nil
}

// copyTree copies every regular file under src into dst. A destination file
// that already exists is skipped, not an error: the render phase wrote it
// and rendered output wins over a colliding static file.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, err := os.Stat(target); err == nil {
			slog.Debug("Static copy skipped existing file", "path", target)
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

// writePage writes one rendered page at <output>/<url>/index.html.
func (b *Builder) writePage(url string, renderFn func(*os.File) error) error {
	rel := filepath.Join(strings.TrimPrefix(url, "/"), "index.html")
	return b.writeFile(rel, renderFn)
}

func (b *Builder) writeFile(rel string, write func(*os.File) error) error {
	path := filepath.Join(b.opts.OutputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return siteerrors.FileSystemError("mkdir "+filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return siteerrors.FileSystemError("create "+path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

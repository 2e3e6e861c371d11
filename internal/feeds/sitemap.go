package feeds

import (
	"encoding/xml"
	"io"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a sitemap covering every page plus the generated
// listing pages (writing, notes, tags). Dated pages carry lastmod.
func WriteSitemap(w io.Writer, cfg *config.Config, idx *content.Index, now time.Time) error {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	add := func(url string, mod time.Time) {
		entry := urlEntry{Loc: cfg.Site.BaseURL + url}
		if !mod.IsZero() {
			entry.LastMod = mod.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, entry)
	}

	for _, page := range idx.All {
		var mod time.Time
		if page.HasDate {
			mod = page.Date
		}
		add(page.URL, mod)
	}
	if len(idx.Writing) > 0 {
		add("/writing/", idx.Writing[0].Date)
	}
	if len(idx.Notes) > 0 {
		add("/notes/", idx.Notes[0].Date)
	}
	if len(idx.Tags) > 0 {
		add("/tags/", now)
		for _, tagSlug := range idx.TagSlugs() {
			add("/tags/"+tagSlug+"/", idx.Tags[tagSlug][0].Date)
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return siteerrors.FileSystemError("write sitemap", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return siteerrors.RenderFailed("sitemap.xml", err)
	}
	return nil
}

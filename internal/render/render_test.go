package render

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"

	"git.home.luguber.info/inful/sitegen/internal/bibliography"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
)

func testConfig() *config.Config {
	return &config.Config{
		Site: config.SiteConfig{
			Title:       "Test Site",
			Description: "A site for tests.",
			BaseURL:     "https://example.com",
			Author:      "Jane Doe",
		},
		Nav: []config.NavItem{
			{Label: "About", URL: "/"},
			{Label: "Writing", URL: "/writing/"},
		},
	}
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(testConfig())
	require.NoError(t, err)
	return r
}

// parseHTML fails the test if the document is not well-formed enough for the
// html5 parser to produce a body.
func parseHTML(t *testing.T, doc string) *xhtml.Node {
	t.Helper()
	root, err := xhtml.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return root
}

func TestHome_RendersAboutAndRecents(t *testing.T) {
	var buf bytes.Buffer
	err := testRenderer(t).Home(&buf, HomeData{
		Title: "Test Site",
		About: Fragments{Content: template.HTML("<p>Hello there.</p>")},
		RecentWriting: []*content.Page{
			{Title: "Post One", URL: "/writing/post-one/", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
		RecentPublications: []bibliography.Publication{
			{Key: "a", Authors: []string{"Jane Smith"}, Title: "Things", Venue: "Conf", Year: 2024},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	parseHTML(t, out)
	require.Contains(t, out, "<p>Hello there.</p>")
	require.Contains(t, out, `<a href="/writing/post-one/">Post One</a>`)
	require.Contains(t, out, "March 1, 2024")
	require.Contains(t, out, "<em>Conf</em>")
}

func TestPost_FragmentsNotEscaped(t *testing.T) {
	var buf bytes.Buffer
	err := testRenderer(t).Post(&buf, PostData{
		Page: &content.Page{
			Title:   "My Post",
			URL:     "/writing/my-post/",
			Date:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			HasDate: true,
			Tags:    []string{"Go Tips"},
		},
		Fragments: Fragments{
			Content:      template.HTML(`<p>Body with <cite class="citation">[1]</cite></p>`),
			Toc:          template.HTML(`<nav class="toc"></nav>`),
			Bibliography: template.HTML(`<section class="bibliography"></section>`),
		},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `<cite class="citation">[1]</cite>`)
	require.Contains(t, out, `<nav class="toc">`)
	require.Contains(t, out, `<section class="bibliography">`)
	require.NotContains(t, out, "&lt;cite")
	// Tag links go through the slugifier.
	require.Contains(t, out, `href="/tags/go-tips/"`)
}

func TestResearch_GroupsByYear(t *testing.T) {
	var buf bytes.Buffer
	err := testRenderer(t).Research(&buf, ResearchData{
		Title: "Research",
		Projects: []*content.Project{
			{Title: "Tool", Description: "A tool.", Links: []frontmatter.Link{{Label: "Repo", URL: "https://example.com/r"}}},
		},
		Years: []bibliography.YearGroup{
			{Year: 2024, Publications: []bibliography.Publication{
				{Key: "a", Authors: []string{"A B"}, Title: "Alpha", Venue: "V", Year: 2024, Selected: true},
			}},
			{Year: 2023, Publications: []bibliography.Publication{
				{Key: "b", Authors: []string{"C D"}, Title: "Beta", Venue: "W", Year: 2023},
			}},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Less(t, strings.Index(out, ">2024<"), strings.Index(out, ">2023<"))
	require.Contains(t, out, `class="selected"`)
	require.Contains(t, out, "A tool.")
}

func TestTagIndexAndTagPage(t *testing.T) {
	r := testRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.TagIndex(&buf, TagIndexData{
		Tags: []TagSummary{{Name: "go", Slug: "go", Count: 3}},
	}))
	require.Contains(t, buf.String(), `href="/tags/go/"`)

	buf.Reset()
	require.NoError(t, r.TagPage(&buf, TagPageData{
		Name: "go", Slug: "go",
		Pages: []*content.Page{{Title: "P", URL: "/writing/p/", HasDate: true,
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}},
	}))
	require.Contains(t, buf.String(), `<a href="/writing/p/">P</a>`)
}

func TestBase_NavAndMathToggle(t *testing.T) {
	cfg := testConfig()
	off := false
	cfg.Math = &off
	r, err := New(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{Title: "Now", Fragments: Fragments{Content: "<p>x</p>"}}))
	out := buf.String()
	require.Contains(t, out, `<a href="/writing/">Writing</a>`)
	require.NotContains(t, out, "katex")

	on := true
	cfg.Math = &on
	r, err = New(cfg)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, r.Page(&buf, PageData{Title: "Now", Fragments: Fragments{Content: "<p>x</p>"}}))
	require.Contains(t, buf.String(), "katex")
}

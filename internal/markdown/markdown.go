// Package markdown is the content resolution and transformation engine: it
// turns one document's raw markdown into HTML while consulting the frozen
// page and citation registries.
//
// The pipeline is a fixed sequence: wiki-link rewriting and citation
// rewriting on the raw text, a goldmark parse, AST transformation (callouts,
// figures, heading ids, code highlighting), rendering, then TOC and
// bibliography fragment extraction. Every anomaly inside a document degrades
// to a visible marker plus a warning; the engine never aborts a build.
//
// A Transformer is safe for concurrent use: per-document state lives in the
// Transform call, and the registries it consults are read-only.
package markdown

import (
	"bytes"

	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/sitegen/internal/bibliography"
)

// ResolvedPage is the registry view the engine needs to rewrite a wiki link.
type ResolvedPage struct {
	URL   string
	Title string
}

// PageResolver resolves a title slug against the frozen page registry.
type PageResolver interface {
	ResolvePage(slug string) (ResolvedPage, bool)
}

// PageResolverFunc adapts a function to the PageResolver interface.
type PageResolverFunc func(slug string) (ResolvedPage, bool)

func (f PageResolverFunc) ResolvePage(slug string) (ResolvedPage, bool) {
	return f(slug)
}

// CitationResolver resolves a citation key against the frozen citation
// registry. *bibliography.Registry satisfies it.
type CitationResolver interface {
	Lookup(key string) (bibliography.Publication, bool)
}

// Options controls transformation behavior shared by every document.
type Options struct {
	// Math preserves $...$ and $$...$$ spans byte-for-byte.
	Math bool
	// ImageBase is the directory relative image paths are rooted under.
	// Defaults to /assets/images.
	ImageBase string
}

// ProcessedContent is the output of transforming one document.
type ProcessedContent struct {
	HTML             string
	TocHTML          string // empty unless a TOC was requested and headings exist
	BibliographyHTML string // empty unless at least one citation resolved
	Warnings         []string
}

// Transformer transforms documents against a pair of frozen registries.
type Transformer struct {
	pages     PageResolver
	citations CitationResolver
	opts      Options
	md        goldmark.Markdown
}

// docStateKey carries per-document state through the goldmark parse so the
// AST transformation pass can record warnings and headings.
var docStateKey = parser.NewContextKey()

type docState struct {
	warnings []string
	headings []tocEntry
}

func (s *docState) warn(msg string) {
	s.warnings = append(s.warnings, msg)
}

// NewTransformer builds a transformer over the given registries. The
// registries must be frozen: the engine only ever reads them.
func NewTransformer(pages PageResolver, citations CitationResolver, opts Options) *Transformer {
	if opts.ImageBase == "" {
		opts.ImageBase = "/assets/images"
	}

	t := &Transformer{pages: pages, citations: citations, opts: opts}

	extensions := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
	}
	if opts.Math {
		extensions = append(extensions, passthrough.New(passthrough.Config{
			InlineDelimiters: []passthrough.Delimiters{{Open: "$", Close: "$"}},
			BlockDelimiters:  []passthrough.Delimiters{{Open: "$$", Close: "$$"}},
		}))
	}

	t.md = goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(&docTransformer{t: t}, 500)),
		),
		goldmark.WithRendererOptions(
			// The pre-parse passes inject anchor/cite/span markers as raw
			// HTML; they must survive rendering.
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&nodeRenderer{}, 500)),
		),
	)
	return t
}

// Transform runs the full pipeline over one document body.
func (t *Transformer) Transform(body string, extractToc bool) ProcessedContent {
	state := &docState{}

	src, wikiWarnings := rewriteWikiLinks(body, t.pages)
	state.warnings = append(state.warnings, wikiWarnings...)

	src, numbers, citeWarnings := rewriteCitations(src, t.citations)
	state.warnings = append(state.warnings, citeWarnings...)

	source := []byte(src)
	pc := parser.NewContext()
	pc.Set(docStateKey, state)
	doc := t.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := t.md.Renderer().Render(&buf, source, doc); err != nil {
		state.warn("render failed: " + err.Error())
	}

	out := ProcessedContent{
		HTML:     buf.String(),
		Warnings: state.warnings,
	}
	if extractToc && len(state.headings) > 0 {
		out.TocHTML = renderToc(state.headings)
	}
	if len(numbers.order) > 0 {
		out.BibliographyHTML = renderBibliography(numbers, t.citations)
	}
	return out
}

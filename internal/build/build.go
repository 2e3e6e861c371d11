// Package build orchestrates a full site build: registry construction,
// parallel document transformation, template rendering, and emission.
//
// The build is strictly two-phase. Phase one walks the content tree and the
// bibliography and freezes both registries. Phase two transforms every
// document against those frozen registries; workers never write to them, so
// transformation order cannot influence output.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitegen/internal/bibliography"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/render"
)

// Options selects what a build reads, writes, and tolerates.
type Options struct {
	ContentDir    string // markdown tree, default "content"
	StaticDir     string // copied verbatim into the output root
	AssetsDir     string // copied under /assets/
	OutputDir     string // default "public"
	IncludeDrafts bool
	Clean         bool // remove OutputDir before writing
	Strict        bool // broken wiki links fail the build
}

func (o *Options) applyDefaults() {
	if o.ContentDir == "" {
		o.ContentDir = "content"
	}
	if o.StaticDir == "" {
		o.StaticDir = "static"
	}
	if o.AssetsDir == "" {
		o.AssetsDir = "assets"
	}
	if o.OutputDir == "" {
		o.OutputDir = "public"
	}
}

// Warning is one non-fatal problem found in one document.
type Warning struct {
	Doc     string
	Message string
}

// Report summarizes a completed build.
type Report struct {
	BuildID      string
	Pages        int
	Projects     int
	Publications int
	Warnings     []Warning
	Duration     time.Duration
}

// Builder runs builds for one configuration.
type Builder struct {
	cfg  *config.Config
	opts Options
}

func New(cfg *config.Config, opts Options) *Builder {
	opts.applyDefaults()
	return &Builder{cfg: cfg, opts: opts}
}

// Run performs a full build and writes the site to the output directory.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report, idx, bib, err := b.resolve(ctx)
	if err != nil {
		return nil, err
	}

	if err := b.emit(idx, bib, report); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	slog.Info("Build complete",
		"build_id", report.BuildID,
		"pages", report.Pages,
		"projects", report.Projects,
		"publications", report.Publications,
		"warnings", len(report.Warnings),
		"duration", report.Duration)
	return report, nil
}

// Check runs the resolution phases only: registries are built and every
// document is transformed, but nothing is written.
func (b *Builder) Check(ctx context.Context) (*Report, error) {
	start := time.Now()
	report, _, _, err := b.resolve(ctx)
	if err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	return report, nil
}

// resolve runs phases one and two: build both registries, then transform
// every page and project in parallel against the frozen state.
func (b *Builder) resolve(ctx context.Context) (*Report, *content.Index, *bibliography.Registry, error) {
	report := &Report{BuildID: uuid.NewString()}

	slog.Info("Build starting", "build_id", report.BuildID, "content", b.opts.ContentDir)

	idx, err := content.BuildIndex(b.opts.ContentDir, b.opts.IncludeDrafts)
	if err != nil {
		return nil, nil, nil, err
	}

	bibPath := filepath.Join(b.opts.ContentDir, "publications.bib")
	bib, bibWarnings, err := bibliography.Load(bibPath)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, msg := range bibWarnings {
		report.Warnings = append(report.Warnings, Warning{Doc: bibPath, Message: msg})
	}

	report.Pages = len(idx.All)
	report.Projects = len(idx.Projects)
	report.Publications = bib.Len()

	transformer := markdown.NewTransformer(
		markdown.PageResolverFunc(func(slug string) (markdown.ResolvedPage, bool) {
			ref, ok := idx.Registry().Resolve(slug)
			if !ok {
				return markdown.ResolvedPage{}, false
			}
			return markdown.ResolvedPage{URL: ref.URL, Title: ref.Title}, true
		}),
		bib,
		markdown.Options{Math: b.cfg.MathEnabled()},
	)

	if err := b.transformAll(ctx, transformer, idx, report); err != nil {
		return nil, nil, nil, err
	}

	for _, w := range report.Warnings {
		slog.Warn("Document warning", "doc", w.Doc, "message", w.Message)
	}

	if b.opts.Strict {
		if err := strictViolations(report.Warnings); err != nil {
			return nil, nil, nil, err
		}
	}

	return report, idx, bib, nil
}

// transformAll runs phase two. Each worker owns exactly one page or project,
// so the only shared state is the read-only registries; warnings are merged
// after the join in index order to keep reports deterministic.
func (b *Builder) transformAll(ctx context.Context, tr *markdown.Transformer, idx *content.Index, report *Report) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	pageWarnings := make([][]string, len(idx.All))
	projectWarnings := make([][]string, len(idx.Projects))

	for i, page := range idx.All {
		i, page := i, page
		g.Go(func() error {
			out := tr.Transform(page.Body, page.Toc)
			page.HTML = out.HTML
			page.TocHTML = out.TocHTML
			page.BibliographyHTML = out.BibliographyHTML
			pageWarnings[i] = out.Warnings
			return nil
		})
	}
	for i, project := range idx.Projects {
		i, project := i, project
		g.Go(func() error {
			out := tr.Transform(project.Body, false)
			project.HTML = out.HTML
			projectWarnings[i] = out.Warnings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, page := range idx.All {
		for _, msg := range pageWarnings[i] {
			report.Warnings = append(report.Warnings, Warning{Doc: page.SourcePath, Message: msg})
		}
	}
	for i, project := range idx.Projects {
		for _, msg := range projectWarnings[i] {
			report.Warnings = append(report.Warnings, Warning{Doc: project.Title, Message: msg})
		}
	}
	return nil
}

// strictViolations turns broken wiki links into a fatal content error naming
// every offending document.
func strictViolations(warnings []Warning) error {
	seen := map[string]bool{}
	var docs []string
	for _, w := range warnings {
		if strings.HasPrefix(w.Message, "broken wiki link") && !seen[w.Doc] {
			seen[w.Doc] = true
			docs = append(docs, w.Doc)
		}
	}
	if len(docs) == 0 {
		return nil
	}
	sort.Strings(docs)
	return siteerrors.New(siteerrors.CategoryContent, siteerrors.SeverityFatal,
		fmt.Sprintf("broken wiki links in %d document(s): %s", len(docs), strings.Join(docs, ", ")))
}

// fragmentsOf adapts a transformed page for the template layer.
func fragmentsOf(page *content.Page) render.Fragments {
	return render.Fragments{
		Content:      htmlFragment(page.HTML),
		Toc:          htmlFragment(page.TocHTML),
		Bibliography: htmlFragment(page.BibliographyHTML),
	}
}

package markdown

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/sitegen/internal/highlight"
	"git.home.luguber.info/inful/sitegen/internal/slug"
)

// docTransformer runs after inline parsing and applies the structural
// rewrites: external link normalization, callouts, figures, code
// highlighting, and heading id assignment. Order matters: heading ids run
// last so they see the final document shape.
type docTransformer struct {
	t *Transformer
}

func (d *docTransformer) Transform(doc *gmast.Document, reader text.Reader, pc parser.Context) {
	state, _ := pc.Get(docStateKey).(*docState)
	if state == nil {
		state = &docState{}
	}
	source := reader.Source()

	normalizeExternalLinks(doc, source)
	transformCallouts(doc, source, state)
	transformFigures(doc, source, d.t.opts.ImageBase, state)
	transformCodeBlocks(doc, source, state)
	assignHeadingIDs(doc, source, state)
}

// bareDomainRE recognizes destinations written as a bare domain, optionally
// with a port, path, query, or fragment.
var bareDomainRE = regexp.MustCompile(`(?i)^((?:[a-z0-9-]+\.)+[a-z]{2,})((?::\d+)?(?:[/?#].*)?)?$`)

// normalizeExternalLinks prefixes https:// onto link destinations written as
// bare domains, so "example.com/post" does not render as a relative path.
// Site-relative and already-schemed destinations pass through untouched.
func normalizeExternalLinks(doc *gmast.Document, source []byte) {
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		link, ok := n.(*gmast.Link)
		if !ok {
			return gmast.WalkContinue, nil
		}
		dest := string(link.Destination)
		if dest == "" || strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "#") ||
			strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../") ||
			strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
			return gmast.WalkContinue, nil
		}
		if bareDomainRE.MatchString(dest) {
			link.Destination = []byte("https://" + dest)
		}
		return gmast.WalkContinue, nil
	})
}

// calloutMarkerRE matches the first line of a callout blockquote:
// [!type] with an optional custom title on the same line.
var calloutMarkerRE = regexp.MustCompile(`^\[!([A-Za-z]+)\]\s*(.*)$`)

var calloutTypes = map[string]bool{
	"note":      true,
	"warning":   true,
	"tip":       true,
	"important": true,
	"caution":   true,
	"info":      true,
}

// transformCallouts rewrites blockquotes whose first line is a callout
// marker into Callout nodes. Blockquotes without a marker stay ordinary
// quotes. An unrecognized type degrades to note with a warning.
func transformCallouts(doc *gmast.Document, source []byte, state *docState) {
	var quotes []*gmast.Blockquote
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if bq, ok := n.(*gmast.Blockquote); ok && entering {
			quotes = append(quotes, bq)
		}
		return gmast.WalkContinue, nil
	})

	for _, bq := range quotes {
		para, ok := bq.FirstChild().(*gmast.Paragraph)
		if !ok {
			continue
		}
		line, consumed := firstLine(para, source)
		m := calloutMarkerRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		typ := strings.ToLower(m[1])
		if !calloutTypes[typ] {
			state.warn("unknown callout type: " + m[1])
			typ = "note"
		}
		title := strings.TrimSpace(m[2])
		if title == "" {
			title = strings.ToUpper(typ[:1]) + typ[1:]
		}

		// Drop the marker line from the first paragraph; if nothing
		// remains, drop the paragraph itself.
		for _, n := range consumed {
			para.RemoveChild(para, n)
		}
		if para.ChildCount() == 0 {
			bq.RemoveChild(bq, para)
		}

		callout := &Callout{CalloutType: typ, Title: title}
		for child := bq.FirstChild(); child != nil; {
			next := child.NextSibling()
			callout.AppendChild(callout, child)
			child = next
		}
		bq.Parent().ReplaceChild(bq.Parent(), bq, callout)
	}
}

// firstLine collects the text of the paragraph's leading inline run, up to
// and including the first line break. It returns the concatenated text and
// the nodes that make up that run (break included) so the caller can remove
// them.
func firstLine(para *gmast.Paragraph, source []byte) (string, []gmast.Node) {
	var b strings.Builder
	var consumed []gmast.Node
	for child := para.FirstChild(); child != nil; child = child.NextSibling() {
		txt, ok := child.(*gmast.Text)
		if !ok {
			break
		}
		b.Write(txt.Segment.Value(source))
		consumed = append(consumed, child)
		if txt.SoftLineBreak() || txt.HardLineBreak() {
			break
		}
	}
	return b.String(), consumed
}

// figureVariantRE matches a width variant prefix in image alt text,
// e.g. "full: A wide diagram".
var figureVariantRE = regexp.MustCompile(`(?i)^\s*(full|narrow|wide)\s*:\s*(.*)$`)

// transformFigures replaces every image with a Figure node. The alt text may
// begin with a width variant prefix; relative sources are rooted under the
// configured image base. An image that is a paragraph's only child replaces
// the whole paragraph.
func transformFigures(doc *gmast.Document, source []byte, imageBase string, state *docState) {
	var images []*gmast.Image
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if img, ok := n.(*gmast.Image); ok && entering {
			images = append(images, img)
		}
		return gmast.WalkContinue, nil
	})

	for _, img := range images {
		alt := textOf(img, source)
		class := "image-figure"
		if m := figureVariantRE.FindStringSubmatch(alt); m != nil {
			switch strings.ToLower(m[1]) {
			case "full":
				class += " image-figure-full"
			case "narrow":
				class += " image-figure-narrow"
			}
			// "wide" is the default width: the prefix is stripped from the
			// alt text but adds no modifier class.
			alt = strings.TrimSpace(m[2])
		}

		src := resolveImageSrc(string(img.Destination), imageBase)
		if alt == "" {
			state.warn("image missing alt text: " + src)
		}

		fig := &Figure{Src: src, Alt: alt, Class: class}

		parent := img.Parent()
		if para, ok := parent.(*gmast.Paragraph); ok && para.ChildCount() == 1 {
			para.Parent().ReplaceChild(para.Parent(), para, fig)
		} else {
			parent.ReplaceChild(parent, img, fig)
		}
	}
}

func resolveImageSrc(src, base string) string {
	if src == "" || strings.HasPrefix(src, "/") || strings.Contains(src, "://") {
		return src
	}
	return path.Join(base, src)
}

// transformCodeBlocks highlights fenced code blocks with a language tag at
// parse time, replacing them with HighlightedCode leaves. Untagged blocks
// keep goldmark's default rendering.
func transformCodeBlocks(doc *gmast.Document, source []byte, state *docState) {
	var blocks []*gmast.FencedCodeBlock
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if fcb, ok := n.(*gmast.FencedCodeBlock); ok && entering {
			blocks = append(blocks, fcb)
		}
		return gmast.WalkContinue, nil
	})

	for _, fcb := range blocks {
		lang := string(fcb.Language(source))
		if lang == "" {
			continue
		}

		var code strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			code.Write(seg.Value(source))
		}

		highlighted, err := highlight.Highlight(lang, code.String())
		if err != nil {
			state.warn("failed to highlight code block: " + err.Error())
			continue
		}

		node := &HighlightedCode{Language: lang, HTML: highlighted}
		fcb.Parent().ReplaceChild(fcb.Parent(), fcb, node)
	}
}

// assignHeadingIDs gives every h2-h4 a slug-derived id, deduplicated with a
// numeric suffix, and records the entries for TOC extraction. Ids are
// assigned whether or not the document asked for a TOC so fragment links
// stay stable.
func assignHeadingIDs(doc *gmast.Document, source []byte, state *docState) {
	used := make(map[string]bool)
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok || h.Level < 2 || h.Level > 4 {
			return gmast.WalkContinue, nil
		}

		title := textOf(h, source)
		id := headingID(title, used)
		h.SetAttributeString("id", []byte(id))
		state.headings = append(state.headings, tocEntry{Level: h.Level, Text: title, ID: id})
		return gmast.WalkContinue, nil
	})
}

// headingID returns the first free id among base, base-2, base-3… and marks
// it taken. Probing the candidate itself (not just the base) keeps ids unique
// even when a later heading's own slug equals an already-issued suffixed id.
func headingID(title string, used map[string]bool) string {
	base := slug.Make(title)
	id := base
	for n := 2; used[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	used[id] = true
	return id
}

// textOf concatenates the plain text of a node's inline subtree.
func textOf(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
)

// KindCallout identifies the callout block node.
var KindCallout = gmast.NewNodeKind("Callout")

// Callout is a blockquote reinterpreted as an admonition. Its children are
// the body nodes left after the marker line was stripped.
type Callout struct {
	gmast.BaseBlock
	CalloutType string // note, warning, tip, important, caution, info
	Title       string
}

func (n *Callout) Kind() gmast.NodeKind { return KindCallout }

func (n *Callout) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"CalloutType": n.CalloutType,
		"Title":       n.Title,
	}, nil)
}

// KindFigure identifies the figure node.
var KindFigure = gmast.NewNodeKind("Figure")

// Figure replaces an image (and its paragraph, when the image stood alone)
// with a semantic figure element. Class carries the width variant.
type Figure struct {
	gmast.BaseBlock
	Src   string
	Alt   string
	Class string
}

func (n *Figure) Kind() gmast.NodeKind { return KindFigure }

func (n *Figure) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"Src":   n.Src,
		"Alt":   n.Alt,
		"Class": n.Class,
	}, nil)
}

// KindHighlightedCode identifies the pre-highlighted code block node.
var KindHighlightedCode = gmast.NewNodeKind("HighlightedCode")

// HighlightedCode is a fenced code block whose chroma output was computed
// during the AST pass; the renderer only frames and emits it.
type HighlightedCode struct {
	gmast.BaseBlock
	Language string
	HTML     string
}

func (n *HighlightedCode) Kind() gmast.NodeKind { return KindHighlightedCode }

func (n *HighlightedCode) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"Language": n.Language,
	}, nil)
}

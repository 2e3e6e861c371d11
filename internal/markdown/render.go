package markdown

import (
	"html"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// nodeRenderer emits HTML for the custom nodes the AST pass produces.
type nodeRenderer struct{}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindCallout, r.renderCallout)
	reg.Register(KindFigure, r.renderFigure)
	reg.Register(KindHighlightedCode, r.renderHighlightedCode)
}

func (r *nodeRenderer) renderCallout(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	n := node.(*Callout)
	if entering {
		_, _ = w.WriteString(`<aside class="callout callout-` + n.CalloutType + `">`)
		_, _ = w.WriteString(`<div class="callout-title"><span class="callout-icon"></span><span class="callout-title-text">`)
		_, _ = w.WriteString(html.EscapeString(n.Title))
		_, _ = w.WriteString(`</span></div><div class="callout-content">`)
	} else {
		_, _ = w.WriteString(`</div></aside>` + "\n")
	}
	return gmast.WalkContinue, nil
}

func (r *nodeRenderer) renderFigure(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*Figure)
	_, _ = w.WriteString(`<figure class="` + n.Class + `">`)
	_, _ = w.WriteString(`<img src="` + html.EscapeString(n.Src) + `" alt="` + html.EscapeString(n.Alt) + `" loading="lazy">`)
	if n.Alt != "" {
		_, _ = w.WriteString(`<figcaption>` + html.EscapeString(n.Alt) + `</figcaption>`)
	}
	_, _ = w.WriteString(`</figure>` + "\n")
	return gmast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderHighlightedCode(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*HighlightedCode)
	_, _ = w.WriteString(`<div class="code-block"><div class="code-header"><span class="code-language">`)
	_, _ = w.WriteString(html.EscapeString(n.Language))
	_, _ = w.WriteString(`</span></div>`)
	_, _ = w.WriteString(n.HTML)
	_, _ = w.WriteString(`</div>` + "\n")
	return gmast.WalkSkipChildren, nil
}

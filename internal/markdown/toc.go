package markdown

import (
	"html"
	"strings"
)

// tocEntry is one heading recorded during the AST pass.
type tocEntry struct {
	Level int // 2..4
	Text  string
	ID    string
}

type tocNode struct {
	entry    tocEntry
	children []*tocNode
}

// renderToc builds the nested table-of-contents fragment from the recorded
// headings. Nesting follows heading levels; a document that jumps from h2 to
// h4 nests the h4 directly under the h2.
func renderToc(entries []tocEntry) string {
	roots := buildTocTree(entries)
	if len(roots) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<nav class="toc">` + "\n")
	b.WriteString(`<h2 class="toc-title">Contents</h2>` + "\n")
	writeTocList(&b, roots)
	b.WriteString(`</nav>` + "\n")
	return b.String()
}

func buildTocTree(entries []tocEntry) []*tocNode {
	var roots []*tocNode
	var stack []*tocNode

	for _, entry := range entries {
		node := &tocNode{entry: entry}
		for len(stack) > 0 && stack[len(stack)-1].entry.Level >= entry.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
		}
		stack = append(stack, node)
	}
	return roots
}

func writeTocList(b *strings.Builder, nodes []*tocNode) {
	b.WriteString(`<ol class="toc-list">` + "\n")
	for _, node := range nodes {
		b.WriteString(`<li><a href="#` + html.EscapeString(node.entry.ID) + `">` +
			html.EscapeString(node.entry.Text) + `</a>`)
		if len(node.children) > 0 {
			b.WriteString("\n")
			writeTocList(b, node.children)
		}
		b.WriteString(`</li>` + "\n")
	}
	b.WriteString(`</ol>` + "\n")
}

package markdown

import (
	"fmt"
	"html"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/bibliography"
)

// renderBibliography emits the per-document references section, ordered by
// the citation numbers assigned in the text. Every key in the numberer
// resolved during rewriting, so lookups here cannot miss.
func renderBibliography(numbers *numberer, citations CitationResolver) string {
	var b strings.Builder
	b.WriteString(`<section class="bibliography">` + "\n")
	b.WriteString(`<h2>References</h2>` + "\n")
	b.WriteString(`<ol class="references">` + "\n")

	for i, key := range numbers.order {
		pub, ok := citations.Lookup(key)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, `<li id="ref-%d">%s`, i+1, bibliography.FormatCitation(pub))
		if pub.URL != "" {
			b.WriteString(` <a href="` + html.EscapeString(pub.URL) + `" class="ref-link">Paper</a>`)
		}
		if pub.Code != "" {
			b.WriteString(` <a href="` + html.EscapeString(pub.Code) + `" class="ref-link">Code</a>`)
		}
		b.WriteString(`</li>` + "\n")
	}

	b.WriteString(`</ol>` + "\n")
	b.WriteString(`</section>` + "\n")
	return b.String()
}

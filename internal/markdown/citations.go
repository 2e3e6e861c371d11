package markdown

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/bibliography"
)

// citationRE matches a bracketed citation group: [@key] or [@key1; @key2].
var citationRE = regexp.MustCompile(`\[@([^\]]+)\]`)

// numberer assigns per-document citation numbers in first-appearance order.
// A key cited twice keeps its first number.
type numberer struct {
	order []string
	num   map[string]int
}

func newNumberer() *numberer {
	return &numberer{num: make(map[string]int)}
}

func (n *numberer) assign(key string) int {
	if existing, ok := n.num[key]; ok {
		return existing
	}
	n.order = append(n.order, key)
	n.num[key] = len(n.order)
	return n.num[key]
}

// rewriteCitations resolves bracketed citation groups against the citation
// registry and replaces each with a cite element carrying the assigned
// numbers. Keys missing from the registry warn and are skipped within their
// group; a group whose keys all miss is left verbatim in the text.
func rewriteCitations(src string, citations CitationResolver) (string, *numberer, []string) {
	numbers := newNumberer()
	var warnings []string

	out := citationRE.ReplaceAllStringFunc(src, func(match string) string {
		groups := citationRE.FindStringSubmatch(match)

		var keys []string
		var labels []string
		var inline []string
		for _, part := range strings.Split(groups[1], ";") {
			key := strings.TrimSpace(part)
			key = strings.TrimPrefix(key, "@")
			if key == "" {
				continue
			}
			pub, ok := citations.Lookup(key)
			if !ok {
				warnings = append(warnings, "unknown citation key: "+key)
				continue
			}
			keys = append(keys, key)
			labels = append(labels, strconv.Itoa(numbers.assign(key)))
			inline = append(inline, bibliography.FormatInline(pub))
		}

		if len(keys) == 0 {
			return match
		}

		return `<cite class="citation" data-keys="` + html.EscapeString(strings.Join(keys, ",")) +
			`" data-citation="` + html.EscapeString(strings.Join(inline, "; ")) +
			`">[` + strings.Join(labels, ", ") + `]</cite>`
	})

	return out, numbers, warnings
}

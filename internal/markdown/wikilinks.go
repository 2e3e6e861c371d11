package markdown

import (
	"html"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/slug"
)

// wikiLinkRE matches [[Target]] and [[Target|display text]]. The target may
// not contain ] or |; the display text may not contain ].
var wikiLinkRE = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

// rewriteWikiLinks resolves every wiki link in the raw markdown against the
// page registry. Resolved links become plain anchors; unresolved ones keep
// their display text inside a broken-link span and produce a warning, so one
// bad reference never hides the rest of the document.
//
// Fragment and block suffixes ("Page#Section", "Page^block") resolve against
// the page itself; the suffix is dropped from the target before lookup.
func rewriteWikiLinks(src string, pages PageResolver) (string, []string) {
	var warnings []string

	out := wikiLinkRE.ReplaceAllStringFunc(src, func(match string) string {
		groups := wikiLinkRE.FindStringSubmatch(match)
		target := strings.TrimSpace(groups[1])
		display := target
		if groups[2] != "" {
			display = strings.TrimSpace(groups[2])
		}

		lookup := target
		if i := strings.IndexAny(lookup, "#^"); i >= 0 {
			lookup = strings.TrimSpace(lookup[:i])
		}

		ref, ok := pages.ResolvePage(slug.Make(lookup))
		if !ok {
			warnings = append(warnings, "broken wiki link: "+target)
			return `<span class="broken-link">` + html.EscapeString(display) + `</span>`
		}
		return `<a href="` + html.EscapeString(ref.URL) + `">` + html.EscapeString(display) + `</a>`
	})

	return out, warnings
}

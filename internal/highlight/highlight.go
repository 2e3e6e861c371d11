// Package highlight is the syntax highlighting collaborator. It wraps
// chroma with a fixed, class-based output contract so the site stylesheet
// can theme code without inline styles.
package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// WrapperClass is the CSS class chroma emits on the outer element. It is
// part of the public contract with the stylesheet; do not change it without
// updating the theme.
const WrapperClass = "highlight"

const styleName = "github"

func formatter() *chromahtml.Formatter {
	return chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.ClassPrefix(""),
	)
}

// Highlight renders code as HTML for the given language tag. Unknown
// languages fall back to plain-text tokenization rather than failing.
func Highlight(lang, code string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<div class="` + WrapperClass + `">`)
	if err := formatter().Format(&b, style, iterator); err != nil {
		return "", err
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}

// WriteCSS writes the class definitions for the highlight theme, emitted
// once per build as a standalone stylesheet.
func WriteCSS(w io.Writer) error {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return formatter().WriteCSS(w, style)
}

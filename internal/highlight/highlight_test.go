package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHighlight_EmitsClassesNotInlineStyles(t *testing.T) {
	out, err := Highlight("go", "package main\n\nfunc main() {}\n")
	require.NoError(t, err)
	require.Contains(t, out, `<div class="highlight">`)
	require.NotContains(t, out, "style=")
	require.Contains(t, out, "main")
}

func TestHighlight_UnknownLanguageFallsBack(t *testing.T) {
	out, err := Highlight("not-a-language", "plain text here")
	require.NoError(t, err)
	require.Contains(t, out, "plain text here")
}

func TestHighlight_EscapesHTMLInCode(t *testing.T) {
	out, err := Highlight("text", "<script>alert(1)</script>")
	require.NoError(t, err)
	require.NotContains(t, out, "<script>")
	require.Contains(t, out, "&lt;script&gt;")
}

func TestWriteCSS_ProducesRules(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteCSS(&b))
	require.Contains(t, b.String(), ".chroma")
}

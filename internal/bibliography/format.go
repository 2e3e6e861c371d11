package bibliography

import (
	"fmt"
	"html"
	"strings"
)

// FormatCitation renders a publication as a full bibliography entry:
//
//	Author One, Author Two. "Title." <em>Venue</em>, 2024.
//
// Text fields are HTML-escaped; the emphasis around the venue is the only
// markup produced.
func FormatCitation(pub Publication) string {
	authors := html.EscapeString(strings.Join(pub.Authors, ", "))
	return fmt.Sprintf("%s. \"%s.\" <em>%s</em>, %d.",
		authors, html.EscapeString(pub.Title), html.EscapeString(pub.Venue), pub.Year)
}

// FormatInline renders a publication as a short tooltip citation:
//
//	Lastname et al. (2024)
func FormatInline(pub Publication) string {
	var author string
	switch len(pub.Authors) {
	case 0:
		author = "Unknown"
	case 1:
		author = lastName(pub.Authors[0])
	default:
		author = lastName(pub.Authors[0]) + " et al."
	}
	return fmt.Sprintf("%s (%d)", author, pub.Year)
}

// lastName extracts the family name from either "Last, First" or
// "First Last" author forms.
func lastName(name string) string {
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[len(fields)-1]
}

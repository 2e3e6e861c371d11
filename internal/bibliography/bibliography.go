// Package bibliography loads the site's BibTeX file into an immutable
// citation registry keyed by citation key.
//
// The loader is deliberately forgiving at the entry level (a bad entry is
// skipped with a warning) and strict at the file level (unparseable BibTeX
// and duplicate keys abort the build).
package bibliography

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nickng/bibtex"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Publication is one citable work from the bibliography.
type Publication struct {
	Key      string
	Authors  []string
	Title    string
	Venue    string
	Year     int
	Month    string
	URL      string
	Code     string
	Abstract string
	Selected bool
}

// Registry maps citation keys to publications. It is built once by Load and
// read-only afterwards.
type Registry struct {
	byKey map[string]Publication
	keys  []string // sorted, for deterministic iteration
}

// Lookup returns the publication for a citation key.
func (r *Registry) Lookup(key string) (Publication, bool) {
	pub, ok := r.byKey[key]
	return pub, ok
}

// Len returns the number of publications in the registry.
func (r *Registry) Len() int {
	return len(r.byKey)
}

// All returns every publication in key-sorted order.
func (r *Registry) All() []Publication {
	out := make([]Publication, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.byKey[k])
	}
	return out
}

// Selected returns the publications flagged as selected, key-sorted.
func (r *Registry) Selected() []Publication {
	var out []Publication
	for _, k := range r.keys {
		if r.byKey[k].Selected {
			out = append(out, r.byKey[k])
		}
	}
	return out
}

// YearGroup is a set of publications sharing a year.
type YearGroup struct {
	Year         int
	Publications []Publication
}

// GroupByYear groups publications by year, years strictly descending,
// titles ascending within a year.
func (r *Registry) GroupByYear() []YearGroup {
	byYear := make(map[int][]Publication)
	for _, k := range r.keys {
		pub := r.byKey[k]
		byYear[pub.Year] = append(byYear[pub.Year], pub)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make([]YearGroup, 0, len(years))
	for _, y := range years {
		pubs := byYear[y]
		sort.Slice(pubs, func(i, j int) bool {
			return strings.ToLower(pubs[i].Title) < strings.ToLower(pubs[j].Title)
		})
		groups = append(groups, YearGroup{Year: y, Publications: pubs})
	}
	return groups
}

// Recent returns up to n publications, newest year first, titles ascending
// within a year.
func (r *Registry) Recent(n int) []Publication {
	var out []Publication
	for _, g := range r.GroupByYear() {
		for _, pub := range g.Publications {
			if len(out) == n {
				return out
			}
			out = append(out, pub)
		}
	}
	return out
}

func newRegistry() *Registry {
	return &Registry{byKey: make(map[string]Publication)}
}

func (r *Registry) add(pub Publication) error {
	if _, exists := r.byKey[pub.Key]; exists {
		return siteerrors.DuplicateCitationKey(pub.Key)
	}
	r.byKey[pub.Key] = pub
	i := sort.SearchStrings(r.keys, pub.Key)
	r.keys = append(r.keys, "")
	copy(r.keys[i+1:], r.keys[i:])
	r.keys[i] = pub.Key
	return nil
}

// Load parses the BibTeX file at path into a Registry.
//
// A missing or unreadable file yields an empty registry plus one warning. A
// file-level parse failure or a duplicate citation key is fatal. Entries
// missing author, title, a parseable year, or a venue (booktitle, else
// journal) are skipped with a warning naming the key.
func Load(path string) (*Registry, []string, error) {
	registry := newRegistry()

	data, err := os.ReadFile(path)
	if err != nil {
		warning := fmt.Sprintf("bibliography file not readable, publications omitted: %s", path)
		return registry, []string{warning}, nil
	}

	parsed, err := bibtex.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, siteerrors.BibliographyError(path, err)
	}

	var warnings []string
	for _, entry := range parsed.Entries {
		pub, warning := convertEntry(entry)
		if warning != "" {
			warnings = append(warnings, warning)
			continue
		}
		if err := registry.add(pub); err != nil {
			return nil, nil, err
		}
	}

	slog.Debug("Bibliography loaded", "path", path, "publications", registry.Len(), "skipped", len(warnings))
	return registry, warnings, nil
}

// convertEntry maps a raw BibTeX entry onto a Publication, returning a
// non-empty warning when a required field is missing or malformed.
func convertEntry(entry *bibtex.BibEntry) (Publication, string) {
	key := entry.CiteName

	author := fieldValue(entry, "author")
	title := fieldValue(entry, "title")
	yearRaw := fieldValue(entry, "year")
	if author == "" || title == "" || yearRaw == "" {
		return Publication{}, fmt.Sprintf("skipping bibliography entry %q: missing author, title, or year", key)
	}

	year, err := strconv.Atoi(strings.TrimSpace(yearRaw))
	if err != nil {
		return Publication{}, fmt.Sprintf("skipping bibliography entry %q: year %q is not a number", key, yearRaw)
	}

	venue := fieldValue(entry, "booktitle")
	if venue == "" {
		venue = fieldValue(entry, "journal")
	}
	if venue == "" {
		return Publication{}, fmt.Sprintf("skipping bibliography entry %q: neither booktitle nor journal present", key)
	}

	return Publication{
		Key:      key,
		Authors:  splitAuthors(author),
		Title:    title,
		Venue:    venue,
		Year:     year,
		Month:    fieldValue(entry, "month"),
		URL:      fieldValue(entry, "url"),
		Code:     fieldValue(entry, "code"),
		Abstract: fieldValue(entry, "abstract"),
		Selected: strings.EqualFold(fieldValue(entry, "selected"), "true"),
	}, ""
}

func fieldValue(entry *bibtex.BibEntry, name string) string {
	v, ok := entry.Fields[name]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// splitAuthors splits the BibTeX "and"-joined author convention into an
// ordered list of display names.
func splitAuthors(raw string) []string {
	parts := strings.Split(raw, " and ")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

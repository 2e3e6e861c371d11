package bibliography

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func writeBib(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publications.bib")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsEmptyRegistryAndOneWarning(t *testing.T) {
	registry, warnings, err := Load(filepath.Join(t.TempDir(), "nope.bib"))
	require.NoError(t, err)
	require.Equal(t, 0, registry.Len())
	require.Len(t, warnings, 1)
}

func TestLoad_ParsesCompleteEntry(t *testing.T) {
	path := writeBib(t, `
@inproceedings{smith2020deep,
  author    = {Smith, Jane and Doe, John},
  title     = {Deep Widgets},
  booktitle = {Proceedings of Widgets},
  year      = {2020},
  month     = {June},
  url       = {https://example.org/paper.pdf},
  code      = {https://example.org/code},
  selected  = {true},
}
`)

	registry, warnings, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, 1, registry.Len())

	pub, ok := registry.Lookup("smith2020deep")
	require.True(t, ok)
	require.Equal(t, []string{"Smith, Jane", "Doe, John"}, pub.Authors)
	require.Equal(t, "Deep Widgets", pub.Title)
	require.Equal(t, "Proceedings of Widgets", pub.Venue)
	require.Equal(t, 2020, pub.Year)
	require.Equal(t, "https://example.org/paper.pdf", pub.URL)
	require.Equal(t, "https://example.org/code", pub.Code)
	require.True(t, pub.Selected)
}

func TestLoad_VenuePrefersBooktitleOverJournal(t *testing.T) {
	path := writeBib(t, `
@article{a2021,
  author    = {A, B},
  title     = {T},
  booktitle = {Conf},
  journal   = {Journal},
  year      = {2021},
}
`)

	registry, _, err := Load(path)
	require.NoError(t, err)
	pub, _ := registry.Lookup("a2021")
	require.Equal(t, "Conf", pub.Venue)
}

func TestLoad_MissingVenueSkipsEntryWithWarningNamingKey(t *testing.T) {
	path := writeBib(t, `
@misc{lonely2019,
  author = {A, B},
  title  = {No Venue},
  year   = {2019},
}
`)

	registry, warnings, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 0, registry.Len())
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "lonely2019")
}

func TestLoad_MissingRequiredFieldSkipsEntry(t *testing.T) {
	path := writeBib(t, `
@article{nauthor2020,
  title   = {No Author},
  journal = {J},
  year    = {2020},
}
@article{ok2020,
  author  = {A, B},
  title   = {Fine},
  journal = {J},
  year    = {2020},
}
`)

	registry, warnings, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, registry.Len())
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "nauthor2020")
	_, ok := registry.Lookup("ok2020")
	require.True(t, ok)
}

func TestLoad_DuplicateKeyIsFatal(t *testing.T) {
	path := writeBib(t, `
@article{dup2020,
  author  = {A},
  title   = {One},
  journal = {J},
  year    = {2020},
}
@article{dup2020,
  author  = {B},
  title   = {Two},
  journal = {J},
  year    = {2021},
}
`)

	_, _, err := Load(path)
	require.Error(t, err)
	require.True(t, siteerrors.IsCategory(err, siteerrors.CategoryBibliography))
	require.Contains(t, err.Error(), "dup2020")
}

func TestGroupByYear_DescendingYears(t *testing.T) {
	path := writeBib(t, `
@article{old2018,
  author  = {Same, Author},
  title   = {Same Title},
  journal = {J},
  year    = {2018},
}
@article{new2022,
  author  = {Same, Author},
  title   = {Same Title},
  journal = {J},
  year    = {2022},
}
`)

	registry, _, err := Load(path)
	require.NoError(t, err)

	groups := registry.GroupByYear()
	require.Len(t, groups, 2)
	require.Equal(t, 2022, groups[0].Year)
	require.Equal(t, 2018, groups[1].Year)
	require.Greater(t, groups[0].Year, groups[1].Year)
}

func TestRecent_NewestFirstCapped(t *testing.T) {
	path := writeBib(t, `
@article{a2018, author = {A}, title = {Alpha}, journal = {J}, year = {2018}}
@article{b2020, author = {B}, title = {Beta}, journal = {J}, year = {2020}}
@article{c2022, author = {C}, title = {Gamma}, journal = {J}, year = {2022}}
`)

	registry, _, err := Load(path)
	require.NoError(t, err)

	recent := registry.Recent(2)
	require.Len(t, recent, 2)
	require.Equal(t, 2022, recent[0].Year)
	require.Equal(t, 2020, recent[1].Year)
}

func TestFormatCitation(t *testing.T) {
	pub := Publication{
		Authors: []string{"Smith, Jane", "Doe, John"},
		Title:   "Deep Widgets",
		Venue:   "Proceedings of Widgets",
		Year:    2020,
	}
	require.Equal(t,
		`Smith, Jane, Doe, John. "Deep Widgets." <em>Proceedings of Widgets</em>, 2020.`,
		FormatCitation(pub))
}

func TestFormatInline(t *testing.T) {
	require.Equal(t, "Smith (2020)", FormatInline(Publication{
		Authors: []string{"Smith, Jane"}, Year: 2020,
	}))
	require.Equal(t, "Smith et al. (2020)", FormatInline(Publication{
		Authors: []string{"Smith, Jane", "Doe, John"}, Year: 2020,
	}))
	require.Equal(t, "Unknown (2020)", FormatInline(Publication{Year: 2020}))
}

package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "about.md", "---\ntitle: About\n---\nHi, I write things.\n")
	writeFile(t, root, "research.md", "---\ntitle: Research\n---\nMy research.\n")
	writeFile(t, root, "writing/first.md", `---
title: First Post
date: 2024-01-10
tags: [go, tooling]
---
Body one.
`)
	writeFile(t, root, "writing/second.md", `---
title: Second Post
date: 2024-02-20
tags: [go]
---
Body two.
`)
	writeFile(t, root, "writing/hidden.md", `---
title: Hidden Draft
date: 2024-03-01
draft: true
---
Not yet.
`)
	writeFile(t, root, "notes/scratch.md", `---
title: Scratch Note
date: 2023-11-05
tags: [tooling]
---
A note.
`)
	writeFile(t, root, "projects/tool.md", `---
title: Tool
description: A build tool.
order: 2
---
`)
	writeFile(t, root, "projects/lib.md", `---
title: Lib
description: A library.
order: 1
---
`)
	return root
}

func TestBuildIndex_RegistryKeyedByTitleSlug(t *testing.T) {
	idx, err := BuildIndex(fixtureTree(t), false)
	require.NoError(t, err)

	ref, ok := idx.Registry().Resolve("first-post")
	require.True(t, ok)
	require.Equal(t, "/writing/first-post/", ref.URL)
	require.Equal(t, "First Post", ref.Title)
	require.Equal(t, SectionWriting, ref.Section)

	ref, ok = idx.Registry().Resolve("about")
	require.True(t, ok)
	require.Equal(t, "/", ref.URL)

	_, ok = idx.Registry().Resolve("first") // filename stem, not title slug
	require.False(t, ok)
}

func TestBuildIndex_DraftsExcludedByDefault(t *testing.T) {
	idx, err := BuildIndex(fixtureTree(t), false)
	require.NoError(t, err)
	require.Len(t, idx.Writing, 2)
	_, ok := idx.Registry().Resolve("hidden-draft")
	require.False(t, ok)

	withDrafts, err := BuildIndex(fixtureTree(t), true)
	require.NoError(t, err)
	require.Len(t, withDrafts.Writing, 3)
	_, ok = withDrafts.Registry().Resolve("hidden-draft")
	require.True(t, ok)
}

func TestBuildIndex_WritingSortedDateDescending(t *testing.T) {
	idx, err := BuildIndex(fixtureTree(t), false)
	require.NoError(t, err)
	require.Equal(t, "second-post", idx.Writing[0].Slug)
	require.Equal(t, "first-post", idx.Writing[1].Slug)
}

func TestBuildIndex_DateTieBrokenBySlug(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "writing/b.md", "---\ntitle: Bravo\ndate: 2024-01-01\n---\nx\n")
	writeFile(t, root, "writing/a.md", "---\ntitle: Alpha\ndate: 2024-01-01\n---\nx\n")

	idx, err := BuildIndex(root, false)
	require.NoError(t, err)
	require.Equal(t, "alpha", idx.Writing[0].Slug)
	require.Equal(t, "bravo", idx.Writing[1].Slug)
}

func TestBuildIndex_ProjectsSortedByOrderThenSlug(t *testing.T) {
	idx, err := BuildIndex(fixtureTree(t), false)
	require.NoError(t, err)
	require.Len(t, idx.Projects, 2)
	require.Equal(t, "Lib", idx.Projects[0].Title)
	require.Equal(t, "Tool", idx.Projects[1].Title)
}

func TestBuildIndex_TagAggregationBySlug(t *testing.T) {
	idx, err := BuildIndex(fixtureTree(t), false)
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"go", "tooling"}, idx.TagSlugs())
	require.Len(t, idx.Tags["go"], 2)
	require.Len(t, idx.Tags["tooling"], 2) // one post, one note: section independent

	// Newest first within a tag.
	require.Equal(t, "second-post", idx.Tags["go"][0].Slug)
}

func TestBuildIndex_MissingTitleIsFatalNamingFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "writing/untitled.md", "---\ndate: 2024-01-01\n---\nx\n")

	_, err := BuildIndex(root, false)
	require.Error(t, err)
	require.True(t, siteerrors.IsCategory(err, siteerrors.CategoryContent))
	require.Contains(t, err.Error(), "untitled.md")
	require.Contains(t, err.Error(), "title")
}

func TestBuildIndex_MissingDateOnPostIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "writing/nodate.md", "---\ntitle: No Date\n---\nx\n")

	_, err := BuildIndex(root, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "date")
}

func TestBuildIndex_StaticPageNeedsNoDate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "about.md", "---\ntitle: About\n---\nx\n")

	idx, err := BuildIndex(root, false)
	require.NoError(t, err)
	require.Len(t, idx.Statics, 1)
}

func TestBuildIndex_MissingProjectDescriptionIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "projects/bare.md", "---\ntitle: Bare\n---\nx\n")

	_, err := BuildIndex(root, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "description")
	require.Contains(t, err.Error(), "bare.md")
}

func TestBuildIndex_DuplicateTitleSlugIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "writing/one.md", "---\ntitle: Same Title\ndate: 2024-01-01\n---\nx\n")
	writeFile(t, root, "writing/two.md", "---\ntitle: Same Title\ndate: 2024-02-01\n---\nx\n")

	_, err := BuildIndex(root, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "same-title")
}

func TestBuildIndex_EmptyTreeIsValid(t *testing.T) {
	idx, err := BuildIndex(t.TempDir(), false)
	require.NoError(t, err)
	require.Empty(t, idx.All)
	require.Equal(t, 0, idx.Registry().Len())
}

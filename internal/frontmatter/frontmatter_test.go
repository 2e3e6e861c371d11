package frontmatter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hi\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Hi\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\ntitle: Hi\n# Title\n")

	_, _, had, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: Hi\r\n---\r\n# Title\r\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Hi\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestExtract_TypedFields(t *testing.T) {
	input := []byte(`---
title: My Post
subtitle: A subtitle
date: 2024-03-01
tags:
  - go
  - static sites
draft: true
toc: true
---
Body text.
`)

	meta, body, err := Extract(input)
	require.NoError(t, err)
	require.Equal(t, "My Post", meta.Title)
	require.Equal(t, "A subtitle", meta.Subtitle)
	require.True(t, meta.HasDate)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), meta.Date)
	require.Equal(t, []string{"go", "static sites"}, meta.Tags)
	require.True(t, meta.Draft)
	require.True(t, meta.Toc)
	require.Equal(t, "Body text.\n", string(body))
}

func TestExtract_DateAsQuotedString(t *testing.T) {
	input := []byte("---\ntitle: T\ndate: \"2023-12-31\"\n---\nx\n")

	meta, _, err := Extract(input)
	require.NoError(t, err)
	require.True(t, meta.HasDate)
	require.Equal(t, 2023, meta.Date.Year())
}

func TestExtract_InvalidYAML_IsFrontmatterError(t *testing.T) {
	input := []byte("---\ntitle: [unclosed\n---\nx\n")

	_, _, err := Extract(input)
	require.Error(t, err)
	require.True(t, siteerrors.IsCategory(err, siteerrors.CategoryFrontmatter))
}

func TestExtract_WrongShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"non-bool draft", "---\ntitle: T\ndraft: maybe\n---\nx\n"},
		{"non-bool toc", "---\ntitle: T\ntoc: 3\n---\nx\n"},
		{"non-date date", "---\ntitle: T\ndate: soon\n---\nx\n"},
		{"non-list tags", "---\ntitle: T\ntags: golang\n---\nx\n"},
		{"non-list links", "---\ntitle: T\nlinks: nope\n---\nx\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Extract([]byte(tc.input))
			require.Error(t, err)
			require.True(t, siteerrors.IsCategory(err, siteerrors.CategoryFrontmatter))
		})
	}
}

func TestExtract_ProjectLinks(t *testing.T) {
	input := []byte(`---
title: Tool
description: A tool.
order: 2
links:
  - label: Source
    url: https://example.org/src
  - label: Docs
    url: https://example.org/docs
---
`)

	meta, _, err := Extract(input)
	require.NoError(t, err)
	require.Equal(t, 2, meta.Order)
	require.Equal(t, []Link{
		{Label: "Source", URL: "https://example.org/src"},
		{Label: "Docs", URL: "https://example.org/docs"},
	}, meta.Links)
}

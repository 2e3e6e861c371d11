package config

import (
	"os"
	"path/filepath"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

const scaffoldConfig = `site:
  title: My Site
  description: Notes and writing.
  base_url: https://example.com
  author: Your Name

nav:
  - label: About
    url: /
  - label: Writing
    url: /writing/
  - label: Notes
    url: /notes/
  - label: Research
    url: /research/

math: true
`

const scaffoldAbout = `---
title: About
---
Hello. This site was scaffolded by sitegen.
`

const scaffoldFirstPost = `---
title: Hello World
date: 2024-01-01
tags: [meta]
---
A first post. Link to other pages with [[About]].
`

// Scaffold writes a starter config.yaml and content skeleton under dir.
// Existing files are never overwritten unless force is set.
func Scaffold(dir string, force bool) error {
	files := []struct {
		rel     string
		content string
	}{
		{"config.yaml", scaffoldConfig},
		{filepath.Join("content", "about.md"), scaffoldAbout},
		{filepath.Join("content", "writing", "first-post.md"), scaffoldFirstPost},
	}

	if !force {
		for _, f := range files {
			if _, err := os.Stat(filepath.Join(dir, f.rel)); err == nil {
				return siteerrors.New(siteerrors.CategoryConfig, siteerrors.SeverityFatal,
					f.rel+" already exists (use --force to overwrite)")
			}
		}
	}

	for _, f := range files {
		path := filepath.Join(dir, f.rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return siteerrors.FileSystemError("mkdir "+filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return siteerrors.FileSystemError("write "+path, err)
		}
	}
	return nil
}

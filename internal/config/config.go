// Package config loads and validates the site configuration (config.yaml).
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// DefaultPath is where Load looks when no path is given. The SITEGEN_CONFIG
// environment variable overrides it.
const DefaultPath = "config.yaml"

// Config is the complete site configuration.
type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Nav   []NavItem   `yaml:"nav,omitempty"`
	Style StyleConfig `yaml:"style,omitempty"`
	Math  *bool       `yaml:"math,omitempty"`
}

// SiteConfig identifies the site. All four fields are required.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
	Author      string `yaml:"author"`
}

// NavItem is one entry in the site navigation bar.
type NavItem struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// StyleConfig carries the theme knobs templates expose as CSS variables.
type StyleConfig struct {
	FontBody    string `yaml:"font_body,omitempty"`
	FontHeading string `yaml:"font_heading,omitempty"`
	FontMono    string `yaml:"font_mono,omitempty"`
	Accent      string `yaml:"accent,omitempty"`
}

var styleDefaults = StyleConfig{
	FontBody:    "Georgia, serif",
	FontHeading: "Helvetica, Arial, sans-serif",
	FontMono:    "ui-monospace, monospace",
	Accent:      "#0b5394",
}

// MathEnabled reports whether math passthrough is on. It defaults to true
// when the config does not mention it.
func (c *Config) MathEnabled() bool {
	if c.Math == nil {
		return true
	}
	return *c.Math
}

// Path returns the config file location: explicit argument, then
// SITEGEN_CONFIG, then DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("SITEGEN_CONFIG"); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads, expands, and validates the configuration file. Environment
// variable references in the YAML are expanded before parsing so secrets can
// stay out of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, siteerrors.ConfigNotFound(path)
		}
		return nil, siteerrors.FileSystemError("read "+path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryConfig, siteerrors.SeverityFatal, "invalid YAML in "+path)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"site.title", c.Site.Title},
		{"site.description", c.Site.Description},
		{"site.base_url", c.Site.BaseURL},
		{"site.author", c.Site.Author},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return siteerrors.ConfigRequired(field.name)
		}
	}

	for i, item := range c.Nav {
		if item.Label == "" || item.URL == "" {
			return siteerrors.New(siteerrors.CategoryConfig, siteerrors.SeverityFatal,
				fmt.Sprintf("nav entry %d needs both label and url", i))
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	if c.Style.FontBody == "" {
		c.Style.FontBody = styleDefaults.FontBody
	}
	if c.Style.FontHeading == "" {
		c.Style.FontHeading = styleDefaults.FontHeading
	}
	if c.Style.FontMono == "" {
		c.Style.FontMono = styleDefaults.FontMono
	}
	if c.Style.Accent == "" {
		c.Style.Accent = styleDefaults.Accent
	}
}

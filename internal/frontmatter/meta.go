package frontmatter

import (
	"fmt"
	"time"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Link is a labeled URL attached to a project card.
type Link struct {
	Label string
	URL   string
}

// Meta holds the typed frontmatter fields any document may carry. Which
// fields are required depends on the section and is enforced by the caller.
type Meta struct {
	Title       string
	Subtitle    string
	Date        time.Time
	HasDate     bool
	Tags        []string
	Draft       bool
	Toc         bool
	Description string
	Order       int
	Image       string
	Links       []Link
}

// CoerceMeta converts a parsed frontmatter map into a Meta, enforcing the
// shape of type-constrained fields: date must be a calendar date, draft/toc
// must be booleans, tags/links must be lists. Violations produce a
// frontmatter error naming the field.
func CoerceMeta(fields map[string]any) (Meta, error) {
	var m Meta
	var err error

	if m.Title, err = stringField(fields, "title"); err != nil {
		return Meta{}, err
	}
	if m.Subtitle, err = stringField(fields, "subtitle"); err != nil {
		return Meta{}, err
	}
	if m.Description, err = stringField(fields, "description"); err != nil {
		return Meta{}, err
	}
	if m.Image, err = stringField(fields, "image"); err != nil {
		return Meta{}, err
	}

	if raw, ok := fields["date"]; ok {
		m.Date, err = coerceDate(raw)
		if err != nil {
			return Meta{}, err
		}
		m.HasDate = true
	}

	if m.Draft, err = boolField(fields, "draft"); err != nil {
		return Meta{}, err
	}
	if m.Toc, err = boolField(fields, "toc"); err != nil {
		return Meta{}, err
	}

	if m.Order, err = intField(fields, "order"); err != nil {
		return Meta{}, err
	}

	if raw, ok := fields["tags"]; ok {
		m.Tags, err = coerceStringList(raw)
		if err != nil {
			return Meta{}, siteerrors.FrontmatterError("tags", "field \"tags\" must be a list of strings")
		}
	}

	if raw, ok := fields["links"]; ok {
		m.Links, err = coerceLinks(raw)
		if err != nil {
			return Meta{}, err
		}
	}

	return m, nil
}

func stringField(fields map[string]any, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || raw == nil {
		return "", nil
	}
	switch v := raw.(type) {
	case string:
		return v, nil
	case int, int64, float64, bool:
		// YAML scalars that read naturally as text are stringified.
		return fmt.Sprintf("%v", v), nil
	default:
		return "", siteerrors.FrontmatterError(name, fmt.Sprintf("field %q must be a string", name))
	}
}

func boolField(fields map[string]any, name string) (bool, error) {
	raw, ok := fields[name]
	if !ok || raw == nil {
		return false, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, siteerrors.FrontmatterError(name, fmt.Sprintf("field %q must be a boolean", name))
	}
	return v, nil
}

func intField(fields map[string]any, name string) (int, error) {
	raw, ok := fields[name]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, siteerrors.FrontmatterError(name, fmt.Sprintf("field %q must be an integer", name))
	}
}

// coerceDate accepts a YAML timestamp or a YYYY-MM-DD string. The time
// component, if any, is truncated: publication dates are calendar dates.
func coerceDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.Truncate(24 * time.Hour), nil
	case string:
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, siteerrors.FrontmatterError("date", "field \"date\" must be a date in YYYY-MM-DD format")
		}
		return d, nil
	default:
		return time.Time{}, siteerrors.FrontmatterError("date", "field \"date\" must be a date in YYYY-MM-DD format")
	}
}

func coerceStringList(raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("not a list")
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			s = fmt.Sprintf("%v", item)
		}
		out = append(out, s)
	}
	return out, nil
}

func coerceLinks(raw any) ([]Link, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, siteerrors.FrontmatterError("links", "field \"links\" must be a list of {label, url} pairs")
	}
	out := make([]Link, 0, len(list))
	for _, item := range list {
		pair, ok := item.(map[string]any)
		if !ok {
			return nil, siteerrors.FrontmatterError("links", "field \"links\" must be a list of {label, url} pairs")
		}
		label, _ := pair["label"].(string)
		url, _ := pair["url"].(string)
		if label == "" || url == "" {
			return nil, siteerrors.FrontmatterError("links", "each link needs both \"label\" and \"url\"")
		}
		out = append(out, Link{Label: label, URL: url})
	}
	return out, nil
}

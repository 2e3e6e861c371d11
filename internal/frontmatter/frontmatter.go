// Package frontmatter splits markdown documents into YAML metadata and body,
// and coerces the metadata into a typed Meta value.
//
// Splitting and coercion are deliberately separate: required-field checking
// is section-specific and belongs to the content index builder, not here.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a frontmatter delimiter, had is false
// and body is the full input. CRLF documents are handled.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		// Empty frontmatter block.
		return []byte{}, rest[len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without trailing newline still counts.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(tail)+len(nl)], nil, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryFrontmatter, siteerrors.SeverityFatal, "invalid frontmatter YAML")
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Extract is the combined operation: split a raw document and coerce its
// metadata block. Documents without a metadata block yield a zero Meta.
func Extract(content []byte) (Meta, []byte, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Meta{}, nil, siteerrors.Wrap(err, siteerrors.CategoryFrontmatter, siteerrors.SeverityFatal, "malformed frontmatter block")
	}
	if !had {
		return Meta{}, body, nil
	}

	fields, err := ParseYAML(raw)
	if err != nil {
		return Meta{}, nil, err
	}

	meta, err := CoerceMeta(fields)
	if err != nil {
		return Meta{}, nil, err
	}
	return meta, body, nil
}

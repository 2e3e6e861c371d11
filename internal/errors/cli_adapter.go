package errors

import (
	"fmt"
)

// CLIErrorAdapter handles error presentation and exit code determination for
// the command line entry point.
type CLIErrorAdapter struct {
	verbose bool
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool) *CLIErrorAdapter {
	return &CLIErrorAdapter{verbose: verbose}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	se, ok := err.(*SiteError)
	if !ok {
		return 1
	}

	switch se.Category {
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryContent, CategoryFrontmatter, CategoryBibliography:
		return 2 // Invalid input
	case CategoryRender, CategoryFileSystem:
		return 11 // Build error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	se, ok := err.(*SiteError)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}

	if a.verbose {
		return se.Error()
	}

	msg := fmt.Sprintf("%s error: %s", se.Category, se.Message)
	if file, ok := se.Context["file"]; ok {
		msg = fmt.Sprintf("%s (%v)", msg, file)
	}
	return msg
}

package errors

// Convenience constructors for common error patterns.

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

// Content index errors

// ContentError reports malformed or missing required page metadata; it names
// the offending file and field in the message so the operator can fix the
// document directly.
func ContentError(file, message string) *SiteError {
	return New(CategoryContent, SeverityFatal, message).
		WithContext("file", file)
}

// FrontmatterError reports a metadata block that could not be parsed or a
// type-constrained field holding a value of the wrong shape.
func FrontmatterError(field, message string) *SiteError {
	return New(CategoryFrontmatter, SeverityFatal, message).
		WithContext("field", field)
}

// Bibliography errors

func BibliographyError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryBibliography, SeverityFatal, "failed to parse bibliography").
		WithContext("path", path)
}

func DuplicateCitationKey(key string) *SiteError {
	return New(CategoryBibliography, SeverityFatal, "duplicate citation key: "+key).
		WithContext("key", key)
}

// Output errors

func RenderFailed(template string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "template rendering failed").
		WithContext("template", template)
}

func FileSystemError(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}

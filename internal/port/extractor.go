package port

// Extractor yields plain text for one document format. Implementations
// are dispatched by file extension.
type Extractor interface {
	// Extract reads the file at path and returns its plain-text content.
	Extract(path string) (string, error)

	// Extensions lists the lowercase file extensions (with leading dot)
	// this extractor handles.
	Extensions() []string
}

// Package extractor turns document files into plain text. Extraction is
// format-specific and orthogonal to retrieval: one implementation per
// format, dispatched by file extension.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"docqa/internal/port"
)

// Registry dispatches extraction by lowercase file extension.
type Registry struct {
	byExt map[string]port.Extractor
}

// NewRegistry builds a registry from the given extractors. Later
// extractors win on extension collisions.
func NewRegistry(extractors ...port.Extractor) *Registry {
	byExt := make(map[string]port.Extractor)
	for _, ex := range extractors {
		for _, ext := range ex.Extensions() {
			byExt[strings.ToLower(ext)] = ex
		}
	}
	return &Registry{byExt: byExt}
}

// Default returns a registry covering the supported document formats.
func Default() *Registry {
	return NewRegistry(NewPlainText(), NewPDF())
}

// For returns the extractor handling the file's extension.
func (r *Registry) For(path string) (port.Extractor, bool) {
	ex, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ex, ok
}

// Extract dispatches to the extractor for the file's extension.
func (r *Registry) Extract(path string) (string, error) {
	ex, ok := r.For(path)
	if !ok {
		return "", fmt.Errorf("unsupported document format: %s", filepath.Ext(path))
	}
	return ex.Extract(path)
}

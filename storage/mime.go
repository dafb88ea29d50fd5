package storage

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// extMimeMap refines types that content sniffing reports as plain text or XML.
var extMimeMap = map[string]string{
	".svg":  "image/svg+xml",
	".json": "application/json",
	".md":   "text/markdown",
}

// DetectContentType detects the MIME type from file content, refined by extension
// when content detection alone cannot tell formats apart.
func DetectContentType(content []byte, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType := mimetype.Detect(content).String()

	if strings.HasPrefix(contentType, "text/plain") || strings.HasPrefix(contentType, "text/xml") {
		if refined, ok := extMimeMap[ext]; ok {
			return refined
		}
	}
	return contentType
}

// IsImage reports whether the content sniffs as an image
func IsImage(content []byte, filename string) bool {
	return strings.HasPrefix(DetectContentType(content, filename), "image/")
}

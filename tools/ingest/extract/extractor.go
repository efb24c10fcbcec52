// Package extract provides text extraction from the supported upload formats.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported reports whether files with the given extension can be ingested.
// ext includes the leading dot.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".csv", ".txt", ".docx":
		return true
	}
	return false
}

// Extract reads the file at path and returns its text content.
// Returns an error if the file cannot be read or its format cannot be parsed.
func Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return extractPDF(content)
	case ".docx":
		return extractDOCX(path)
	case ".csv":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return extractCSV(content)
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return extractPlain(content)
	default:
		return "", fmt.Errorf("unsupported extension %q", ext)
	}
}

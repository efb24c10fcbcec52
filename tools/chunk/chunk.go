// Package chunk splits document text into bounded, overlapping slices, the
// atomic unit of embedding and retrieval.
package chunk

import "strings"

const (
	DefaultSize    = 200
	DefaultOverlap = 20
)

// Split cuts text into chunks of at most size runes where consecutive chunks
// share exactly overlap runes, except at the document end. Boundaries land on
// rune boundaries, so multibyte text stays valid UTF-8. Splitting the same
// text twice yields identical sequences. An empty (or all-whitespace) input
// yields no chunks.
func Split(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultOverlap
		if overlap >= size {
			overlap = size / 2
		}
	}
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	var chunks []string
	for start := 0; start < len(runes); {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start = end - overlap
	}
	return chunks
}

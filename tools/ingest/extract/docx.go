package extract

import (
	"fmt"

	"github.com/lu4p/cat"
)

func extractDOCX(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}
	return text, nil
}

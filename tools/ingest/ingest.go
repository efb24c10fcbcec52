// Package ingest combines user-uploaded documents into a single request-scoped
// text artifact used as grounding reference by the downstream tasks.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kaiwa-dev/kaiwa/tools/ingest/extract"
)

// ErrNoDocuments indicates that no loadable document was found.
var ErrNoDocuments = errors.New("no documents loaded")

// Combined is the merged, whitespace-normalized text of all ingested files.
// The artifact is scoped to one request: the file name is unique and the
// caller removes it through Cleanup once the exchange completes.
type Combined struct {
	Path  string
	Text  string
	Files int
}

type Ingestor struct {
	uploadsDir string
	logger     *log.Logger
}

func NewIngestor(uploadsDir string, logger *log.Logger) *Ingestor {
	if logger == nil {
		logger = log.New(log.Writer(), "[INGEST] ", log.LstdFlags)
	}
	return &Ingestor{uploadsDir: uploadsDir, logger: logger}
}

// HasUploads reports whether the uploads directory contains any file.
func (in *Ingestor) HasUploads() bool {
	found := false
	_ = filepath.WalkDir(in.uploadsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// Ingest walks the uploads directory, extracts text from every supported file
// and writes the combined result to a uniquely named file under the OS temp
// directory. Per-file extraction failures are logged and skipped; ingestion
// succeeds as long as at least one file loads.
func (in *Ingestor) Ingest() (*Combined, error) {
	var texts []string
	files := 0
	err := filepath.WalkDir(in.uploadsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !extract.Supported(filepath.Ext(path)) {
			return nil
		}
		text, err := extract.Extract(path)
		if err != nil {
			in.logger.Printf("skipping %s: %v", path, err)
			return nil
		}
		// Collapse whitespace runs so page breaks and newlines from the
		// loaders do not leak into chunk boundaries.
		normalized := strings.Join(strings.Fields(text), " ")
		if normalized == "" {
			return nil
		}
		texts = append(texts, normalized)
		files++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk uploads: %w", err)
	}
	if len(texts) == 0 {
		return nil, ErrNoDocuments
	}

	combined := strings.Join(texts, " ")
	path := filepath.Join(os.TempDir(), fmt.Sprintf("kaiwa-combined-%s.txt", uuid.NewString()))
	if err := os.WriteFile(path, []byte(combined), 0o600); err != nil {
		return nil, fmt.Errorf("write combined document: %w", err)
	}
	in.logger.Printf("combined %d files into %s (%d bytes)", files, path, len(combined))
	return &Combined{Path: path, Text: combined, Files: files}, nil
}

// Cleanup removes the combined artifact and best-effort deletes all files in
// the uploads directory. Deletion errors are logged, never surfaced.
func (in *Ingestor) Cleanup(c *Combined) {
	if c != nil && c.Path != "" {
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			in.logger.Printf("error deleting combined document: %v", err)
		}
	}
	entries, err := os.ReadDir(in.uploadsDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(in.uploadsDir, e.Name())); err != nil {
			in.logger.Printf("error deleting files: %v", err)
		}
	}
	in.logger.Printf("files cleaned up")
}

package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	for _, ext := range []string{".pdf", ".csv", ".txt", ".docx", ".PDF", ".Txt"} {
		if !Supported(ext) {
			t.Errorf("Supported(%q) = false", ext)
		}
	}
	for _, ext := range []string{".png", ".exe", ".md", ""} {
		if Supported(ext) {
			t.Errorf("Supported(%q) = true", ext)
		}
	}
}

func TestExtractCSV_FlattensWithHeaders(t *testing.T) {
	got, err := extractCSV([]byte("name,price\nりんご,100\nみかん,80\n"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, "name: りんご, price: 100") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "name: みかん, price: 80") {
		t.Errorf("got %q", got)
	}
}

func TestExtractCSV_HeaderOnly(t *testing.T) {
	got, err := extractCSV([]byte("name,price\n"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, "name, price") {
		t.Errorf("got %q", got)
	}
}

func TestExtractCSV_RaggedRows(t *testing.T) {
	got, err := extractCSV([]byte("a,b\n1,2,3\n"))
	if err != nil {
		t.Fatalf("ragged rows should still parse: %v", err)
	}
	if !strings.Contains(got, "a: 1, b: 2, 3") {
		t.Errorf("got %q", got)
	}
}

func TestExtractPlain_ValidUTF8(t *testing.T) {
	got, err := extractPlain([]byte("こんにちは"))
	if err != nil || got != "こんにちは" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestExtractPlain_InvalidBytesReplaced(t *testing.T) {
	got, err := extractPlain([]byte{0x68, 0x69, 0xff, 0xfe})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.HasPrefix(got, "hi") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "�") {
		t.Error("invalid bytes should be replaced")
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	if _, err := Extract("file.png"); err == nil {
		t.Fatal("expected error")
	}
}

func TestExtract_InvalidPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Extract(path); err == nil {
		t.Fatal("expected error for invalid PDF data")
	}
}

func TestExtract_PlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("本文です"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Extract(path)
	if err != nil || got != "本文です" {
		t.Errorf("got %q, %v", got, err)
	}
}

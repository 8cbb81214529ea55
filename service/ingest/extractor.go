package ingestsvc

import (
	"fmt"
	"os"
	"strings"
)

// Extractor turns a stored file into one normalized text blob. One
// variant per file type; new formats register here instead of growing a
// branch chain in the pipeline.
type Extractor interface {
	Extract(path string) (string, error)
}

// Registry maps a lower-cased extension to its extractor.
type Registry map[string]Extractor

// DefaultExtractors covers the supported upload types. Legacy .doc files
// go through the docx reader best-effort; a genuine pre-OOXML binary
// fails extraction and is recorded with a failure placeholder.
func DefaultExtractors() Registry {
	text := textExtractor{}
	word := docxExtractor{}
	return Registry{
		"txt":  text,
		"md":   text,
		"doc":  word,
		"docx": word,
		"pdf":  pdfExtractor{},
	}
}

// textExtractor reads txt/md as UTF-8, substituting the replacement
// character for undecodable bytes instead of failing.
type textExtractor struct{}

func (textExtractor) Extract(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "�")), nil
}

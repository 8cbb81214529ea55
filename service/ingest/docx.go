package ingestsvc

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// docxExtractor concatenates paragraph text in document order, one
// newline per paragraph.
type docxExtractor struct{}

func (docxExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", err
	}

	doc, err := docx.Parse(f, st.Size())
	if err != nil {
		return "", fmt.Errorf("parse docx %s: %w", path, err)
	}

	var sb strings.Builder
	for _, it := range doc.Document.Body.Items {
		if p, ok := it.(*docx.Paragraph); ok {
			sb.WriteString(p.String())
			sb.WriteByte('\n')
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// Package extraction turns uploaded resume files into plain text.
package extraction

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedFormat indicates the file extension is not one we can
// extract text from.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file type")

// Extract dispatches on the file extension and returns the extracted
// plain text. Parser errors come back as extraction failures, never as
// raw library errors or panics.
func Extract(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("pdf extraction failed for %s: %w", filename, err)
		}
		return NormalizeText(text), nil
	case ".docx":
		text, err := extractDocx(data)
		if err != nil {
			return "", fmt.Errorf("docx extraction failed for %s: %w", filename, err)
		}
		return NormalizeText(text), nil
	case ".txt":
		// Lenient decoding: invalid bytes are replaced, never rejected.
		return NormalizeText(strings.ToValidUTF8(string(data), "�")), nil
	default:
		return "", fmt.Errorf("%w: %s (use PDF, DOCX, or TXT)", ErrUnsupportedFormat, filename)
	}
}

// extractPDF concatenates per-page plain text with newline separators.
// The pdf library panics on some malformed files, so recover and report
// the failure as an error.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

var (
	paragraphBreakRe = regexp.MustCompile(`</w:p>`)
	xmlTagRe         = regexp.MustCompile(`<[^>]+>`)
)

// extractDocx reads the document body and flattens it to per-paragraph
// lines, skipping empty paragraphs.
func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()

	// The raw content is WordprocessingML. Paragraph boundaries become
	// newlines, all other markup is dropped.
	content = paragraphBreakRe.ReplaceAllString(content, "\n")
	content = xmlTagRe.ReplaceAllString(content, "")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// NormalizeText normalizes line endings and collapses excessive blank
// lines so downstream prompts stay compact.
func NormalizeText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			line = ""
		} else {
			blanks = 0
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

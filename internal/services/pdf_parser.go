package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"glauniversity/ats-matcher/internal/models"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

type TextExtractor interface {
	ExtractText(doc models.Document) (string, error)
	ExtractFile(path string) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// ExtractText implements TextExtractor. PDF pages are concatenated without a
// separator and text objects within a page are separated by newlines; a
// document without a text layer yields "" and no error.
func (e *textExtractor) ExtractText(doc models.Document) (string, error) {
	switch doc.Extension() {
	case ".pdf":
		return extractPDFText(doc.Reader, doc.Size)
	case ".docx":
		return extractDocxText(doc.Reader, doc.Size)
	case ".txt":
		data, err := io.ReadAll(io.NewSectionReader(doc.Reader, 0, doc.Size))
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, doc.Extension())
	}
}

// ExtractFile implements TextExtractor.
func (e *textExtractor) ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return e.ExtractText(models.Document{Filename: path, Reader: f, Size: info.Size()})
}

func extractPDFText(reader io.ReaderAt, size int64) (string, error) {
	r, err := pdf.NewReader(reader, size)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}

		// GetPlainText opens every text object with a newline. Page edges are
		// trimmed so pages join with no separator.
		textBuilder.WriteString(strings.Trim(text, "\n"))
	}

	return textBuilder.String(), nil
}

func extractDocxText(reader io.ReaderAt, size int64) (string, error) {
	doc, err := docx.ReadDocxFromMemory(reader, size)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")

	return strings.TrimSpace(content), nil
}

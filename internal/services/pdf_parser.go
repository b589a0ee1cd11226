package services

import (
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-analyzer/internal/apperrors"
)

// PDFParserService extracts plain text from uploaded resume documents. Pages
// are read in order; pages without an extractable text layer (pure-image
// pages) contribute nothing and are never treated as an error. Any parse-level
// failure is classified as an extraction error, never propagated raw.
type PDFParserService interface {
	ExtractText(filePath string) (string, error)
	ExtractFromReader(r io.ReaderAt, size int64) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText implements PDFParserService.
func (p *pdfParserService) ExtractText(filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", apperrors.NewExtractionError(apperrors.CodeUnreadableDocument,
			"document file is not accessible", err)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", apperrors.NewExtractionError(apperrors.CodeUnreadableDocument,
			"failed to open PDF", err)
	}
	defer f.Close()

	return extractAllPages(r)
}

// ExtractFromReader implements PDFParserService for in-memory documents.
func (p *pdfParserService) ExtractFromReader(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", apperrors.NewExtractionError(apperrors.CodeUnreadableDocument,
			"failed to read PDF", err)
	}
	return extractAllPages(reader)
}

func extractAllPages(r *pdf.Reader) (string, error) {
	totalPage := r.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A page without a text layer yields nothing, not an error.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	text := joinPageTexts(pages)
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewExtractionError(apperrors.CodeNoTextContent,
			"no text content found in document", nil)
	}

	return text, nil
}

// joinPageTexts concatenates per-page text in page order. Empty pages
// contribute nothing; no separator is inserted between pages.
func joinPageTexts(pages []string) string {
	var builder strings.Builder
	for _, page := range pages {
		builder.WriteString(page)
	}
	return builder.String()
}

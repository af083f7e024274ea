package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"quizgen/internal/apperror"
)

// Extractor turns raw document bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// PDFExtractor reads the embedded text layer of a PDF using github.com/ledongthuc/pdf.
// Scanned, image-only PDFs yield whitespace and are left for the caller to reject.
type PDFExtractor struct{}

// NewPDFExtractor constructs a PDFExtractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

var _ Extractor = (*PDFExtractor)(nil)

// Extract concatenates the plain text of every page in page order, each followed by a newline.
// Whitespace is returned untouched.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed inputs instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apperror.Wrap(apperror.KindExtraction, "Failed to read PDF", fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperror.Wrap(apperror.KindExtraction, "Failed to read PDF", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			sb.WriteString("\n")
			continue
		}

		// Fonts are resolved per page; resource names are not unique across pages.
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", apperror.Wrap(apperror.KindExtraction, fmt.Sprintf("Failed to read PDF page %d", i), err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

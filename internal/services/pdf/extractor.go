// Package pdf provides PDF text extraction for uploaded contracts.
//
// We use the ledongthuc/pdf library for text extraction.
// It's a pure Go implementation, no CGO or external dependencies required.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when a file name or payload is not a PDF.
var ErrNotPDF = errors.New("only PDF files are supported")

// ExtractionResult holds the output from a PDF text extraction.
type ExtractionResult struct {
	Text      string // Extracted text content
	PageCount int    // Number of pages
	WordCount int    // Word count
}

// HasPDFExtension reports whether name ends in ".pdf", ignoring case.
// This is the advisory file-type gate shared by the server and the uploader;
// the content check is ValidatePDF.
func HasPDFExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// Extract reads a PDF held in memory and extracts all text content.
//
// Go Pattern: The pdf library requires io.ReaderAt for random access to the
// PDF structure, so we wrap the upload bytes in a bytes.Reader.
func Extract(data []byte) (result *ExtractionResult, err error) {
	if !ValidatePDF(data) {
		return nil, ErrNotPDF
	}

	// The parser panics on some malformed cross-reference tables.
	// Go Pattern: recover() in a deferred function turns a panic into an error.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount := pdfReader.NumPage()
	if pageCount == 0 {
		return &ExtractionResult{}, nil
	}

	var allText strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only pages have no text layer; keep going.
			continue
		}

		if allText.Len() > 0 {
			allText.WriteString("\n")
		}
		allText.WriteString(strings.TrimSpace(text))
	}

	extractedText := strings.TrimSpace(allText.String())

	return &ExtractionResult{
		Text:      extractedText,
		PageCount: pageCount,
		WordCount: countWords(extractedText),
	}, nil
}

// countWords counts the number of words in a text string.
func countWords(text string) int {
	return len(strings.Fields(text))
}

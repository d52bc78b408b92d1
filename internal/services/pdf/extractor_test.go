package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onePagePDF builds a minimal PDF whose only page shows text in Helvetica.
// Object offsets are measured while writing so the xref table is exact.
func onePagePDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestHasPDFExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"contract.pdf", true},
		{"x.PDF", true},
		{"Mixed.Pdf", true},
		{"x.txt", false},
		{"pdf", false},
		{"archive.pdf.zip", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPDFExtension(tt.name))
		})
	}
}

func TestValidatePDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"pdf header", []byte("%PDF-1.7\n..."), true},
		{"bare header", []byte("%PDF-"), true},
		{"too short", []byte("%PDF"), false},
		{"text file", []byte("hello world"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePDF(tt.data))
		})
	}
}

func TestExtract_OnePage(t *testing.T) {
	data := onePagePDF("Auto renewal applies")
	require.True(t, ValidatePDF(data))

	result, err := Extract(data)
	require.NoError(t, err)

	assert.Equal(t, "Auto renewal applies", result.Text)
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, 3, result.WordCount)
}

func TestExtract_RejectsNonPDF(t *testing.T) {
	_, err := Extract([]byte("definitely not a pdf"))
	assert.True(t, errors.Is(err, ErrNotPDF))
}

func TestExtract_MalformedPDF(t *testing.T) {
	// Valid magic bytes but no body: the parser must fail, not panic.
	result, err := Extract([]byte("%PDF-1.4\n%%EOF"))
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, countWords(""))
	assert.Equal(t, 3, countWords("  auto  renewal\nclause "))
}

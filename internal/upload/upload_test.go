package upload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
)

func TestProcess_PDF(t *testing.T) {
	res, err := Process("../../report.pdf", bytes.NewReader(pdfBytes), 0)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "report.pdf", res.FileName)
	assert.Equal(t, int64(len(pdfBytes)), res.FileSize)
	assert.Equal(t, "application/pdf", res.MIME)
	assert.True(t, strings.HasPrefix(res.ExtractedText, "Content from report.pdf:\n\n"))
	assert.Equal(t, "PDF uploaded and processed successfully", res.Message)
}

func TestProcess_Image(t *testing.T) {
	res, err := Process("", bytes.NewReader(pngBytes), 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MIME)
	assert.Equal(t, "upload.png", res.FileName)
	assert.Contains(t, res.Message, "image")
}

func TestProcess_Rejects(t *testing.T) {
	_, err := Process("notes.pdf", strings.NewReader("just some text pretending"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Process("empty.pdf", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Process("big.pdf", bytes.NewReader(pdfBytes), 10)
	assert.ErrorIs(t, err, ErrTooLarge)
}

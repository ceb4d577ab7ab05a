// Package upload accepts a single PDF or image attachment and produces the
// text that is attached to later sends as context.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyFile       = errors.New("no file provided")
	ErrUnsupportedType = errors.New("only PDF and image files are supported")
	ErrTooLarge        = errors.New("file is too large")
)

const DefaultMaxSize = 10 << 20

// Result mirrors the JSON contract of the upload endpoint.
type Result struct {
	Success       bool   `json:"success"`
	FileName      string `json:"fileName"`
	FileSize      int64  `json:"fileSize"`
	MIME          string `json:"mimeType"`
	ExtractedText string `json:"extractedText"`
	Message       string `json:"message"`
}

var allowed = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
}

// Process sniffs the content type of r and builds the extracted text. The
// declared file name is only used for display.
func Process(name string, r io.Reader, maxSize int64) (Result, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return Result{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Result{}, ErrEmptyFile
	}
	if int64(len(data)) > maxSize {
		return Result{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxSize)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowed...) {
		return Result{}, fmt.Errorf("%w: got %s", ErrUnsupportedType, mt.String())
	}

	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload" + mt.Extension()
	}

	kind := "PDF"
	if strings.HasPrefix(mt.String(), "image/") {
		kind = "image"
	}

	return Result{
		Success:       true,
		FileName:      name,
		FileSize:      int64(len(data)),
		MIME:          mt.String(),
		ExtractedText: extract(name, kind, data),
		Message:       fmt.Sprintf("%s uploaded and processed successfully", kind),
	}, nil
}

// extract produces a stand-in for real text extraction.
// TODO: replace with a PDF text extractor once one is vendored.
func extract(name, kind string, data []byte) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Content from %s:\n\n", name)
	fmt.Fprintf(&b, "This is a simulated text extraction from the %s (%d bytes).", kind, len(data))
	return b.String()
}

package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethanbaker/wikiai/internal/upload"
)

// Format is a document format the rendering service produces
type Format string

const (
	PDF  Format = "pdf"
	DOCX Format = "docx"
	PPTX Format = "pptx"
	XLSX Format = "xlsx"
)

// Formats lists the supported formats
var Formats = []Format{PDF, DOCX, PPTX, XLSX}

// ErrUnsupportedFormat is matched by every format rejection
var ErrUnsupportedFormat = errors.New("unsupported export format")

var extensions = map[Format]string{
	PDF:  ".pdf",
	DOCX: ".docx",
	PPTX: ".pptx",
	XLSX: ".xlsx",
}

// Extension is the file extension, dot included
func (f Format) Extension() string {
	return extensions[f]
}

// Valid reports whether f is supported
func (f Format) Valid() bool {
	_, ok := extensions[f]
	return ok
}

// ParseFormat accepts a supported format name in any case. The error matches
// both ErrUnsupportedFormat and *upload.ValidationError
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	if !f.Valid() {
		return "", unsupported(raw)
	}
	return f, nil
}

func unsupported(raw string) error {
	return fmt.Errorf("%w: %w", ErrUnsupportedFormat, &upload.ValidationError{
		Field:  "format",
		Reason: fmt.Sprintf("%q is not one of %v", raw, Formats),
	})
}

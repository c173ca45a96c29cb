package upload

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMaxBytes is the largest file accepted for analysis (10 MiB)
const DefaultMaxBytes int64 = 10 << 20

// DefaultExtensions lists the file types accepted for analysis
var DefaultExtensions = []string{"pdf", "docx", "doc", "txt", "xlsx", "xls", "csv", "pptx"}

// ValidationError rejects a file before any network call is made
type ValidationError struct {
	Field  string // "size" or "extension"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid file %s: %s", e.Field, e.Reason)
}

// Policy describes which files may be uploaded
type Policy struct {
	MaxBytes   int64
	Extensions []string // lower case, without the dot
}

// DefaultPolicy is the 10 MiB / document-extension policy
func DefaultPolicy() Policy {
	return Policy{
		MaxBytes:   DefaultMaxBytes,
		Extensions: slices.Clone(DefaultExtensions),
	}
}

// Extension returns the lower case extension of name without the dot
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Validate checks a file's name and size against the policy
func (p Policy) Validate(name string, size int64) error {
	if size < 0 {
		return &ValidationError{Field: "size", Reason: "unknown file size"}
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return &ValidationError{
			Field:  "size",
			Reason: fmt.Sprintf("%s is larger than the %d MiB limit", name, p.MaxBytes>>20),
		}
	}

	ext := Extension(name)
	if ext == "" || !slices.Contains(p.Extensions, ext) {
		return &ValidationError{
			Field:  "extension",
			Reason: fmt.Sprintf("%q is not an accepted type (accepted: %s)", filepath.Base(name), strings.Join(p.Extensions, ", ")),
		}
	}

	return nil
}

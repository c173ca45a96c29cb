package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Deliverer hands a finished document to the user. It is only called with the
// complete byte stream and returns where the document ended up
type Deliverer interface {
	Deliver(ctx context.Context, filename string, data []byte) (string, error)
}

// DirDeliverer saves documents into a download directory
type DirDeliverer struct {
	Dir string
}

// maxCollisions bounds the "-n" suffixes tried when a filename is taken
const maxCollisions = 100

// Deliver writes data to a temporary file and links it under filename, adding a
// "-n" suffix when the name is taken. Readers never see a partial document
func (d *DirDeliverer) Deliver(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 0; i < maxCollisions; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}

		target := filepath.Join(d.Dir, name)
		err := os.Link(tmp.Name(), target)
		if err == nil {
			return target, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to save %s: %w", name, err)
		}
	}

	return "", fmt.Errorf("failed to save %s: too many files with the same name", base)
}

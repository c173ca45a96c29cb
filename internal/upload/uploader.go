package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"go.uber.org/zap"
)

// Extractor turns an uploaded file into text
type Extractor interface {
	UploadFile(ctx context.Context, filename string, content io.Reader) (*sdk.UploadFileResponse, error)
}

// Uploader validates files, extracts their text and stores the result in a Holder
type Uploader struct {
	policy    Policy
	extractor Extractor
	holder    *Holder
	logger    *zap.Logger
}

// NewUploader wires a policy, an extraction service and the holder it fills
func NewUploader(policy Policy, extractor Extractor, holder *Holder, logger *zap.Logger) *Uploader {
	return &Uploader{
		policy:    policy,
		extractor: extractor,
		holder:    holder,
		logger:    logging.OrNop(logger).Named("upload"),
	}
}

// Upload validates and extracts a file from an open reader of the given size.
// Validation failures return a *ValidationError and never reach the extractor.
// On success the context replaces whatever the holder had
func (u *Uploader) Upload(ctx context.Context, name string, size int64, content io.Reader) (Context, error) {
	if err := u.policy.Validate(name, size); err != nil {
		u.logger.Info("file rejected", zap.String("file", name), zap.Int64("size", size), zap.Error(err))
		return Context{}, err
	}

	resp, err := u.extractor.UploadFile(ctx, filepath.Base(name), io.LimitReader(content, size))
	if err != nil {
		u.logger.Error("extraction failed", zap.String("file", name), zap.Error(err))
		return Context{}, fmt.Errorf("failed to extract %s: %w", filepath.Base(name), err)
	}

	display := resp.Filename
	if display == "" {
		display = filepath.Base(name)
	}
	count := resp.TextLength
	if count <= 0 {
		count = utf8.RuneCountInString(resp.ExtractedText)
	}

	c := Context{
		DisplayName:    display,
		ExtractedText:  resp.ExtractedText,
		CharacterCount: count,
	}
	u.holder.Set(c)

	u.logger.Info("file attached", zap.String("file", display), zap.Int("characters", count))
	return c, nil
}

// UploadPath opens and uploads a file from disk
func (u *Uploader) UploadPath(ctx context.Context, path string) (Context, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Context{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Context{}, &ValidationError{Field: "extension", Reason: fmt.Sprintf("%s is a directory", path)}
	}

	// Validate before opening so rejected files are never read
	if err := u.policy.Validate(path, info.Size()); err != nil {
		u.logger.Info("file rejected", zap.String("file", path), zap.Int64("size", info.Size()), zap.Error(err))
		return Context{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Context{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return u.Upload(ctx, path, info.Size(), f)
}

// Holder returns the holder the uploader fills
func (u *Uploader) Holder() *Holder {
	return u.holder
}

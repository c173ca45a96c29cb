package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor records calls and echoes the uploaded content
type fakeExtractor struct {
	calls atomic.Int32
	err   error
}

func (f *fakeExtractor) UploadFile(ctx context.Context, filename string, content io.Reader) (*sdk.UploadFileResponse, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	return &sdk.UploadFileResponse{Filename: filename, ExtractedText: string(b), TextLength: len(b)}, nil
}

func TestPolicyValidate(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name  string
		file  string
		size  int64
		field string
	}{
		{"small pdf passes", "cours.pdf", 1 << 10, ""},
		{"upper case extension passes", "TABLEAU.XLSX", 1 << 10, ""},
		{"exactly the limit passes", "notes.txt", 10 << 20, ""},
		{"11 MiB pdf rejected", "gros.pdf", 11 << 20, "size"},
		{"exe rejected", "virus.exe", 1 << 10, "extension"},
		{"no extension rejected", "README", 1 << 10, "extension"},
		{"negative size rejected", "cours.pdf", -1, "size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Validate(tt.file, tt.size)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestHolderConsumeTwiceReturnsEmpty(t *testing.T) {
	h := NewHolder()
	h.Set(Context{DisplayName: "cours.pdf", ExtractedText: "texte", CharacterCount: 5})

	peeked, ok := h.Get()
	require.True(t, ok)
	assert.Equal(t, "cours.pdf", peeked.DisplayName)

	got, ok := h.Consume()
	require.True(t, ok)
	assert.Equal(t, "texte", got.ExtractedText)

	_, ok = h.Consume()
	assert.False(t, ok)
	_, ok = h.Get()
	assert.False(t, ok)
}

func TestHolderLastSetWins(t *testing.T) {
	h := NewHolder()
	first := h.Set(Context{DisplayName: "a.pdf"})
	second := h.Set(Context{DisplayName: "b.pdf"})
	assert.NotEqual(t, first, second)

	// The stale ticket must not clear the newer context
	assert.False(t, h.ConsumeTicket(first))
	c, ok := h.Get()
	require.True(t, ok)
	assert.Equal(t, "b.pdf", c.DisplayName)

	assert.True(t, h.ConsumeTicket(second))
	_, ok = h.Get()
	assert.False(t, ok)
	assert.False(t, h.ConsumeTicket(second))
}

func TestHolderDiscard(t *testing.T) {
	h := NewHolder()
	assert.False(t, h.Discard())

	tk := h.Set(Context{DisplayName: "a.pdf"})
	assert.True(t, h.Discard())
	assert.False(t, h.ConsumeTicket(tk))
	_, ok := h.Consume()
	assert.False(t, ok)
}

func TestHolderConsumeRacingDiscard(t *testing.T) {
	for i := 0; i < 200; i++ {
		h := NewHolder()
		h.Set(Context{DisplayName: "a.pdf"})

		var consumed, discarded bool
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, consumed = h.Consume()
		}()
		go func() {
			defer wg.Done()
			discarded = h.Discard()
		}()
		wg.Wait()

		// Exactly one of them wins and the holder ends empty
		assert.True(t, consumed != discarded, "consumed=%v discarded=%v", consumed, discarded)
		_, ok := h.Get()
		assert.False(t, ok)
	}
}

func TestUploaderRejectsBeforeExtraction(t *testing.T) {
	extractor := &fakeExtractor{}
	holder := NewHolder()
	uploader := NewUploader(DefaultPolicy(), extractor, holder, nil)

	_, err := uploader.Upload(context.Background(), "gros.pdf", 11<<20, bytes.NewReader(nil))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = uploader.Upload(context.Background(), "virus.exe", 1<<10, bytes.NewReader(make([]byte, 1<<10)))
	require.True(t, errors.As(err, &verr))

	assert.Equal(t, int32(0), extractor.calls.Load())
	_, ok := holder.Get()
	assert.False(t, ok)
}

func TestUploaderStoresContext(t *testing.T) {
	extractor := &fakeExtractor{}
	holder := NewHolder()
	uploader := NewUploader(DefaultPolicy(), extractor, holder, nil)

	content := []byte("La photosynthèse")
	c, err := uploader.Upload(context.Background(), "dir/cours.pdf", int64(len(content)), bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "cours.pdf", c.DisplayName)
	assert.Equal(t, "La photosynthèse", c.ExtractedText)
	assert.Equal(t, len(content), c.CharacterCount)

	held, ok := holder.Get()
	require.True(t, ok)
	assert.Equal(t, c, held)
	assert.Same(t, holder, uploader.Holder())
}

func TestUploaderExtractionFailureKeepsPrevious(t *testing.T) {
	extractor := &fakeExtractor{err: &sdk.TransportError{Method: "POST", Path: "/upload-file", StatusCode: 500}}
	holder := NewHolder()
	holder.Set(Context{DisplayName: "previous.txt"})
	uploader := NewUploader(DefaultPolicy(), extractor, holder, nil)

	_, err := uploader.Upload(context.Background(), "cours.pdf", 4, bytes.NewReader([]byte("abcd")))
	require.Error(t, err)
	assert.True(t, sdk.IsTransportError(err))

	held, ok := holder.Get()
	require.True(t, ok)
	assert.Equal(t, "previous.txt", held.DisplayName)
}

func TestUploadPath(t *testing.T) {
	dir := t.TempDir()
	extractor := &fakeExtractor{}
	uploader := NewUploader(DefaultPolicy(), extractor, NewHolder(), nil)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("bonjour"), 0644))
	c, err := uploader.UploadPath(context.Background(), txt)
	require.NoError(t, err)
	assert.Equal(t, "bonjour", c.ExtractedText)

	exe := filepath.Join(dir, "tool.exe")
	require.NoError(t, os.WriteFile(exe, []byte("MZ"), 0644))
	_, err = uploader.UploadPath(context.Background(), exe)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = uploader.UploadPath(context.Background(), filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	assert.Equal(t, int32(1), extractor.calls.Load())
}

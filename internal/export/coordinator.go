// Package export turns assistant answers into downloadable documents.
package export

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethanbaker/wikiai/internal/notify"
	"github.com/ethanbaker/wikiai/internal/transcript"
	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultTitle is used when an export has no title
const DefaultTitle = "Document"

// ErrNotExportable rejects exports of user messages and non-exportable answers
var ErrNotExportable = errors.New("message cannot be exported")

// Renderer is the document-rendering service
type Renderer interface {
	GenerateDocument(ctx context.Context, req *sdk.GenerateDocumentRequest) ([]byte, error)
}

// Request is one export, validated before any call is made. Only the format
// can reject an export
type Request struct {
	Content string
	Title   string
	Format  Format `validate:"required,oneof=pdf docx pptx xlsx"`
}

// Delivery describes a delivered document
type Delivery struct {
	Filename string // <seed><extension>
	Location string // Where the deliverer put it
	Size     int
}

// Config holds the coordinator's collaborators
type Config struct {
	Renderer  Renderer
	Deliverer Deliverer
	Notifier  notify.Notifier
	Logger    *zap.Logger
	Timeout   time.Duration    // Per export; zero means sdk.DefaultTimeout
	Now       func() time.Time // Filename seed clock
}

// Coordinator runs exports. It keeps no per-export state, so exports may run
// concurrently with each other and with an in-flight exchange
type Coordinator struct {
	renderer  Renderer
	deliverer Deliverer
	notifier  notify.Notifier
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
	validate  *validator.Validate
	exports   atomic.Int64
}

// New creates a coordinator
func New(cfg Config) *Coordinator {
	c := &Coordinator{
		renderer:  cfg.Renderer,
		deliverer: cfg.Deliverer,
		notifier:  cfg.Notifier,
		logger:    logging.OrNop(cfg.Logger).Named("export"),
		timeout:   cfg.Timeout,
		now:       cfg.Now,
		validate:  validator.New(),
	}
	if c.notifier == nil {
		c.notifier = notify.Nop
	}
	if c.timeout <= 0 {
		c.timeout = sdk.DefaultTimeout
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Seed is the filename stem derived from the current time
func (c *Coordinator) Seed() string {
	return fmt.Sprintf("document_%d", c.now().UnixMilli())
}

// ExportMessage exports an assistant message from the transcript. The message
// is taken by value; later transcript changes do not affect the export
func (c *Coordinator) ExportMessage(ctx context.Context, msg transcript.Message, title string, format string) (*Delivery, error) {
	if !msg.IsAssistant() || !msg.Exportable {
		return nil, fmt.Errorf("%w: message %d", ErrNotExportable, msg.ID)
	}
	return c.Export(ctx, msg.Text, title, format)
}

// Export renders text in the given format and delivers it. An unsupported
// format is rejected before the renderer is called. Nothing is delivered
// unless the whole document was received
func (c *Coordinator) Export(ctx context.Context, text string, title string, format string) (*Delivery, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = DefaultTitle
	}

	req := Request{Content: text, Title: title, Format: f}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid export request: %w", err)
	}

	seed := c.Seed()
	filename := seed + f.Extension()
	logger := c.logger.With(zap.String("filename", filename), zap.String("format", string(f)))

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.renderer.GenerateDocument(callCtx, &sdk.GenerateDocumentRequest{
		Content:  req.Content,
		Title:    req.Title,
		Format:   string(req.Format),
		Filename: seed,
	})
	if err != nil {
		return nil, c.fail(logger, fmt.Errorf("failed to generate document: %w", err))
	}

	location, err := c.deliverer.Deliver(ctx, filename, data)
	if err != nil {
		return nil, c.fail(logger, fmt.Errorf("failed to deliver document: %w", err))
	}

	c.exports.Add(1)
	logger.Info("document exported", zap.String("location", location), zap.Int("bytes", len(data)))
	c.notifier.Notify(notify.Notification{
		Kind:  notify.KindSuccess,
		Title: "Export réussi",
		Text:  fmt.Sprintf("Document %s téléchargé", filename),
	})

	return &Delivery{Filename: filename, Location: location, Size: len(data)}, nil
}

// Count is the number of successful exports
func (c *Coordinator) Count() int64 {
	return c.exports.Load()
}

func (c *Coordinator) fail(logger *zap.Logger, err error) error {
	logger.Error("export failed", zap.Error(err))
	c.notifier.Notify(notify.Notification{
		Kind:  notify.KindError,
		Title: "Échec de l'export",
		Text:  "Le document n'a pas pu être généré.",
	})
	return err
}

// Package session wires the client components of one conversation together.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethanbaker/wikiai/internal/catalog"
	"github.com/ethanbaker/wikiai/internal/category"
	"github.com/ethanbaker/wikiai/internal/dispatch"
	"github.com/ethanbaker/wikiai/internal/export"
	"github.com/ethanbaker/wikiai/internal/notify"
	"github.com/ethanbaker/wikiai/internal/transcript"
	"github.com/ethanbaker/wikiai/internal/upload"
	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownMessage is returned when an export targets a missing message
var ErrUnknownMessage = errors.New("no message with this id")

// Option customizes a Session
type Option func(*options)

type options struct {
	logger    *zap.Logger
	notifier  notify.Notifier
	deliverer export.Deliverer
	client    *sdk.Client
	onAppend  transcript.AppendHook
}

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithNotifier sets where user-facing notifications go
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithDeliverer replaces the download directory deliverer
func WithDeliverer(d export.Deliverer) Option {
	return func(o *options) { o.deliverer = d }
}

// WithClient replaces the backend client built from the settings
func WithClient(c *sdk.Client) Option {
	return func(o *options) { o.client = c }
}

// WithAppendHook observes every message appended to the transcript
func WithAppendHook(hook transcript.AppendHook) Option {
	return func(o *options) { o.onAppend = hook }
}

// Session is one user's conversation with the backend. Its state lives in
// memory only
type Session struct {
	id       string
	settings Settings
	logger   *zap.Logger

	mu       sync.RWMutex
	category category.Category
	catalog  catalog.Catalog

	startMu sync.Mutex // Serializes Start; held across the catalog fetch instead of mu
	started bool

	client     *sdk.Client
	transcript *transcript.Store
	holder     *upload.Holder
	uploader   *upload.Uploader
	dispatcher *dispatch.Dispatcher
	exporter   *export.Coordinator
}

// New creates a session with a fresh id
func New(settings Settings, opts ...Option) *Session {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	logger := logging.OrNop(o.logger).With(zap.String("session_id", id))

	notifier := o.notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}

	client := o.client
	if client == nil {
		client = sdk.NewClient(settings.BaseURL, settings.APIKey, sdk.WithTimeout(settings.Timeout))
	}

	deliverer := o.deliverer
	if deliverer == nil {
		deliverer = &export.DirDeliverer{Dir: settings.DownloadDir}
	}

	store := transcript.NewStore()
	store.OnAppend(o.onAppend)
	holder := upload.NewHolder()

	return &Session{
		id:         id,
		settings:   settings,
		logger:     logger.Named("session"),
		category:   category.OrDefault(settings.DefaultCategory),
		client:     client,
		transcript: store,
		holder:     holder,
		uploader:   upload.NewUploader(settings.Upload, client, holder, logger),
		dispatcher: dispatch.New(dispatch.Config{
			SessionID:  id,
			Answerer:   client,
			Transcript: store,
			Holder:     holder,
			Notifier:   notifier,
			Logger:     logger,
			Timeout:    settings.Timeout,
		}),
		exporter: export.New(export.Config{
			Renderer:  client,
			Deliverer: deliverer,
			Notifier:  notifier,
			Logger:    logger,
			Timeout:   settings.Timeout,
		}),
	}
}

// Start loads the subject catalog. Only the first call does any work
func (s *Session) Start(ctx context.Context) catalog.Catalog {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.started {
		return s.Catalog()
	}

	loaded := catalog.Load(ctx, s.client, s.logger)

	s.mu.Lock()
	s.catalog = loaded
	s.mu.Unlock()
	s.started = true

	s.logger.Info("session started", zap.String("backend", s.client.BaseURL()), zap.Int("subject_groups", loaded.Len()))
	return loaded
}

// ID is the session id sent with every chat turn
func (s *Session) ID() string {
	return s.id
}

// Catalog is the catalog loaded by Start
func (s *Session) Catalog() catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Category is the active category
func (s *Session) Category() category.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

// SetCategory changes the active category for the following turns
func (s *Session) SetCategory(raw string) (category.Category, error) {
	c, err := category.Parse(raw)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.category = c
	s.mu.Unlock()
	return c, nil
}

// Transcript is the conversation so far
func (s *Session) Transcript() *transcript.Store {
	return s.transcript
}

// State is the dispatcher phase
func (s *Session) State() dispatch.State {
	return s.dispatcher.State()
}

// OnTransition observes dispatcher state changes
func (s *Session) OnTransition(hook dispatch.TransitionHook) {
	s.dispatcher.OnTransition(hook)
}

// Submit sends one turn in the active category
func (s *Session) Submit(ctx context.Context, text string) dispatch.Result {
	return s.dispatcher.Submit(ctx, text, s.Category())
}

// Upload validates and extracts a file from disk; it becomes the context of
// the next turn
func (s *Session) Upload(ctx context.Context, path string) (upload.Context, error) {
	return s.uploader.UploadPath(ctx, path)
}

// Pending returns the attached file context, if any
func (s *Session) Pending() (upload.Context, bool) {
	return s.holder.Get()
}

// Discard drops the attached file context
func (s *Session) Discard() bool {
	return s.holder.Discard()
}

// Export renders the assistant message with the given id
func (s *Session) Export(ctx context.Context, id uint64, format, title string) (*export.Delivery, error) {
	msg, ok := s.transcript.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMessage, id)
	}
	return s.exporter.ExportMessage(ctx, msg, title, format)
}

// History is the backend's record of this session
func (s *Session) History(ctx context.Context) ([]sdk.ChatResponse, error) {
	return s.client.History(ctx, s.id)
}

// AnalyzeSources rates the reliability of a list of URLs
func (s *Session) AnalyzeSources(ctx context.Context, urls []string) ([]sdk.AnalyzedSource, error) {
	resp, err := s.client.AnalyzeSources(ctx, urls)
	if err != nil {
		return nil, err
	}
	return resp.AnalyzedSources, nil
}

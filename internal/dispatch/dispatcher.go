// Package dispatch runs one user turn at a time against the answering service.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ethanbaker/wikiai/internal/category"
	"github.com/ethanbaker/wikiai/internal/notify"
	"github.com/ethanbaker/wikiai/internal/transcript"
	"github.com/ethanbaker/wikiai/internal/upload"
	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/ethanbaker/wikiai/pkg/trust"
	"go.uber.org/zap"
)

// FallbackText is the assistant message appended when an exchange fails
const FallbackText = "Désolé, une erreur s'est produite. Veuillez réessayer."

// ExportableLength is the answer length (in characters) above which an answer
// is exportable without an explicit flag
const ExportableLength = 100

// AttachmentMarker prefixes the user message of a file-analysis turn
const AttachmentMarker = "📎"

var (
	// ErrBusy rejects a submission while another exchange is in flight
	ErrBusy = errors.New("an exchange is already in flight")

	// ErrEmptyMessage rejects a submission whose trimmed text is empty
	ErrEmptyMessage = errors.New("message is empty")
)

// Answerer is the answering service
type Answerer interface {
	Chat(ctx context.Context, req *sdk.ChatRequest) (*sdk.ChatResponse, error)
	AnalyzeFile(ctx context.Context, req *sdk.AnalyzeFileRequest) (*sdk.ChatResponse, error)
}

// Config holds the dispatcher's collaborators
type Config struct {
	SessionID  string
	Answerer   Answerer
	Transcript *transcript.Store
	Holder     *upload.Holder
	Notifier   notify.Notifier
	Logger     *zap.Logger
	Timeout    time.Duration // Per exchange; zero means sdk.DefaultTimeout
}

// Result describes what one Submit did
type Result struct {
	Rejected  bool  // Nothing happened; Reason says why
	Reason    error // ErrBusy or ErrEmptyMessage when Rejected
	Route     Route
	User      transcript.Message
	Assistant transcript.Message
	Err       error // Failure of the outbound call; the fallback message was appended
}

// Failed reports whether the exchange ran and ended in the fallback message
func (r Result) Failed() bool {
	return !r.Rejected && r.Err != nil
}

// Dispatcher is the turn state machine of one session. At most one exchange is
// awaiting a response at any time; other submissions are rejected, not queued
type Dispatcher struct {
	mu    sync.Mutex
	state State
	hooks []TransitionHook

	sessionID  string
	answerer   Answerer
	transcript *transcript.Store
	holder     *upload.Holder
	notifier   notify.Notifier
	logger     *zap.Logger
	timeout    time.Duration
}

// New creates an idle dispatcher
func New(cfg Config) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = sdk.DefaultTimeout
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Nop
	}

	return &Dispatcher{
		state:      Idle,
		sessionID:  cfg.SessionID,
		answerer:   cfg.Answerer,
		transcript: cfg.Transcript,
		holder:     cfg.Holder,
		notifier:   notifier,
		logger:     logging.OrNop(cfg.Logger).Named("dispatch"),
		timeout:    timeout,
	}
}

// OnTransition registers a hook fired on every state change
func (d *Dispatcher) OnTransition(hook TransitionHook) {
	if hook == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, hook)
}

// State is the current phase
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Submit runs one exchange to completion. The user message is appended before
// the outbound call is made; exactly one assistant message (the answer or the
// fallback) follows. Empty text or a submission while another exchange is in
// flight is rejected without touching any state
func (d *Dispatcher) Submit(ctx context.Context, raw string, cat category.Category) Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Result{Rejected: true, Reason: ErrEmptyMessage}
	}

	if !d.begin() {
		d.logger.Debug("submission rejected while busy")
		return Result{Rejected: true, Reason: ErrBusy}
	}
	defer d.release()

	// Route once; a context set or discarded from here on does not change this turn
	pending, ticket, hasUpload := d.holder.Peek()

	res := Result{Route: RouteChat}
	userText := text
	if hasUpload {
		res.Route = RouteFileAnalysis
		userText = fmt.Sprintf("%s %s: %s", AttachmentMarker, pending.DisplayName, text)
	}

	res.User = d.transcript.Append(transcript.Message{
		Text:     userText,
		Origin:   transcript.OriginUser,
		Category: cat,
	})

	d.transition(Composing, AwaitingResponse)

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	resp, err := d.call(callCtx, res.Route, text, cat, pending)
	cancel()
	if err == nil {
		err = checkResponse(resp)
	}

	if err != nil {
		res.Err = err
		res.Assistant = d.transcript.Append(transcript.Message{
			Text:     FallbackText,
			Origin:   transcript.OriginAssistant,
			Category: cat,
		})

		d.logger.Error("exchange failed", zap.String("route", string(res.Route)), zap.Error(err))
		d.notifier.Notify(notify.Notification{
			Kind:  notify.KindError,
			Title: "Erreur",
			Text:  "La réponse n'a pas pu être obtenue. Veuillez réessayer.",
		})

		d.transition(AwaitingResponse, Failed)
		d.transition(Failed, Idle)
		return res
	}

	res.Assistant = d.transcript.Append(transcript.Message{
		Text:       resp.Response,
		Origin:     transcript.OriginAssistant,
		Category:   cat,
		TrustScore: resp.TrustScore,
		Sources:    resp.Sources,
		Exportable: Exportable(resp),
	})

	if res.Route == RouteFileAnalysis {
		d.holder.ConsumeTicket(ticket)
	}

	if badge, ok := trust.BadgeFor(resp.TrustScore); ok {
		d.notifier.Notify(notify.Notification{
			Kind:  notify.KindSuccess,
			Title: "Confiance " + badge.Tier.Label(),
			Text:  "Indice de confiance : " + badge.Label(),
		})
	}

	d.logger.Info("exchange settled",
		zap.String("route", string(res.Route)),
		zap.Uint64("message_id", res.Assistant.ID),
		zap.Bool("exportable", res.Assistant.Exportable),
	)

	d.transition(AwaitingResponse, Settled)
	d.transition(Settled, Idle)
	return res
}

// Exportable is true when the answer flags itself exportable or is longer than
// ExportableLength characters
func Exportable(resp *sdk.ChatResponse) bool {
	return resp.Exportable || utf8.RuneCountInString(resp.Response) > ExportableLength
}

func (d *Dispatcher) call(ctx context.Context, route Route, text string, cat category.Category, pending upload.Context) (*sdk.ChatResponse, error) {
	if route == RouteFileAnalysis {
		return d.answerer.AnalyzeFile(ctx, &sdk.AnalyzeFileRequest{
			Question:      text,
			ExtractedText: pending.ExtractedText,
			Filename:      pending.DisplayName,
			MessageType:   string(cat),
		})
	}

	return d.answerer.Chat(ctx, &sdk.ChatRequest{
		Message:     text,
		MessageType: string(cat),
		SessionID:   d.sessionID,
	})
}

// checkResponse rejects a missing answer or a trust score outside [0,1]
func checkResponse(resp *sdk.ChatResponse) error {
	if resp == nil {
		return fmt.Errorf("%w: no answer", sdk.ErrMalformedResponse)
	}
	if resp.TrustScore != nil && !sdk.ValidTrustScore(*resp.TrustScore) {
		return fmt.Errorf("%w: trust_score %v outside [0,1]", sdk.ErrMalformedResponse, *resp.TrustScore)
	}
	return nil
}

// begin moves Idle to Composing, reporting false when another exchange holds the machine
func (d *Dispatcher) begin() bool {
	d.mu.Lock()
	if d.state != Idle {
		d.mu.Unlock()
		return false
	}
	d.state = Composing
	hooks := d.hooks
	d.mu.Unlock()

	for _, hook := range hooks {
		hook(Idle, Composing)
	}
	return true
}

func (d *Dispatcher) transition(from, to State) {
	d.mu.Lock()
	d.state = to
	hooks := d.hooks
	d.mu.Unlock()

	for _, hook := range hooks {
		hook(from, to)
	}
}

// release returns the machine to Idle if Submit left it anywhere else
func (d *Dispatcher) release() {
	d.mu.Lock()
	from := d.state
	if from == Idle {
		d.mu.Unlock()
		return
	}
	d.state = Idle
	hooks := d.hooks
	d.mu.Unlock()

	d.logger.Warn("exchange aborted", zap.String("state", from.String()))
	for _, hook := range hooks {
		hook(from, Idle)
	}
}

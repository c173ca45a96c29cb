package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethanbaker/wikiai/internal/agents/tutor"
	"github.com/ethanbaker/wikiai/internal/category"
	"github.com/ethanbaker/wikiai/internal/stores/history"
	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FallbackText is answered when the tutor fails
const FallbackText = "Désolé, une erreur s'est produite. Veuillez réessayer."

// ErrInvalidMessageType rejects an unknown category
var ErrInvalidMessageType = errors.New("invalid message_type")

// Answerer produces answers for a category
type Answerer interface {
	Answer(ctx context.Context, message string, c category.Category) (tutor.Answer, error)
	Analyze(ctx context.Context, question, extractedText, filename string, c category.Category) (tutor.Answer, error)
}

// Service answers chat turns and records them
type Service struct {
	answerer Answerer
	store    history.Store
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a chat service
func NewService(answerer Answerer, store history.Store, logger *zap.Logger) *Service {
	return &Service{
		answerer: answerer,
		store:    store,
		logger:   logging.OrNop(logger).Named("chat"),
		now:      time.Now,
	}
}

// Chat answers a message and stores the exchange. A tutor failure is answered
// with FallbackText rather than an error
func (s *Service) Chat(ctx context.Context, req *sdk.ChatRequest) (*sdk.ChatResponse, error) {
	c, err := category.Parse(req.MessageType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessageType, err)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	answer, err := s.answerer.Answer(ctx, req.Message, c)
	if err != nil {
		s.logger.Error("tutor failed", zap.String("session_id", sessionID), zap.Error(err))
		answer = tutor.Answer{Text: FallbackText, Sources: []string{}}
	}

	exchange := &history.Exchange{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Message:     req.Message,
		Response:    answer.Text,
		MessageType: string(c),
		TrustScore:  answer.TrustScore,
		Sources:     answer.Sources,
		Timestamp:   s.now().UTC(),
	}
	if err := s.store.Save(ctx, exchange); err != nil {
		return nil, fmt.Errorf("failed to save exchange: %w", err)
	}

	return ToResponse(exchange), nil
}

// Analyze answers a question about extracted document text. Analyses are not stored
func (s *Service) Analyze(ctx context.Context, req *sdk.AnalyzeFileRequest) (*sdk.ChatResponse, error) {
	c, err := category.Parse(req.MessageType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessageType, err)
	}

	answer, err := s.answerer.Analyze(ctx, req.Question, req.ExtractedText, req.Filename, c)
	if err != nil {
		s.logger.Error("tutor failed to analyze file", zap.String("file", req.Filename), zap.Error(err))
		answer = tutor.Answer{Text: FallbackText, Sources: []string{}}
	}

	return ToResponse(&history.Exchange{
		ID:          uuid.NewString(),
		Message:     req.Question,
		Response:    answer.Text,
		MessageType: string(c),
		TrustScore:  answer.TrustScore,
		Sources:     answer.Sources,
		Timestamp:   s.now().UTC(),
	}), nil
}

// History lists the stored exchanges of a session
func (s *Service) History(ctx context.Context, sessionID string) ([]sdk.ChatResponse, error) {
	exchanges, err := s.store.List(ctx, sessionID, history.MaxEntries)
	if err != nil {
		return nil, err
	}

	out := make([]sdk.ChatResponse, 0, len(exchanges))
	for i := range exchanges {
		out = append(out, *ToResponse(&exchanges[i]))
	}
	return out, nil
}

// ToResponse converts a stored exchange to its wire form
func ToResponse(e *history.Exchange) *sdk.ChatResponse {
	sources := make([]json.RawMessage, 0, len(e.Sources))
	for _, src := range e.Sources {
		raw, _ := json.Marshal(src)
		sources = append(sources, raw)
	}

	return &sdk.ChatResponse{
		ID:          e.ID,
		SessionID:   e.SessionID,
		Message:     e.Message,
		Response:    e.Response,
		MessageType: e.MessageType,
		TrustScore:  e.TrustScore,
		Sources:     sources,
		Timestamp:   e.Timestamp.Format(time.RFC3339Nano),
	}
}

package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethanbaker/wikiai/internal/agents/tutor"
	"github.com/ethanbaker/wikiai/internal/category"
	"github.com/ethanbaker/wikiai/internal/stores/history"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTutor struct{}

func (echoTutor) Answer(ctx context.Context, message string, c category.Category) (tutor.Answer, error) {
	return tutor.Answer{Text: message, Sources: []string{"https://www.quebec.ca"}}, nil
}

func (echoTutor) Analyze(ctx context.Context, question, extractedText, filename string, c category.Category) (tutor.Answer, error) {
	return tutor.Answer{Text: question}, nil
}

// failingStore refuses every write
type failingStore struct {
	history.Store
}

func (failingStore) Save(ctx context.Context, e *history.Exchange) error {
	return errors.New("database is down")
}

func TestServiceChat(t *testing.T) {
	store := history.NewMemoryStore(time.Hour)
	s := NewService(echoTutor{}, store, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

	resp, err := s.Chat(context.Background(), &sdk.ChatRequest{Message: "Bonjour", MessageType: "je_veux", SessionID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, "Bonjour", resp.Response)
	assert.Equal(t, "2025-03-01T10:00:00Z", resp.Timestamp)
	assert.Equal(t, []string{"https://www.quebec.ca"}, resp.SourceStrings())

	list, err := s.History(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, resp.ID, list[0].ID)
}

func TestServiceErrors(t *testing.T) {
	s := NewService(echoTutor{}, history.NewMemoryStore(time.Hour), nil)
	_, err := s.Chat(context.Background(), &sdk.ChatRequest{Message: "Bonjour", MessageType: "autre"})
	assert.ErrorIs(t, err, ErrInvalidMessageType)

	_, err = s.Analyze(context.Background(), &sdk.AnalyzeFileRequest{Question: "q", ExtractedText: "t", MessageType: "autre"})
	assert.ErrorIs(t, err, ErrInvalidMessageType)

	s = NewService(echoTutor{}, failingStore{}, nil)
	_, err = s.Chat(context.Background(), &sdk.ChatRequest{Message: "Bonjour", MessageType: "je_veux"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidMessageType)
}

func TestToResponseWithoutSources(t *testing.T) {
	resp := ToResponse(&history.Exchange{ID: "a", Response: "ok", Timestamp: time.Unix(0, 0).UTC()})
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
}

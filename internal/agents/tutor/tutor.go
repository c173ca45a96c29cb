// Package tutor answers student questions with one openai-agents-go agent per category.
package tutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethanbaker/wikiai/internal/category"
	"github.com/ethanbaker/wikiai/pkg/agent"
	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/utils"
	"github.com/nlpodyssey/openai-agents-go/agents"
	"go.uber.org/zap"
)

// SourcesTrustScore is attached to every sources_fiables answer
const SourcesTrustScore = 0.95

var (
	// ErrUnknownCategory is returned for a message type with no tutor
	ErrUnknownCategory = errors.New("unknown message type")

	// ErrEmptyAnswer is returned when an agent produced no text
	ErrEmptyAnswer = errors.New("agent returned an empty answer")
)

// Tutor is the agent of one category
type Tutor struct {
	agent    *agents.Agent
	category category.Category
	config   *utils.Config
}

// Agent returns the underlying openai-agents-go instance
func (t *Tutor) Agent() *agents.Agent {
	return t.agent
}

// ID returns the agent identifier
func (t *Tutor) ID() string {
	return "tutor-" + string(t.category)
}

// Config returns the agent configuration
func (t *Tutor) Config() *utils.Config {
	return t.config
}

// Answer is what a tutor produced for one question
type Answer struct {
	Text       string
	TrustScore *float64
	Sources    []string
}

// Service routes questions to the tutor of their category
type Service struct {
	tutors map[category.Category]*Tutor
	runner agent.Runner
	logger *zap.Logger
}

// NewService builds a tutor per category. Instructions come from
// PROMPT_DIR/<category>.md when present, the built-in prompt otherwise
func NewService(cfg *utils.Config, runner agent.Runner, logger *zap.Logger) *Service {
	if runner == nil {
		runner = agent.DefaultRunner
	}

	model := agent.Model(cfg)
	promptDir := cfg.Get("PROMPT_DIR")

	s := &Service{
		tutors: make(map[category.Category]*Tutor, len(category.All)),
		runner: runner,
		logger: logging.OrNop(logger).Named("tutor"),
	}

	for _, c := range category.All {
		t := &Tutor{category: c, config: cfg}
		t.agent = agents.New(t.ID()).
			WithInstructions(instructionsFor(promptDir, c)).
			WithModel(model).
			WithTools(createRateSourceTool())

		s.tutors[c] = t
	}

	return s
}

// instructionsFor reads <dir>/<category>.md, falling back to the built-in prompt
func instructionsFor(dir string, c category.Category) string {
	return utils.LoadPromptFromDir(dir, string(c), systemPrompts[c])
}

// Tutor returns the tutor of a category
func (s *Service) Tutor(c category.Category) (*Tutor, bool) {
	t, ok := s.tutors[c]
	return t, ok
}

// Answer asks the category's tutor a question
func (s *Service) Answer(ctx context.Context, message string, c category.Category) (Answer, error) {
	return s.run(ctx, c, message)
}

// Analyze asks the category's tutor a question about a document's extracted text
func (s *Service) Analyze(ctx context.Context, question, extractedText, filename string, c category.Category) (Answer, error) {
	input := agent.NewPromptBuilder(analysisInstruction).
		AddFact("Question", question).
		AddDocument(filename, extractedText).
		Build()

	return s.run(ctx, c, input)
}

func (s *Service) run(ctx context.Context, c category.Category, input string) (Answer, error) {
	t, ok := s.tutors[c]
	if !ok {
		return Answer{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}

	output, err := s.runner.Run(ctx, t.agent, input)
	if err != nil {
		s.logger.Error("agent run failed", zap.String("agent", t.ID()), zap.Error(err))
		return Answer{}, err
	}
	if output == "" {
		return Answer{}, ErrEmptyAnswer
	}

	answer := Answer{Text: output, Sources: []string{}}
	if c == category.SourcesFiables {
		score := SourcesTrustScore
		answer.TrustScore = &score
	}
	return answer, nil
}

package tutor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethanbaker/wikiai/internal/category"
	"github.com/ethanbaker/wikiai/pkg/agent"
	"github.com/ethanbaker/wikiai/pkg/utils"
	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRunner answers with a canned output and remembers its last call
type recordingRunner struct {
	agent  string
	input  string
	output string
	err    error
}

func (r *recordingRunner) Run(ctx context.Context, a *agents.Agent, input string) (string, error) {
	r.agent = a.Name
	r.input = input
	return r.output, r.err
}

func TestNewServiceBuildsEveryCategory(t *testing.T) {
	s := NewService(utils.NewConfig(nil), &recordingRunner{}, nil)

	for _, c := range category.All {
		tutor, ok := s.Tutor(c)
		require.True(t, ok, c)
		assert.Equal(t, "tutor-"+string(c), tutor.ID())
		assert.Equal(t, tutor.ID(), tutor.Agent().Name)

		var _ agent.CustomAgent = tutor
	}
}

func TestAnswer(t *testing.T) {
	runner := &recordingRunner{output: "La photosynthèse est..."}
	s := NewService(utils.NewConfig(nil), runner, nil)

	answer, err := s.Answer(context.Background(), "Qu'est-ce que la photosynthèse ?", category.JeVeux)
	require.NoError(t, err)
	assert.Equal(t, "La photosynthèse est...", answer.Text)
	assert.Nil(t, answer.TrustScore)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, "tutor-je_veux", runner.agent)
	assert.Equal(t, "Qu'est-ce que la photosynthèse ?", runner.input)
}

func TestSourcesFiablesCarriesTrustScore(t *testing.T) {
	s := NewService(utils.NewConfig(nil), &recordingRunner{output: "Consulte quebec.ca"}, nil)

	answer, err := s.Answer(context.Background(), "Sources sur la Révolution tranquille", category.SourcesFiables)
	require.NoError(t, err)
	require.NotNil(t, answer.TrustScore)
	assert.Equal(t, SourcesTrustScore, *answer.TrustScore)
}

func TestAnswerErrors(t *testing.T) {
	s := NewService(utils.NewConfig(nil), &recordingRunner{err: errors.New("rate limited")}, nil)
	_, err := s.Answer(context.Background(), "question", category.JeVeux)
	assert.Error(t, err)

	s = NewService(utils.NewConfig(nil), &recordingRunner{output: ""}, nil)
	_, err = s.Answer(context.Background(), "question", category.JeVeux)
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	_, err = s.Answer(context.Background(), "question", category.Category("autre"))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestAnalyzeBuildsDocumentPrompt(t *testing.T) {
	runner := &recordingRunner{output: "Le document traite de la mitose."}
	s := NewService(utils.NewConfig(nil), runner, nil)

	_, err := s.Analyze(context.Background(), "De quoi parle ce document ?", "La mitose est...", "cours.pdf", category.JeRecherche)
	require.NoError(t, err)

	assert.Equal(t, "tutor-je_recherche", runner.agent)
	assert.True(t, strings.HasPrefix(runner.input, analysisInstruction))
	assert.Contains(t, runner.input, "- Question: De quoi parle ce document ?")
	assert.Contains(t, runner.input, "## Document : cours.pdf\nLa mitose est...")
}

func TestPromptDirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "activites.md"), []byte("Propose un quiz.\n"), 0644))

	assert.Equal(t, "Propose un quiz.", instructionsFor(dir, category.Activites))
	assert.Equal(t, systemPrompts[category.JeVeux], instructionsFor(dir, category.JeVeux))
	assert.Equal(t, systemPrompts[category.Activites], instructionsFor("", category.Activites))
}

func TestRateSourceTool(t *testing.T) {
	tool := createRateSourceTool()
	assert.Equal(t, "rate_source", tool.Name)

	out, err := tool.OnInvokeTool(context.Background(), `{"url":"https://www.quebec.ca/education","content":""}`)
	require.NoError(t, err)

	result, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://www.quebec.ca/education", result["url"])
	assert.NotEmpty(t, result["trust_level"])

	_, err = tool.OnInvokeTool(context.Background(), `{"url":"","content":""}`)
	assert.Error(t, err)
	_, err = tool.OnInvokeTool(context.Background(), `not json`)
	assert.Error(t, err)
}

package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethanbaker/wikiai/pkg/utils"
	"github.com/nlpodyssey/openai-agents-go/agents"
)

// CustomAgent defines the interface for all custom agents in the system
type CustomAgent interface {
	// Agent returns the underlying openai-agents-go instance
	Agent() *agents.Agent

	// ID returns the unique identifier for this agent
	ID() string

	// Config returns the configuration for this agent
	Config() *utils.Config
}

// Runner executes an agent on a single input and returns its final output as text
type Runner interface {
	Run(ctx context.Context, agent *agents.Agent, input string) (string, error)
}

// RunFunc adapts a function to a Runner
type RunFunc func(ctx context.Context, agent *agents.Agent, input string) (string, error)

func (f RunFunc) Run(ctx context.Context, agent *agents.Agent, input string) (string, error) {
	return f(ctx, agent, input)
}

// DefaultRunner runs agents with agents.Run
var DefaultRunner Runner = RunFunc(func(ctx context.Context, agent *agents.Agent, input string) (string, error) {
	result, err := agents.Run(ctx, agent, input)
	if err != nil {
		return "", fmt.Errorf("agent execution failed: %w", err)
	}
	if result.FinalOutput == nil {
		return "", nil
	}
	return strings.TrimSpace(fmt.Sprint(result.FinalOutput)), nil
})

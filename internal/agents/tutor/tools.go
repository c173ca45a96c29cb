// tools.go handles registering tools for the tutor agents
package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ethanbaker/wikiai/pkg/trust"
	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/openai/openai-go/v2/packages/param"
)

// RateSourceArgs are the arguments of the rate_source tool
type RateSourceArgs struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// createRateSourceTool lets an agent score a source before recommending it
func createRateSourceTool() agents.FunctionTool {
	return agents.FunctionTool{
		Name:        "rate_source",
		Description: "Évalue la fiabilité d'une source web à partir de son adresse et, si disponible, d'un extrait de son contenu",
		ParamsJSONSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "Adresse complète de la source",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "Extrait du contenu de la source, ou une chaîne vide",
				},
			},
			"additionalProperties": false,
			"required":             []string{"url", "content"},
		},
		StrictJSONSchema: param.NewOpt(true),
		OnInvokeTool: func(ctx context.Context, arguments string) (any, error) {
			return handleRateSource(arguments)
		},
		IsEnabled: agents.FunctionToolEnabled(),
	}
}

// handleRateSource scores a source with the trusted-domain table
func handleRateSource(arguments string) (map[string]any, error) {
	var args RateSourceArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if args.URL == "" {
		return nil, fmt.Errorf("url parameter is required")
	}
	if _, err := url.Parse(args.URL); err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	score := trust.ScoreURL(args.URL, args.Content)
	return map[string]any{
		"url":            args.URL,
		"trust_score":    score,
		"trust_level":    trust.Level(score),
		"recommendation": trust.Recommendation(score),
	}, nil
}

package sdk

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
)

// Chat sends a plain chat turn
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	path := "/chat"

	var out ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}

	if err := checkAnswer(http.MethodPost, path, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// AnalyzeFile asks a question about previously extracted document text
func (c *Client) AnalyzeFile(ctx context.Context, req *AnalyzeFileRequest) (*ChatResponse, error) {
	path := "/analyze-file"

	var out ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}

	if err := checkAnswer(http.MethodPost, path, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// checkAnswer rejects an answer with no text or a trust score outside [0,1]
func checkAnswer(method, path string, out *ChatResponse) error {
	if strings.TrimSpace(out.Response) == "" {
		return malformed(method, path, "empty response text")
	}
	if out.TrustScore != nil && !ValidTrustScore(*out.TrustScore) {
		return malformed(method, path, fmt.Sprintf("trust_score %v outside [0,1]", *out.TrustScore))
	}
	return nil
}

// ValidTrustScore reports whether score is a number in [0,1]
func ValidTrustScore(score float64) bool {
	return !math.IsNaN(score) && score >= 0 && score <= 1
}

// History lists the exchanges the backend recorded for a session, oldest first
func (c *Client) History(ctx context.Context, sessionID string) ([]ChatResponse, error) {
	path := "/chat/history/" + url.PathEscape(sessionID)

	var out []ChatResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Health checks that the backend is reachable
func (c *Client) Health(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

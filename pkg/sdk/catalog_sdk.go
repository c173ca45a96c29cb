package sdk

import (
	"context"
	"net/http"
)

// Subjects fetches the subject taxonomy
func (c *Client) Subjects(ctx context.Context) (Subjects, error) {
	var out Subjects
	if err := c.doJSON(ctx, http.MethodGet, "/subjects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeSources scores the reliability of a list of source URLs
func (c *Client) AnalyzeSources(ctx context.Context, urls []string) (*AnalyzeSourcesResponse, error) {
	var out AnalyzeSourcesResponse
	if err := c.doJSON(ctx, http.MethodPost, "/sources/analyze", urls, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

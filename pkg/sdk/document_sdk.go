package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GenerateDocument asks the rendering service to turn text into a document and
// returns the complete byte stream. Nothing is returned unless the whole body
// was read successfully
func (c *Client) GenerateDocument(ctx context.Context, req *GenerateDocumentRequest) ([]byte, error) {
	path := "/generate-document"

	b, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Method: http.MethodPost, Path: path, Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(b), "application/json")
	if err != nil {
		return nil, err
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: http.MethodPost, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read document: %w", err)}
	}
	if len(data) == 0 {
		return nil, malformed(http.MethodPost, path, "empty document")
	}

	return data, nil
}

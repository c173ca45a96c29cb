package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadFile sends a document for text extraction as a multipart "file" field
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) (*UploadFileResponse, error) {
	path := "/upload-file"

	// Build the multipart body in memory; callers validate size beforehand
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &TransportError{Method: http.MethodPost, Path: path, Err: fmt.Errorf("create form file: %w", err)}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &TransportError{Method: http.MethodPost, Path: path, Err: fmt.Errorf("read file: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return nil, &TransportError{Method: http.MethodPost, Path: path, Err: fmt.Errorf("close form: %w", err)}
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out UploadFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, malformed(http.MethodPost, path, err.Error())
	}

	return &out, nil
}

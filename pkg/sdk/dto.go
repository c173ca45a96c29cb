package sdk

import (
	"encoding/json"
	"strings"
	"time"
)

/** Chat */

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message     string `json:"message" binding:"required"`
	MessageType string `json:"message_type" binding:"required"`
	SessionID   string `json:"session_id,omitempty"`
}

// ChatResponse is returned by POST /chat and POST /analyze-file, and listed by
// GET /chat/history/{session_id}
type ChatResponse struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"session_id,omitempty"`
	Message     string            `json:"message,omitempty"`      // Question the answer belongs to (echoed by the backend)
	Response    string            `json:"response"`               // Answer text
	MessageType string            `json:"message_type,omitempty"` // Category the answer was produced for
	TrustScore  *float64          `json:"trust_score,omitempty"`  // Optional score in [0,1]
	Sources     []json.RawMessage `json:"sources,omitempty"`      // Citation records, opaque to the client
	Exportable  bool              `json:"exportable,omitempty"`   // Explicit "can be exported" flag
	Timestamp   string            `json:"timestamp,omitempty"`    // ISO datetime, kept raw since backends vary on zone suffixes
}

// timestampLayouts are the ISO shapes seen from backends, with and without zone
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Time parses Timestamp; a missing zone is read as UTC. ok is false when the
// timestamp is absent or not ISO
func (r *ChatResponse) Time() (time.Time, bool) {
	raw := strings.TrimSpace(r.Timestamp)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SourceStrings renders the opaque source records for display: JSON strings are
// unquoted, anything else is returned as compact JSON
func (r *ChatResponse) SourceStrings() []string {
	out := make([]string, 0, len(r.Sources))
	for _, raw := range r.Sources {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, string(raw))
	}
	return out
}

/** Files */

// UploadFileResponse is returned by POST /upload-file
type UploadFileResponse struct {
	Filename      string `json:"filename"`
	ExtractedText string `json:"extracted_text"`
	TextLength    int    `json:"text_length"`
}

// AnalyzeFileRequest is the body of POST /analyze-file
type AnalyzeFileRequest struct {
	Question      string `json:"question" binding:"required"`
	ExtractedText string `json:"extracted_text" binding:"required"`
	Filename      string `json:"filename"`
	MessageType   string `json:"message_type" binding:"required"`
}

/** Documents */

// GenerateDocumentRequest is the body of POST /generate-document
type GenerateDocumentRequest struct {
	Content  string `json:"content"`
	Title    string `json:"title"`
	Format   string `json:"format"`
	Filename string `json:"filename"`
}

/** Catalog */

// SubjectGroup is one entry of the GET /subjects mapping
type SubjectGroup struct {
	Name     string   `json:"name" yaml:"name"`
	Subjects []string `json:"subjects" yaml:"subjects"`
}

// Subjects maps a category-group key to its group
type Subjects map[string]SubjectGroup

/** Sources */

// AnalyzedSource is one entry of the POST /sources/analyze result
type AnalyzedSource struct {
	URL            string  `json:"url"`
	TrustScore     float64 `json:"trust_score"`
	TrustLevel     string  `json:"trust_level"`
	Recommendation string  `json:"recommendation"`
}

// AnalyzeSourcesResponse is returned by POST /sources/analyze
type AnalyzeSourcesResponse struct {
	AnalyzedSources []AnalyzedSource `json:"analyzed_sources"`
}

/** Misc */

// StatusResponse is returned by GET /health
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body the reference backend sends with non-2xx statuses
type ErrorResponse struct {
	Status int    `json:"-"`
	Detail string `json:"detail"`
}

// NewErrorResponse builds an error body for the given status
func NewErrorResponse(status int, detail string) *ErrorResponse {
	return &ErrorResponse{Status: status, Detail: detail}
}

// AsGinResponse returns the status and body in the order gin's c.JSON takes them
func (r *ErrorResponse) AsGinResponse() (int, *ErrorResponse) {
	return r.Status, r
}

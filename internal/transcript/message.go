package transcript

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/ethanbaker/wikiai/internal/category"
)

// Origin says who authored a message
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// Message is one turn of the conversation
type Message struct {
	ID        uint64            // Assigned by the store, increasing in append order
	Text      string            // Message content
	Origin    Origin            // user or assistant
	Category  category.Category // Active category when the message was created
	CreatedAt time.Time         // Assigned by the store when zero

	// Assistant-only fields
	TrustScore *float64          // Optional score in [0,1]
	Sources    []json.RawMessage // Citation records, opaque
	Exportable bool              // Whether an export may target this message
}

// clone returns a deep copy so stored messages cannot be changed through snapshots
func (m Message) clone() Message {
	if m.TrustScore != nil {
		score := *m.TrustScore
		m.TrustScore = &score
	}
	if m.Sources != nil {
		sources := make([]json.RawMessage, len(m.Sources))
		for i, s := range m.Sources {
			sources[i] = slices.Clone(s)
		}
		m.Sources = sources
	}
	return m
}

// IsAssistant reports whether the message was authored by the assistant
func (m Message) IsAssistant() bool {
	return m.Origin == OriginAssistant
}

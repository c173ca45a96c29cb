package agent

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultDocumentLimit caps the characters of a document included in a prompt
const DefaultDocumentLimit = 12000

type fact struct {
	key, value string
}

type document struct {
	name, text string
}

// PromptBuilder helps construct the input of a single agent turn
type PromptBuilder struct {
	instruction   string
	facts         []fact
	context       []string
	documents     []document
	documentLimit int
}

// NewPromptBuilder creates a new prompt builder with a base instruction
func NewPromptBuilder(instruction string) *PromptBuilder {
	return &PromptBuilder{
		instruction:   instruction,
		documentLimit: DefaultDocumentLimit,
	}
}

// AddFact adds a key-value fact to the prompt. Facts keep their insertion order;
// adding a key again replaces its value
func (pb *PromptBuilder) AddFact(key, value string) *PromptBuilder {
	for i := range pb.facts {
		if pb.facts[i].key == key {
			pb.facts[i].value = value
			return pb
		}
	}
	pb.facts = append(pb.facts, fact{key: key, value: value})
	return pb
}

// AddContext adds contextual information to the prompt
func (pb *PromptBuilder) AddContext(context string) *PromptBuilder {
	if context = strings.TrimSpace(context); context != "" {
		pb.context = append(pb.context, context)
	}
	return pb
}

// AddDocument attaches document text under its name
func (pb *PromptBuilder) AddDocument(name, text string) *PromptBuilder {
	pb.documents = append(pb.documents, document{name: name, text: text})
	return pb
}

// WithDocumentLimit changes how many characters of each document are kept.
// A limit of zero or less keeps everything
func (pb *PromptBuilder) WithDocumentLimit(limit int) *PromptBuilder {
	pb.documentLimit = limit
	return pb
}

// Build constructs the final prompt
func (pb *PromptBuilder) Build() string {
	var parts []string

	if pb.instruction != "" {
		parts = append(parts, pb.instruction)
	}

	if len(pb.facts) > 0 {
		parts = append(parts, "\n## Informations :")
		for _, f := range pb.facts {
			parts = append(parts, fmt.Sprintf("- %s: %s", f.key, f.value))
		}
	}

	if len(pb.context) > 0 {
		parts = append(parts, "\n## Contexte :")
		for _, c := range pb.context {
			parts = append(parts, fmt.Sprintf("- %s", c))
		}
	}

	for _, d := range pb.documents {
		parts = append(parts, fmt.Sprintf("\n## Document : %s", d.name))
		parts = append(parts, truncate(d.text, pb.documentLimit))
	}

	return strings.Join(parts, "\n")
}

// truncate keeps the first limit runes of s, marking the cut
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "\n[...]"
}

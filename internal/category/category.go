// Package category holds the fixed set of turn intents a user can pick for a message.
package category

import "fmt"

// Category is the intent of a turn; its value is sent verbatim as message_type
type Category string

const (
	JeVeux         Category = "je_veux"
	JeRecherche    Category = "je_recherche"
	SourcesFiables Category = "sources_fiables"
	Activites      Category = "activites"
)

// All lists the categories in display order. The first one is the default
var All = []Category{JeVeux, JeRecherche, SourcesFiables, Activites}

// Default is the category a new session starts with
const Default = JeVeux

var placeholders = map[Category]string{
	JeVeux:         "Je veux comprendre...",
	JeRecherche:    "Je recherche des informations sur...",
	SourcesFiables: "Trouve-moi des sources fiables sur...",
	Activites:      "Propose-moi une activité sur...",
}

var labels = map[Category]string{
	JeVeux:         "Je veux",
	JeRecherche:    "Je recherche",
	SourcesFiables: "Sources fiables",
	Activites:      "Activités",
}

// Valid reports whether c is one of the enumerated categories
func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// Label is the human readable name of the category
func (c Category) Label() string {
	if label, ok := labels[c]; ok {
		return label
	}
	return string(c)
}

// Placeholder is the default input hint shown while composing in this category
func (c Category) Placeholder() string {
	return placeholders[c]
}

// Parse validates a raw category value
func Parse(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q (expected one of %v)", raw, All)
	}
	return c, nil
}

// OrDefault returns c when valid, otherwise Default
func OrDefault(c Category) Category {
	if c.Valid() {
		return c
	}
	return Default
}

package model

import "strings"

// InfoboxEntry is one label/content cell pair taken from a wiki infobox, in document order
type InfoboxEntry struct {
	Header     string `json:"header"`      // Label cell text, usually ending in ':'
	RawContent string `json:"raw_content"` // Text of the adjacent content cell
}

// FieldCategory classifies an infobox entry by its header
type FieldCategory int

const (
	CategoryGeneric    FieldCategory = iota // Anything not matched below
	CategoryCost                            // Resource cost (minerals, gas, time, supply)
	CategoryAttributes                      // Unit attributes (Light, Biological, ...)
	CategoryAttack                          // Any header containing "Attack"
	CategoryDefense                         // Life, shield, armor
)

func (c FieldCategory) String() string {
	switch c {
	case CategoryCost:
		return "cost"
	case CategoryAttributes:
		return "attributes"
	case CategoryAttack:
		return "attack"
	case CategoryDefense:
		return "defense"
	default:
		return "generic"
	}
}

// NormalizedLine is the rendered output for one infobox entry
type NormalizedLine struct {
	Header string `json:"header"`
	Body   string `json:"body"`
}

// String renders the line as a bold header followed by the body on the next line
func (l NormalizedLine) String() string {
	return "**" + l.Header + ":**\n" + l.Body
}

// ExtractionResult is the outcome of one infobox lookup
type ExtractionResult struct {
	SourceReference string           `json:"source_reference"` // Resolved page address
	Lines           []NormalizedLine `json:"lines"`
}

// Text renders the source reference followed by every line, separated by single newlines
func (r ExtractionResult) Text() string {
	parts := make([]string, 0, len(r.Lines)+1)
	parts = append(parts, r.SourceReference)
	for _, line := range r.Lines {
		parts = append(parts, line.String())
	}
	return strings.Join(parts, "\n")
}

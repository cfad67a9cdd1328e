package infobox

import (
	"github.com/rs/zerolog/log"

	"github.com/ppiankov/sc2bot/internal/model"
)

// Extractor classifies infobox entries and renders each with its category's renderer
type Extractor struct {
	renderers map[model.FieldCategory]RenderFunc
}

// NewExtractor creates an extractor using the given icons for cost and defense cells
func NewExtractor(icons Icons) *Extractor {
	return &Extractor{renderers: Renderers(icons)}
}

// Extract renders entries in order, dropping excluded headers. An empty input yields
// a result holding only the source reference.
func (e *Extractor) Extract(entries []model.InfoboxEntry, sourceRef string) model.ExtractionResult {
	result := model.ExtractionResult{
		SourceReference: sourceRef,
		Lines:           make([]model.NormalizedLine, 0, len(entries)),
	}

	for _, entry := range entries {
		if IsExcluded(entry.Header) {
			continue
		}
		category := Classify(entry.Header)
		render, ok := e.renderers[category]
		if !ok {
			render = renderGeneric
		}
		result.Lines = append(result.Lines, model.NormalizedLine{
			Header: HeaderName(entry.Header),
			Body:   render(entry.RawContent),
		})
	}

	log.Debug().
		Str("source", sourceRef).
		Int("entries", len(entries)).
		Int("lines", len(result.Lines)).
		Msg("infobox extracted")

	return result
}

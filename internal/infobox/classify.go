package infobox

import (
	"strings"

	"github.com/ppiankov/sc2bot/internal/model"
)

// excludedHeaders never appear in an extraction result
var excludedHeaders = map[string]bool{
	"Type":        true,
	"Description": true,
	"Hotkey":      true,
}

var exactCategories = map[string]model.FieldCategory{
	"Cost":       model.CategoryCost,
	"Attributes": model.CategoryAttributes,
	"Defense":    model.CategoryDefense,
}

// HeaderName trims surrounding whitespace and a trailing colon from a label cell
func HeaderName(header string) string {
	name := strings.TrimSpace(header)
	name = strings.TrimSuffix(name, ":")
	return strings.TrimSpace(name)
}

// IsExcluded reports whether the entry with this header is dropped before classification
func IsExcluded(header string) bool {
	return excludedHeaders[HeaderName(header)]
}

// Classify maps a header to its category. Any header containing "Attack" is an
// attack, which covers "Ground Attack" and "Air Attack".
func Classify(header string) model.FieldCategory {
	name := HeaderName(header)
	if strings.Contains(name, "Attack") {
		return model.CategoryAttack
	}
	if category, ok := exactCategories[name]; ok {
		return category
	}
	return model.CategoryGeneric
}

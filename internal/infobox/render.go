package infobox

import (
	"regexp"
	"strings"

	"github.com/ppiankov/sc2bot/internal/model"
)

// RenderFunc turns the raw content of one infobox cell into a display body
type RenderFunc func(content string) string

// Icons are the emoji paired positionally with extracted numeric tokens
type Icons struct {
	Cost       []string // minerals, gas, build time, supply
	Defense    []string // life, shield, armor
	Shieldless []string // life, armor
	Separator  string
}

// IconsFromConfig builds the icon lists from configuration
func IconsFromConfig(cfg model.IconConfig) Icons {
	return Icons{
		Cost:       []string{cfg.Minerals, cfg.Gas, cfg.BuildTime, cfg.Supply},
		Defense:    []string{cfg.Life, cfg.Shield, cfg.Armor},
		Shieldless: []string{cfg.Life, cfg.Armor},
		Separator:  cfg.Separator,
	}
}

var (
	costTokenPattern    = regexp.MustCompile(`\d+\.\d+|\d+ ?\(\d+\)|\d+`)
	defenseTokenPattern = regexp.MustCompile(`\d+(?: ?\([^)]*\))?|\([^)]*\)`)
	attributeSeparators = regexp.MustCompile(`[,\s]+`)
)

// Renderers returns the dispatch table from category to renderer
func Renderers(icons Icons) map[model.FieldCategory]RenderFunc {
	return map[model.FieldCategory]RenderFunc{
		model.CategoryCost:       icons.renderCost,
		model.CategoryAttributes: renderAttributes,
		model.CategoryAttack:     renderAttack,
		model.CategoryDefense:    icons.renderDefense,
		model.CategoryGeneric:    renderGeneric,
	}
}

func (i Icons) renderCost(content string) string {
	flat := Normalize(content, NumericRules)
	tokens := costTokenPattern.FindAllString(flat, -1)
	if len(tokens) > len(i.Cost) {
		tokens = tokens[:len(i.Cost)]
	}
	return pairIcons(i.Cost, tokens, i.Separator)
}

func (i Icons) renderDefense(content string) string {
	flat := Normalize(content, NumericRules)
	tokens := defenseTokenPattern.FindAllString(flat, -1)
	icons := i.Defense
	if len(tokens) < 4 {
		icons = i.Shieldless
	}
	return pairIcons(icons, tokens, i.Separator)
}

func renderAttributes(content string) string {
	var parts []string
	for _, part := range attributeSeparators.Split(content, -1) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func renderAttack(content string) string {
	return strings.TrimLeft(Normalize(content, AttackRules), " \t\r\n")
}

func renderGeneric(content string) string {
	return strings.TrimSpace(Normalize(content, WhitespaceRules))
}

// pairIcons prefixes each token with the icon at the same position.
// Tokens past the end of icons are emitted without a prefix.
func pairIcons(icons []string, tokens []string, sep string) string {
	parts := make([]string, len(tokens))
	for idx, token := range tokens {
		if idx < len(icons) {
			parts[idx] = icons[idx] + token
		} else {
			parts[idx] = token
		}
	}
	return strings.Join(parts, sep)
}

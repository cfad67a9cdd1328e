package infobox

import (
	"testing"

	"github.com/ppiankov/sc2bot/internal/model"
)

func testIcons() Icons {
	return IconsFromConfig(model.IconConfig{
		Minerals:  "[m]",
		Gas:       "[g]",
		BuildTime: "[t]",
		Supply:    "[s]",
		Life:      "[l]",
		Shield:    "[sh]",
		Armor:     "[a]",
		Separator: " | ",
	})
}

func TestRenderCost(t *testing.T) {
	icons := testIcons()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"upgrade cost in parentheses", "12 (16) 50 1", "[m]12 (16) | [g]50 | [t]1"},
		{"all four", "150 100 43 3", "[m]150 | [g]100 | [t]43 | [s]3"},
		{"decimal", "25 0 17.9 0.5", "[m]25 | [g]0 | [t]17.9 | [s]0.5"},
		{"padded parentheses", " 100  ( 150 )\n 2 ", "[m]100 (150) | [g]2"},
		{"extra tokens dropped", "1 2 3 4 5 6", "[m]1 | [g]2 | [t]3 | [s]4"},
		{"single", "25", "[m]25"},
		{"no tokens", "n/a", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := icons.renderCost(tt.content); got != tt.want {
				t.Errorf("renderCost(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestRenderAttributes(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{" Light,  Biological ", "Light, Biological"},
		{"Armored, Mechanical, Massive", "Armored, Mechanical, Massive"},
		{"Armored Mechanical", "Armored, Mechanical"},
		{",,", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			if got := renderAttributes(tt.content); got != tt.want {
				t.Errorf("renderAttributes(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestRenderAttack(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"implicit labels", "Damage 6 Cooldown 1.5", "Damage: 6\nCooldown: 1.5"},
		{
			"noisy colons and parentheses",
			"  Targets : Ground Damage 6 ( +1 )  Range 5",
			"Targets: Ground\nDamage: 6 (+1)\nRange: 5",
		},
		{"leading label", " Damage: 20", "Damage: 20"},
		{"stacked labels", "Targets: Ground: Air", "Targets:\nGround: Air"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderAttack(tt.content); got != tt.want {
				t.Errorf("renderAttack(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestRenderDefense(t *testing.T) {
	icons := testIcons()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"parenthetical grouped with value", "140 (+40) 1", "[l]140 (+40) | [a]1"},
		{"three tokens stay shieldless", "140 1 2", "[l]140 | [a]1 | 2"},
		{"four tokens use shield", "100 50 1 3", "[l]100 | [sh]50 | [a]1 | 3"},
		{"padded parentheses", "45 ( +1 )", "[l]45 (+1)"},
		{"bare parenthetical", "(+1) 45", "[l](+1) | [a]45"},
		{"no tokens", "none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := icons.renderDefense(tt.content); got != tt.want {
				t.Errorf("renderDefense(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestRenderGeneric(t *testing.T) {
	if got := renderGeneric("  multiple   spaces   here "); got != "multiple spaces here" {
		t.Errorf("expected collapsed text, got %q", got)
	}
}

func TestPairIcons_Bounds(t *testing.T) {
	if got := pairIcons(nil, []string{"1", "2"}, ","); got != "1,2" {
		t.Errorf("expected unprefixed tokens, got %q", got)
	}
	if got := pairIcons([]string{"a", "b", "c"}, []string{"1"}, ","); got != "a1" {
		t.Errorf("expected single pair, got %q", got)
	}
}

func TestRenderers_CoverEveryCategory(t *testing.T) {
	table := Renderers(testIcons())
	for _, c := range []model.FieldCategory{
		model.CategoryGeneric, model.CategoryCost, model.CategoryAttributes,
		model.CategoryAttack, model.CategoryDefense,
	} {
		if table[c] == nil {
			t.Errorf("no renderer for %s", c)
		}
	}
}

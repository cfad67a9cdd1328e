package infobox

import "regexp"

// Rule is one pattern substitution step
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Normalize applies rules in order, each rule operating on the previous rule's output.
// Unmatched patterns leave the text unchanged.
func Normalize(text string, rules []Rule) string {
	for _, rule := range rules {
		text = rule.Pattern.ReplaceAllString(text, rule.Replacement)
	}
	return text
}

var (
	ruleCollapseSpace = Rule{
		Name:        "collapse-space",
		Pattern:     regexp.MustCompile(`\s+`),
		Replacement: " ",
	}
	ruleParenOpen = Rule{
		Name:        "paren-inner-space-open",
		Pattern:     regexp.MustCompile(`\(\s+`),
		Replacement: "(",
	}
	ruleParenClose = Rule{
		Name:        "paren-inner-space-close",
		Pattern:     regexp.MustCompile(`\s+\)`),
		Replacement: ")",
	}
	ruleSpaceBeforeColon = Rule{
		Name:        "space-before-colon",
		Pattern:     regexp.MustCompile(`\s+:`),
		Replacement: ":",
	}
	// "Damage 6" -> "Damage: 6"
	ruleImplicitColon = Rule{
		Name:        "implicit-colon",
		Pattern:     regexp.MustCompile(`([A-Za-z]) (\d)`),
		Replacement: "$1: $2",
	}
	// "Targets: Ground:" -> "Targets:\nGround:"
	ruleStackedLabels = Rule{
		Name:        "stacked-labels",
		Pattern:     regexp.MustCompile(`([A-Za-z]+:) ([A-Za-z]+:)`),
		Replacement: "$1\n$2",
	}
	ruleLabelBreak = Rule{
		Name:        "label-break",
		Pattern:     regexp.MustCompile(` ([A-Za-z]+:)`),
		Replacement: "\n$1",
	}
)

// WhitespaceRules collapses whitespace runs to a single space.
var WhitespaceRules = []Rule{ruleCollapseSpace}

// NumericRules closes up parenthesis spacing and collapses whitespace. Used by cost and defense.
var NumericRules = []Rule{ruleParenOpen, ruleParenClose, ruleCollapseSpace}

// AttackRules is the ordered pass list for attack cells. Later passes rely on the
// colon insertion and spacing done by earlier ones.
var AttackRules = []Rule{
	ruleSpaceBeforeColon,
	ruleParenOpen,
	ruleParenClose,
	ruleCollapseSpace,
	ruleImplicitColon,
	ruleStackedLabels,
	ruleLabelBreak,
}

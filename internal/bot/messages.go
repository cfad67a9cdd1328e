package bot

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is Discord's limit on a single message
const MaxMessageLength = 2000

// ErrorMessage renders the usage error block shown for a bad command
func ErrorMessage(usage, description string) string {
	return "Error: `" + usage + "`\n```" + description + "```"
}

// SplitMessage breaks text into chunks of at most limit bytes, preferring line boundaries.
// Lines longer than limit are cut on a rune boundary.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		extra := len(line)
		if current.Len() > 0 {
			extra++
		}
		if current.Len()+extra > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()

	return chunks
}

package generation

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FallbackTitle is used when the cleaned text yields nothing to derive from.
const FallbackTitle = "未命名播客"

const titleMaxRunes = 50

// sentence terminators recognized when deriving a title.
var terminalMarks = map[rune]struct{}{
	'。': {}, '！': {}, '？': {},
	'.': {}, '!': {}, '?': {},
}

// PrepareText normalizes submitted text for synthesis: NFC form, unified
// newlines, trimmed edges.
func PrepareText(raw string) string {
	text := norm.NFC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}

// DeriveTitle builds a podcast title from the synthesized text: the first
// sentence up to a terminal punctuation mark (mark stripped), truncated to 50
// runes with an ellipsis when longer. Empty text yields FallbackTitle.
func DeriveTitle(text string) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return FallbackTitle
	}

	sentence := cleaned
	for i, r := range cleaned {
		if _, ok := terminalMarks[r]; ok {
			sentence = cleaned[:i]
			break
		}
	}
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return FallbackTitle
	}

	runes := []rune(sentence)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes]) + "..."
	}
	return sentence
}

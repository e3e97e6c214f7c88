// Package moderation censors configured words in message content before
// it is persisted. Matching runs over a normalized view of the text
// (lowercased, punctuation and spacing stripped) so that padded or mixed
// case variants are still caught, while replacement happens on the
// original runes to preserve the message layout.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
}

// NewModerator builds the Aho-Corasick automaton from the censored word
// list. An empty list yields a pass-through moderator.
func NewModerator(censoredWords []string, censoredChar rune) (*Moderator, error) {
	if len(censoredWords) == 0 {
		return &Moderator{censoredChar: censoredChar}, nil
	}
	patterns := make([][]rune, len(censoredWords))
	for i, word := range censoredWords {
		patterns[i] = normalizeRunes([]rune(word))
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, censoredChar: censoredChar}, nil
}

// Censor replaces every character of a forbidden span with the
// replacement rune, leaving everything else untouched.
func (m *Moderator) Censor(original string) string {
	if m.matcher == nil {
		return original
	}

	origRunes := []rune(original)
	normalized := make([]rune, 0, len(origRunes))
	origIdx := make([]int, 0, len(origRunes))
	for i, r := range origRunes {
		if isNoise(r) {
			continue
		}
		normalized = append(normalized, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	if len(normalized) == 0 {
		return original
	}

	spans := m.matcher.MultiPatternSearch(normalized, false)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			origRunes[i] = m.censoredChar
		}
	}
	return string(origRunes)
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if isNoise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

// isNoise identifies characters ignored during pattern matching.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}

package utils

import (
	"strings"
	"unicode"
)

// Tsheg is the Tibetan syllable separator (U+0F0B). TshegNB is its
// non-breaking variant (U+0F0C).
const (
	Tsheg   = '་'
	TshegNB = '༌'
)

// isTibetan reports whether r falls in the Tibetan Unicode block.
func isTibetan(r rune) bool {
	return r >= 0x0F00 && r <= 0x0FFF
}

// containsTibetan reports whether s holds any Tibetan codepoint.
func containsTibetan(s string) bool {
	for _, r := range s {
		if isTibetan(r) {
			return true
		}
	}
	return false
}

// hasTsheg reports whether s holds a syllable separator.
func hasTsheg(s string) bool {
	return strings.ContainsRune(s, Tsheg) || strings.ContainsRune(s, TshegNB)
}

// CountSyllables counts the payable syllables in text.
//
// Tibetan text is split on the tsheg separator and on whitespace. Tibetan
// text written without tsheg falls back to counting contiguous runs of
// Tibetan codepoints. Text with no Tibetan codepoints at all is counted as
// whitespace-delimited words. The routine is pure; payroll depends on it,
// so any change must keep the fallback order intact.
func CountSyllables(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	if hasTsheg(trimmed) {
		return countSeparated(trimmed)
	}
	if containsTibetan(trimmed) {
		return countTibetanRuns(trimmed)
	}
	return len(strings.Fields(trimmed))
}

// countSeparated splits on tsheg and whitespace and counts groups that
// carry at least one letter or digit, so trailing separators and bare
// punctuation (shad marks) do not inflate the count.
func countSeparated(text string) int {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == Tsheg || r == TshegNB || unicode.IsSpace(r)
	})
	count := 0
	for _, field := range fields {
		if hasLetterOrDigit(field) {
			count++
		}
	}
	return count
}

// countTibetanRuns counts maximal runs of Tibetan codepoints.
func countTibetanRuns(text string) int {
	count := 0
	inRun := false
	for _, r := range text {
		if isTibetan(r) && !unicode.IsPunct(r) {
			if !inRun {
				count++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return count
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			return true
		}
	}
	return false
}

// CountWords counts whitespace-delimited words; used for non-Tibetan text
// metrics.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

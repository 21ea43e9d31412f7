package utils

import "testing"

func TestCountSyllablesTshegSeparated(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		{"four syllables", "བཀྲ་ཤིས་བདེ་ལེགས", 4},
		{"trailing tsheg", "བཀྲ་ཤིས་", 2},
		{"tsheg and shad", "བཀྲ་ཤིས། བདེ་ལེགས།", 4},
		{"single syllable", "ཆོས་", 1},
		{"mixed whitespace", "བཀྲ་ཤིས བདེ་ལེགས", 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CountSyllables(tc.text); got != tc.want {
				t.Errorf("CountSyllables(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

func TestCountSyllablesTibetanWithoutTsheg(t *testing.T) {
	// No separator: fall back to contiguous Tibetan runs.
	if got := CountSyllables("ཆོས abc ཆོས"); got != 2 {
		t.Errorf("expected 2 Tibetan runs, got %d", got)
	}
}

func TestCountSyllablesPlainText(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"a b c", 3},
		{"hello world", 2},
		{"  spaced   out  ", 2},
		{"", 0},
		{"   ", 0},
		{"one", 1},
	}

	for _, tc := range cases {
		if got := CountSyllables(tc.text); got != tc.want {
			t.Errorf("CountSyllables(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("a b c"); got != 3 {
		t.Errorf("CountWords = %d, want 3", got)
	}
	if got := CountWords(""); got != 0 {
		t.Errorf("CountWords empty = %d, want 0", got)
	}
}

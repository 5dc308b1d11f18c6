package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxSingleLetterRatio = 0.4 // "H e l l o" style OCR spacing
	minLetterDensity     = 0.5
	maxRepeatRun         = 4 // A fifth identical character in a row is noise
)

// IsGibberish reports whether s looks like OCR noise rather than text.
// It does not depend on a lexicon.
func IsGibberish(s string) bool {
	length := utf8.RuneCountInString(s)
	if length < 2 {
		return true
	}

	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return true
	}

	if len(tokens) > 2 {
		singles := 0
		for _, tok := range tokens {
			if isSingleLetter(tok) {
				singles++
			}
		}
		if float64(singles)/float64(len(tokens)) > maxSingleLetterRatio {
			return true
		}
	}

	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if float64(letters)/float64(length) < minLetterDensity {
		return true
	}

	return hasRepeatRun(s)
}

// IsGibberish is the gate-method form so callers can hold a single *Gate
func (g *Gate) IsGibberish(s string) bool {
	return IsGibberish(s)
}

// isSingleLetter reports whether a token is one letter once surrounding punctuation is removed
func isSingleLetter(tok string) bool {
	core := strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	if utf8.RuneCountInString(core) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(core)
	return unicode.IsLetter(r)
}

// hasRepeatRun reports a run of more than maxRepeatRun identical non-space characters
func hasRepeatRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if r == prev {
			run++
			if run > maxRepeatRun {
				return true
			}
			continue
		}
		prev = r
		run = 1
	}
	return false
}

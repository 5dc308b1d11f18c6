package distractor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/notequiz/internal/lexicon"
)

const minSwapWords = 6

// Paraphraser applies deterministic word-level rewrites to a sentence. It works
// on whitespace tokens; punctuation attached to a token is kept in place.
type Paraphraser struct {
	negations map[string]lexicon.NegationRule
	temporal  []map[string]string
}

// NewParaphraser builds the rewrite tables from a lexicon (nil means default)
func NewParaphraser(lex *lexicon.Lexicon) *Paraphraser {
	if lex == nil {
		lex = lexicon.Default()
	}

	p := &Paraphraser{
		negations: make(map[string]lexicon.NegationRule),
	}
	for _, rule := range lex.NegationRules {
		for _, w := range rule.Words {
			p.negations[strings.ToLower(w)] = rule
		}
	}
	for _, group := range lex.TemporalSwaps {
		lowered := make(map[string]string, len(group))
		for from, to := range group {
			lowered[strings.ToLower(from)] = to
		}
		p.temporal = append(p.temporal, lowered)
	}
	return p
}

// Negate rewrites every copular or possessive verb form in s. The boolean is
// false when nothing was rewritten.
func (p *Paraphraser) Negate(s string) (string, bool) {
	return rewrite(s, func(word string) (string, bool) {
		rule, ok := p.negations[strings.ToLower(word)]
		if !ok {
			return "", false
		}
		if rule.Prefix != "" && startsUpper(word) {
			return capitalize(rule.Prefix) + lowerFirst(word) + rule.Suffix, true
		}
		return rule.Prefix + word + rule.Suffix, true
	})
}

// SwapMiddle exchanges the tokens around the middle of a sentence of at least
// six tokens. The boolean is false when the sentence is too short or the two
// tokens are equal.
func (p *Paraphraser) SwapMiddle(s string) (string, bool) {
	tokens := strings.Fields(s)
	if len(tokens) < minSwapWords {
		return s, false
	}
	mid := len(tokens) / 2
	if tokens[mid-1] == tokens[mid+1] {
		return s, false
	}
	tokens[mid-1], tokens[mid+1] = tokens[mid+1], tokens[mid-1]
	return strings.Join(tokens, " "), true
}

// TemporalVariants returns one variant per temporal swap group that changes s,
// in group order.
func (p *Paraphraser) TemporalVariants(s string) []string {
	var variants []string
	for _, group := range p.temporal {
		variant, changed := rewrite(s, func(word string) (string, bool) {
			to, ok := group[strings.ToLower(word)]
			if !ok {
				return "", false
			}
			if startsUpper(word) {
				return capitalize(to), true
			}
			return to, true
		})
		if changed {
			variants = append(variants, variant)
		}
	}
	return variants
}

// rewrite maps every token's word core through fn, leaving surrounding
// punctuation alone. Tokens are rejoined with single spaces.
func rewrite(s string, fn func(word string) (string, bool)) (string, bool) {
	tokens := strings.Fields(s)
	changed := false
	for i, tok := range tokens {
		lead, word, trail := splitToken(tok)
		if word == "" {
			continue
		}
		if repl, ok := fn(word); ok {
			tokens[i] = lead + repl + trail
			changed = true
		}
	}
	if !changed {
		return s, false
	}
	return strings.Join(tokens, " "), true
}

// splitToken separates leading and trailing punctuation from a token's letters
func splitToken(tok string) (lead, word, trail string) {
	isWord := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

	start := strings.IndexFunc(tok, isWord)
	if start < 0 {
		return tok, "", ""
	}
	end := strings.LastIndexFunc(tok, isWord)
	_, size := utf8.DecodeRuneInString(tok[end:])
	return tok[:start], tok[start : end+size], tok[end+size:]
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

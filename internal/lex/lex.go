// Package lex implements the generic, ordered-pattern tokenizer described in
// spec §4.2: a list of (pattern, symbol-or-skip) rules tried in insertion
// order at each position, producing a token.Stream.
package lex

import (
	"fmt"
	"regexp"

	"github.com/dekarrin/rebnf/internal/icterrors"
	"github.com/dekarrin/rebnf/internal/symbol"
	"github.com/dekarrin/rebnf/internal/token"
)

type rule struct {
	src string
	pat *regexp.Regexp
	sym symbol.Symbol // nil means skip
}

// Tokenizer is an ordered list of pattern rules. The zero value is not
// usable; construct one with New.
type Tokenizer struct {
	rules []rule
}

// New returns an empty Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{}
}

// AddRule appends a pattern to the tokenizer. pat is compiled as a regular
// expression anchored to the current scan position; it does not need its
// own leading `^`. If sym is nil, text matched by pat is discarded rather
// than emitted as a token (e.g. whitespace).
func (t *Tokenizer) AddRule(pat string, sym symbol.Symbol) error {
	compiled, err := regexp.Compile(`\A(?:` + pat + `)`)
	if err != nil {
		return fmt.Errorf("cannot compile pattern %q: %w", pat, err)
	}

	t.rules = append(t.rules, rule{src: pat, pat: compiled, sym: sym})
	return nil
}

// PatternRule describes one registered rule for inspection by callers that
// want to summarize a tokenizer without reaching into its internals (e.g.
// package cache, serializing a grammar's terminal patterns).
type PatternRule struct {
	// Pattern is the rule's source regular expression, as passed to
	// AddRule.
	Pattern string

	// SymbolName is the name of the rule's symbol, or "" if the rule is a
	// skip rule (nil symbol).
	SymbolName string

	// Skip is whether text matched by this rule is discarded rather than
	// emitted as a token.
	Skip bool
}

// Rules returns the tokenizer's registered patterns in priority order.
func (t *Tokenizer) Rules() []PatternRule {
	out := make([]PatternRule, len(t.rules))
	for i, r := range t.rules {
		out[i] = PatternRule{Pattern: r.src, Skip: r.sym == nil}
		if r.sym != nil {
			out[i].SymbolName = r.sym.Name()
		}
	}
	return out
}

// Tokenize lexes text in full, trying rules in insertion order at each
// position and advancing by the length of the first match. It returns a
// *icterrors.LexicalError if no rule matches at some position before the
// end of text is reached.
func (t *Tokenizer) Tokenize(text string) (token.Stream, error) {
	var toks []token.Token

	pos := 0
	for pos < len(text) {
		remaining := text[pos:]

		matched := false
		for _, r := range t.rules {
			loc := r.pat.FindStringSubmatchIndex(remaining)
			if loc == nil || loc[0] != 0 {
				continue
			}

			length := loc[1]
			if length == 0 {
				// a zero-width match would never advance the scan; treat
				// it as a non-match so we don't loop forever.
				continue
			}

			// if the pattern has a capturing group, its content becomes
			// the lexeme (e.g. stripping the surrounding quotes of a
			// LITERAL); otherwise the whole match is the lexeme.
			lexeme := remaining[:length]
			start, end := pos, pos+length
			if len(loc) >= 4 && loc[2] >= 0 && loc[3] >= 0 {
				lexeme = remaining[loc[2]:loc[3]]
				start, end = pos+loc[2], pos+loc[3]
			}
			if r.sym != nil {
				toks = append(toks, token.New(r.sym, lexeme, start, end))
			}
			pos += length
			matched = true
			break
		}

		if !matched {
			preview := remaining
			if len(preview) > 24 {
				preview = preview[:24] + "..."
			}
			return nil, &icterrors.LexicalError{Offset: pos, Preview: preview}
		}
	}

	return token.NewSliceStream(toks), nil
}

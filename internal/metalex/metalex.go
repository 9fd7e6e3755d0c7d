// Package metalex is the fixed REBNF meta-grammar lexer of spec §4.3: a
// preconfigured lex.Tokenizer whose rules turn grammar source text into the
// meta-tokens the node builder (package node) consumes.
package metalex

import (
	"github.com/dekarrin/rebnf/internal/lex"
	"github.com/dekarrin/rebnf/internal/symbol"
)

// New returns a fresh lex.Tokenizer configured with the REBNF meta-grammar
// rules, in the exact order required by spec §4.3: whitespace is skipped
// first, then rule/term/literal names, then the bracket and suffix tokens.
//
// The order matters: RULE ([a-z]+) and TERM ([A-Z]+) must be tried before
// the single-character bracket rules so that, e.g., a body consisting only
// of ASCII letters is never misread as a bracket token (bracket characters
// don't overlap with letters, but keeping rule-before-bracket order mirrors
// ebnf.py's EBNFTokenizer construction order exactly).
func New() *lex.Tokenizer {
	tz := lex.New()

	must := func(pat string, sym symbol.Symbol) {
		if err := tz.AddRule(pat, sym); err != nil {
			// the rule set is fixed and known-good; a failure here is a
			// programming error, not a runtime condition.
			panic(err)
		}
	}

	must(`\s+`, nil)
	must(`[a-z]+`, symbol.Rule)
	must(`[A-Z]+`, symbol.Term)
	must(`"([^"]*)"`, symbol.Literal)
	must(`\{`, symbol.StartRepeat)
	must(`\}`, symbol.EndRepeat)
	must(`\(`, symbol.StartGroup)
	must(`\)`, symbol.EndGroup)
	must(`\[`, symbol.StartOptional)
	must(`\]`, symbol.EndOptional)
	must(`<`, symbol.StartAtLeast)
	must(`>`, symbol.EndAtLeast)
	must(`\|`, symbol.Or)
	must(`:=`, symbol.Define)
	must(`;`, symbol.EndDefine)
	must(`\*`, symbol.Rep)
	must(`\?`, symbol.Opt)
	must(`\+`, symbol.Atl)

	return tz
}

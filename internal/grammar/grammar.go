// Package grammar implements the grammar compiler of spec §4.5: it splits
// REBNF source into rules, dispatches each to the node builder (lower-case
// rule names) or to the target tokenizer (upper-case terminal names), and
// owns the resulting rule table, symbol table, and start rule.
package grammar

import (
	"strings"

	"github.com/dekarrin/rebnf/internal/icterrors"
	"github.com/dekarrin/rebnf/internal/lex"
	"github.com/dekarrin/rebnf/internal/metalex"
	"github.com/dekarrin/rebnf/internal/node"
	"github.com/dekarrin/rebnf/internal/symbol"
)

// targetWhitespace is registered on every compiled grammar's target
// tokenizer ahead of any of the grammar's own terminals, the way the source
// registers a skip rule on its target tokenizer before the user's rules (see
// EBNFParser.__init__). REBNF itself has no syntax for declaring
// insignificant whitespace in the target language, so this is not
// optional.
const targetWhitespace = `\s+`

// Grammar is the immutable result of compiling REBNF source: an ordered
// rule table, the symbol table it populated along the way, the name of the
// start rule, and the tokenizer constructed for the target language's
// terminals.
type Grammar struct {
	ruleOrder []string
	rules     map[string]*node.Node
	symbols   *symbol.Table
	start     string
	target    *lex.Tokenizer
}

// Rule returns the compiled parser-node tree for name, or nil if no such
// rule exists.
func (g *Grammar) Rule(name string) *node.Node {
	return g.rules[name]
}

// StartRule returns the name of the grammar's start rule: the first rule
// defined in source.
func (g *Grammar) StartRule() string {
	return g.start
}

// Symbols returns the symbol table populated during compilation.
func (g *Grammar) Symbols() *symbol.Table {
	return g.symbols
}

// TargetTokenizer returns the tokenizer built from the grammar's upper-case
// terminal definitions.
func (g *Grammar) TargetTokenizer() *lex.Tokenizer {
	return g.target
}

// RuleNames returns the rule names in the order they were defined.
func (g *Grammar) RuleNames() []string {
	out := make([]string, len(g.ruleOrder))
	copy(out, g.ruleOrder)
	return out
}

// Compile parses REBNF source text (§6.1) into a Grammar. Rules are
// separated by ';'; each is of the form "NAME := BODY". A lower-case NAME
// defines a non-terminal rule, compiled with the node builder (package
// node) against the meta-lexer's (package metalex) token stream for BODY.
// An upper-case NAME defines a terminal: its BODY is registered as a
// pattern on the target tokenizer. The first rule defined becomes the
// start rule.
func Compile(text string) (*Grammar, error) {
	g := &Grammar{
		rules:   make(map[string]*node.Node),
		symbols: symbol.NewTable(),
		target:  lex.New(),
	}
	if err := g.target.AddRule(targetWhitespace, nil); err != nil {
		return nil, err
	}

	meta := metalex.New()
	counters := node.NewCounters()

	for _, rawRule := range splitRules(text) {
		name, body, ok := splitDefine(rawRule)
		if !ok {
			continue
		}

		switch {
		case isLower(name):
			if _, already := g.rules[name]; already {
				return nil, &icterrors.DuplicateRuleError{Rule: name}
			}

			stream, err := meta.Tokenize(body)
			if err != nil {
				return nil, err
			}
			toks := drain(stream)

			root, remaining, err := node.Build(name, toks, nil, counters)
			if err != nil {
				return nil, err
			}
			if len(remaining) > 0 {
				return nil, &icterrors.GrammarSyntaxError{
					Rule: name,
					Msg:  "rule did not process correctly, tokens remained after parser-node build",
				}
			}

			g.rules[name] = root
			g.ruleOrder = append(g.ruleOrder, name)
			if _, err := g.symbols.Intern(name, false); err != nil {
				return nil, err
			}
			if g.start == "" {
				g.start = name
			}

		case isUpper(name):
			if g.symbols.Has(name) {
				return nil, &icterrors.RedefinedTerminalError{Name: name}
			}

			termSym, err := g.symbols.Intern(name, true)
			if err != nil {
				return nil, &icterrors.RedefinedTerminalError{Name: name}
			}
			if err := g.target.AddRule(strings.TrimSpace(body), termSym); err != nil {
				return nil, err
			}

		default:
			return nil, &icterrors.GrammarSyntaxError{
				Rule: name,
				Msg:  "rule name must be entirely lower-case or entirely upper-case",
			}
		}
	}

	// A rule body can reference a literal ("+" , "(" , ...) that was never
	// declared as a terminal; REBNF has no syntax to register its lexical
	// shape at all. Fall back to tokenizing the target language one
	// character at a time for anything the grammar's own terminals don't
	// claim first, so a quoted literal always has some token to compare its
	// lexeme against. This rule is lowest priority: any explicit terminal
	// pattern, tried first, wins a collision (e.g. a multi-character VAR
	// terminal still consumes greedily instead of falling through here).
	if err := g.target.AddRule(`(?s).`, symbol.Literal); err != nil {
		return nil, err
	}

	return g, nil
}

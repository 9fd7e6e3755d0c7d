// Package rebnf compiles REBNF grammars and matches target-language text
// against them, producing a Concrete Syntax Tree.
//
// A minimal grammar and an invocation against it:
//
//	g, err := rebnf.Compile(`expr := NUM { ("+"|"-") NUM }; NUM := [0-9]+;`)
//	if err != nil {
//		// handle grammar error
//	}
//	cst, _, err := g.Parse("1+2-3")
package rebnf

import (
	"github.com/dekarrin/rebnf/internal/grammar"
	"github.com/dekarrin/rebnf/internal/match"
	"github.com/dekarrin/rebnf/internal/token"
	"github.com/dekarrin/rebnf/internal/trace"
)

// CSTNode is one node of the Concrete Syntax Tree produced by a Grammar's
// Parse, either a terminal leaf carrying the matched token's lexeme or an
// interior node named for the rule or group that produced it.
type CSTNode = match.CSTNode

// Token is one lexeme read from target-language text during a Parse.
type Token = token.Token

// Grammar is a compiled REBNF grammar: a rule table, a symbol table, a
// start rule, and the tokenizer built from the grammar's terminal
// definitions. Parse is safe for concurrent use: Compile once, Parse as
// many times as needed from as many goroutines as needed, since each Parse
// builds its own Matcher. SetCollapse and SetMaxDepth modify the Grammar
// and are not synchronized with Parse.
type Grammar struct {
	compiled *grammar.Grammar
	collapse bool
	maxDepth int
}

// Compile parses REBNF source text into a Grammar. See §6.1 of the
// grammar's own worked examples for the exact source syntax: rules are
// separated by ';', each of the form "name := body" (lower-case name) or
// "NAME := pattern" (upper-case name, a target-language terminal pattern).
// The first rule defined becomes the start rule.
func Compile(source string) (*Grammar, error) {
	compiled, err := grammar.Compile(source)
	if err != nil {
		return nil, err
	}

	return &Grammar{compiled: compiled, collapse: true}, nil
}

// StartRule returns the name of the grammar's start rule.
func (g *Grammar) StartRule() string {
	return g.compiled.StartRule()
}

// RuleNames returns the grammar's rule names in definition order.
func (g *Grammar) RuleNames() []string {
	return g.compiled.RuleNames()
}

// SetCollapse enables or disables tree collapsing (spec §4.7): when
// enabled (the default), a rule-reference node whose CST has exactly one
// child is spliced in place of its wrapper, so chains of "pass-through"
// rules don't pad the tree with single-child nodes. Disabling it keeps
// one CST node per rule reference, which is sometimes useful when the
// rule name itself carries meaning a caller wants to inspect.
func (g *Grammar) SetCollapse(collapse bool) {
	g.collapse = collapse
}

// SetMaxDepth overrides the recursion bound Parse enforces against a
// pathological or accidentally left-recursive grammar. Zero restores the
// default.
func (g *Grammar) SetMaxDepth(depth int) {
	g.maxDepth = depth
}

func (g *Grammar) newMatcher() *match.Matcher {
	m := match.New(g.compiled)
	m.Collapse = g.collapse
	m.MaxDepth = g.maxDepth
	return m
}

// Parse tokenizes text with the grammar's target tokenizer, then matches
// the start rule against the resulting tokens, returning the CST and any
// tokens left unconsumed. A non-nil error is returned if tokenizing fails,
// if the start rule doesn't match, or if tokens remain once it does.
func (g *Grammar) Parse(text string) (*CSTNode, []Token, error) {
	return g.newMatcher().Parse(text)
}

// ParseTraced behaves like Parse but also returns the report log recorded
// during the attempt (spec §7): one line per rule visited, plus
// per-rule call counts and the deepest recursion level reached. This is
// the detail a caller wants when explaining why a parse took the shape it
// did, or failed where it did.
func (g *Grammar) ParseTraced(text string) (*CSTNode, []Token, *trace.Log, error) {
	m := g.newMatcher()
	m.Trace = trace.New()
	cst, remaining, err := m.Parse(text)
	return cst, remaining, m.Trace, err
}

// Package icterrors defines the error kinds raised by grammar compilation
// and CST matching. Each kind names the offending rule, symbol, or token so
// that a caller can build a user-facing message without re-deriving context.
package icterrors

import (
	"fmt"

	"github.com/dekarrin/rebnf/internal/token"
)

// DuplicateRuleError is raised when a grammar defines the same rule name
// twice.
type DuplicateRuleError struct {
	Rule string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule %q is already defined in this grammar", e.Rule)
}

// DuplicateSymbolError describes a name interned with a kind
// (terminal/non-terminal) that conflicts with an earlier interning. The
// symbol table reports that case with its own symbol.DuplicateSymbolError;
// nothing in this module constructs this type.
type DuplicateSymbolError struct {
	Name string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol %q cannot be redefined with a different kind", e.Name)
}

// RedefinedTerminalError is raised when an upper-case rule name is defined
// more than once as a terminal.
type RedefinedTerminalError struct {
	Name string
}

func (e *RedefinedTerminalError) Error() string {
	return fmt.Sprintf("terminal %q is already defined in this grammar", e.Name)
}

// GrammarSyntaxError is raised by the parser-node builder when REBNF source
// is malformed: a mismatched group closer, an illegal bracket/suffix mix, an
// empty group or rule body, or a rule body that ends inside an unclosed
// group.
type GrammarSyntaxError struct {
	Rule string
	Msg  string
}

func (e *GrammarSyntaxError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("grammar syntax error: %s", e.Msg)
	}
	return fmt.Sprintf("grammar syntax error in rule %q: %s", e.Rule, e.Msg)
}

// LexicalError is raised by a tokenizer when no rule's pattern matches at
// the current offset.
type LexicalError struct {
	Offset  int
	Preview string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at offset %d: no rule matches %q", e.Offset, e.Preview)
}

// UnexpectedEndOfInputError is returned by the matcher's Parse when the
// input produced no tokens at all and the start rule does not match empty
// input. A mandatory element that runs out of tokens partway through a
// non-empty input is not reported with this error; it is an ordinary
// non-match.
type UnexpectedEndOfInputError struct {
	Expected string
}

func (e *UnexpectedEndOfInputError) Error() string {
	return fmt.Sprintf("unexpected end of input, expected %s", e.Expected)
}

// RequiredGroupMissingError is raised by an at-least-once group that
// matched zero times.
type RequiredGroupMissingError struct {
	Rule string
	Tok  token.Token
}

func (e *RequiredGroupMissingError) Error() string {
	if e.Tok == nil {
		return fmt.Sprintf("expected at least one %s", e.Rule)
	}
	return fmt.Sprintf("expected at least one %s, found %s", e.Rule, e.Tok)
}

// UnconsumedInputError is raised when the top-level rule matches but tokens
// remain.
type UnconsumedInputError struct {
	Rule    string
	Leftover []token.Token
}

func (e *UnconsumedInputError) Error() string {
	preview := e.Leftover
	if len(preview) > 3 {
		preview = preview[:3]
	}
	return fmt.Sprintf("unconsumed input after matching %q: %v", e.Rule, preview)
}

// GrammarTooDeepError is raised when the matcher's recursion bound is
// exceeded, guarding against stack exhaustion on pathological grammars.
type GrammarTooDeepError struct {
	MaxDepth int
}

func (e *GrammarTooDeepError) Error() string {
	return fmt.Sprintf("grammar recursion exceeded maximum depth of %d", e.MaxDepth)
}

// SyntaxError is a general parse-time failure naming the rule being
// attempted and the token at which it occurred, used for the "doesn't make
// any sense here" style of message the matcher raises on a hard failure
// that isn't one of the more specific kinds above.
type SyntaxError struct {
	Rule string
	Msg  string
	Tok  token.Token
}

func (e *SyntaxError) Error() string {
	if e.Tok == nil {
		return fmt.Sprintf("syntax error in %q: %s", e.Rule, e.Msg)
	}
	return fmt.Sprintf("syntax error in %q: %s (at %s)", e.Rule, e.Msg, e.Tok)
}

// NewSyntaxErrorFromToken builds a SyntaxError whose message already
// contains rule context, the way internal/ictiobus's callers in the teacher
// codebase expect to construct one from a message and the offending token.
func NewSyntaxErrorFromToken(rule, msg string, tok token.Token) *SyntaxError {
	return &SyntaxError{Rule: rule, Msg: msg, Tok: tok}
}

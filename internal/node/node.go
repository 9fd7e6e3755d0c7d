// Package node implements the parser-node builder of spec §4.4: folding the
// meta-tokens of one grammar rule into a tree of parser nodes, handling
// grouping, alternation, and suffix/bracket quantification.
package node

import (
	"fmt"

	"github.com/dekarrin/rebnf/internal/icterrors"
	"github.com/dekarrin/rebnf/internal/symbol"
	"github.com/dekarrin/rebnf/internal/token"
)

// Kind classifies a Node's matching behavior, replacing the duck-typed
// attribute flags (.alternate, .optional, ...) of the original Python
// implementation with a single exhaustive tag per spec Design Notes.
type Kind int

const (
	// Sequence matches all children in order.
	Sequence Kind = iota
	// Alternating splits children on Or-marker children into alternatives;
	// the first alternative that fully matches wins.
	Alternating
	// Repeating matches the child sequence zero or more times.
	Repeating
	// Optional matches the child sequence zero or one times.
	Optional
	// AtLeastOnce matches the child sequence one or more times.
	AtLeastOnce
	// RuleRef is a leaf referring to another rule by name (lower-case
	// identifier).
	RuleRef
	// LiteralMatch is a leaf matching a token by exact lexeme ("...").
	LiteralMatch
	// TermMatch is a leaf matching a token by terminal symbol name
	// (upper-case identifier).
	TermMatch
	// OrSeparator tags the synthetic children an Alternating node keeps in
	// place of its OR meta-tokens; match-time code splits on these and
	// never matches them directly.
	OrSeparator
)

func (k Kind) String() string {
	switch k {
	case Sequence:
		return "SEQUENCE"
	case Alternating:
		return "ALTERNATING"
	case Repeating:
		return "REPEATING"
	case Optional:
		return "OPTIONAL"
	case AtLeastOnce:
		return "ATLEASTONCE"
	case RuleRef:
		return "RULE"
	case LiteralMatch:
		return "LITERAL"
	case TermMatch:
		return "TERM"
	case OrSeparator:
		return "OR"
	default:
		return "UNKNOWN"
	}
}

// Node is one compiled fragment of a grammar rule: a Name (the
// rule/literal/term name for leaves, or the synthesized group name for
// composites) plus any children. Every non-leaf Node has at least
// one child; an Alternating node keeps its Or-marker children so match-time
// code can re-split on them.
type Node struct {
	Name     string
	Kind     Kind
	Children []*Node

	// OrMarker is true for the synthetic children inserted in place of an
	// OR meta-token inside an Alternating node; match-time code splits on
	// these rather than re-scanning for the OR symbol.
	OrMarker bool
}

func leaf(kind Kind, name string) *Node {
	return &Node{Name: name, Kind: kind}
}

// Counters scopes the per-rule group-naming counter (spec Design Notes:
// "the source uses a global which is a latent bug when compiling multiple
// grammars") to whichever Counters value the caller passes to Build rather
// than a package-level variable; grammar.Compile shares one Counters across
// all the rules of a single compile.
type Counters struct {
	byBaseName map[string]int
}

// NewCounters returns a fresh, zeroed Counters.
func NewCounters() *Counters {
	return &Counters{byBaseName: make(map[string]int)}
}

func (c *Counters) next(baseName string) int {
	c.byBaseName[baseName]++
	return c.byBaseName[baseName]
}

var seqMap = map[symbol.Symbol]Kind{
	symbol.StartGroup:    Sequence,
	symbol.StartRepeat:   Repeating,
	symbol.StartOptional: Optional,
	symbol.StartAtLeast:  AtLeastOnce,
}

var suffixMap = map[symbol.Symbol]Kind{
	symbol.Rep: Repeating,
	symbol.Opt: Optional,
	symbol.Atl: AtLeastOnce,
}

var closerFor = map[symbol.Symbol]symbol.Symbol{
	symbol.StartGroup:    symbol.EndGroup,
	symbol.StartRepeat:   symbol.EndRepeat,
	symbol.StartOptional: symbol.EndOptional,
	symbol.StartAtLeast:  symbol.EndAtLeast,
}

func isOpener(sym symbol.Symbol) bool {
	_, ok := seqMap[sym]
	return ok
}

func isCloser(sym symbol.Symbol) bool {
	switch sym {
	case symbol.EndGroup, symbol.EndRepeat, symbol.EndOptional, symbol.EndAtLeast:
		return true
	}
	return false
}

func isSuffix(sym symbol.Symbol) bool {
	_, ok := suffixMap[sym]
	return ok
}

// bracketedAlready reports whether closer is one that already implies
// quantification ({...} or [...]), making a trailing suffix illegal. (...)
// and <...> carry no implicit quantification, so a suffix on them is fine.
func bracketedAlready(closer symbol.Symbol) bool {
	return closer == symbol.EndRepeat || closer == symbol.EndOptional
}

// Build folds metaTokens (the tokens of one rule's body, as produced by
// package metalex) into a Node tree rooted at a Sequence named ruleName. It
// implements spec §4.4 exactly, including suffix rewriting and the
// illegal-bracket-and-suffix-mix check. endSym is the meta-symbol that
// should close this invocation's group (nil at the top level of a rule);
// Build returns any meta-tokens left over after its closer (empty at the
// top level — leftover tokens there are the grammar compiler's problem to
// reject).
func Build(ruleName string, metaTokens []token.Token, endSym symbol.Symbol, counters *Counters) (*Node, []token.Token, error) {
	this := &Node{Name: ruleName, Kind: Sequence}

	toks := metaTokens
	for len(toks) > 0 {
		first := toks[0]
		sym := first.Symbol()

		switch {
		case isOpener(sym):
			baseName := baseOf(ruleName)
			childName := fmt.Sprintf("%s-%d", baseName, counters.next(baseName))

			child, rest, err := Build(childName, toks[1:], closerFor[sym], counters)
			if err != nil {
				return nil, nil, err
			}
			if child != nil {
				kind := seqMap[sym]
				if len(rest) > 0 && isSuffix(rest[0].Symbol()) {
					if bracketedAlready(closerFor[sym]) {
						return nil, nil, &icterrors.GrammarSyntaxError{
							Rule: ruleName,
							Msg:  "illegal mix of brackets and suffixes",
						}
					}
					kind = suffixMap[rest[0].Symbol()]
					rest = rest[1:]
				}
				switch {
				case kind == Sequence:
					// a plain (...) group keeps the kind Build gave it,
					// Sequence or Alternating.
				case child.Kind == Alternating:
					// a quantified alternation keeps its Alternating node
					// as the single child of a node of the quantifier's kind.
					child = &Node{Name: child.Name, Kind: kind, Children: []*Node{child}}
				default:
					child.Kind = kind
				}
				this.Children = append(this.Children, child)
			}
			toks = rest

		case isCloser(sym):
			if endSym == nil || !endSym.Equal(sym) {
				expected := "none"
				if endSym != nil {
					expected = endSym.Name()
				}
				return nil, nil, &icterrors.GrammarSyntaxError{
					Rule: ruleName,
					Msg:  fmt.Sprintf("expected %s, got %s", expected, sym.Name()),
				}
			}

			if len(this.Children) == 0 {
				return nil, nil, &icterrors.GrammarSyntaxError{Rule: ruleName, Msg: "empty group"}
			}

			// Kind and any trailing suffix are the opener branch's job: it
			// is the only caller with both the bracket type (for
			// bracketedAlready) and the tokens just past this closer.
			return this, toks[1:], nil

		case sym.Equal(symbol.Or):
			this.Kind = Alternating
			this.Children = append(this.Children, &Node{Name: "|", Kind: OrSeparator, OrMarker: true})
			toks = toks[1:]

		default:
			this.Children = append(this.Children, leafFor(first))
			toks = toks[1:]
		}
	}

	if endSym != nil {
		return nil, nil, &icterrors.GrammarSyntaxError{
			Rule: ruleName,
			Msg:  fmt.Sprintf("expected %s, got end of rule", endSym.Name()),
		}
	}
	if len(this.Children) == 0 {
		return nil, nil, &icterrors.GrammarSyntaxError{Rule: ruleName, Msg: "empty rule body"}
	}

	return this, toks, nil
}

func leafFor(t token.Token) *Node {
	switch {
	case t.Symbol().Equal(symbol.Rule):
		return leaf(RuleRef, t.Lexeme())
	case t.Symbol().Equal(symbol.Literal):
		return leaf(LiteralMatch, t.Lexeme())
	default:
		// any other upper-case terminal, including TERM
		return leaf(TermMatch, t.Lexeme())
	}
}

// baseOf strips any existing "-N" disambiguation suffix from a rule name so
// nested groups within a synthesized group name (e.g. "expr-1") still count
// against the original rule's counter ("expr"), matching ebnf.py's
// `name.split('-')[0]`.
func baseOf(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '-' {
			return name[:i]
		}
	}
	return name
}

// Package match implements the recursive-descent CST matcher of spec §4.6:
// driven by the parser-node trees the node package builds, it consumes a
// token stream and emits a CSTNode tree, backtracking through explicit
// (ok, node, remaining) returns rather than exceptions.
package match

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rebnf/internal/grammar"
	"github.com/dekarrin/rebnf/internal/icterrors"
	"github.com/dekarrin/rebnf/internal/node"
	"github.com/dekarrin/rebnf/internal/token"
	"github.com/dekarrin/rebnf/internal/trace"
)

// defaultMaxDepth bounds match recursion so a pathological or accidentally
// left-recursive grammar fails with GrammarTooDeepError instead of
// exhausting the goroutine stack.
const defaultMaxDepth = 500

// CSTNode is one node of a Concrete Syntax Tree: either a terminal leaf
// carrying the Token it was matched from, or an interior node named for the
// rule or group that produced it.
type CSTNode struct {
	// Terminal is whether this node wraps a matched Token directly, as
	// opposed to being a rule/group's interior node.
	Terminal bool

	// Value is the rule name, group name, or (for a terminal node) the
	// lexeme of the token this node wraps.
	Value string

	// Source is the Token this node was matched from. Only meaningful when
	// Terminal is true.
	Source token.Token

	// Children is this node's children, in input order.
	Children []*CSTNode
}

// String returns a prettified, indented representation of the tree suitable
// for line-by-line comparison in tests.
func (c *CSTNode) String() string {
	return c.leveledStr("", "")
}

func (c *CSTNode) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)
	if c.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", c.Value))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", c.Value))
	}

	for i, child := range c.Children {
		sb.WriteRune('\n')
		var nextFirst, nextCont string
		if i+1 < len(c.Children) {
			nextFirst = contPrefix + "  |-: "
			nextCont = contPrefix + "  |     "
		} else {
			nextFirst = contPrefix + `  \-: `
			nextCont = contPrefix + "        "
		}
		sb.WriteString(child.leveledStr(nextFirst, nextCont))
	}

	return sb.String()
}

// Copy returns a duplicate, deeply-copied CST.
func (c *CSTNode) Copy() *CSTNode {
	if c == nil {
		return nil
	}
	cp := &CSTNode{Terminal: c.Terminal, Value: c.Value, Source: c.Source}
	cp.Children = make([]*CSTNode, len(c.Children))
	for i, child := range c.Children {
		cp.Children[i] = child.Copy()
	}
	return cp
}

// Equal reports whether o is a *CSTNode with identical structure. Two trees
// are considered equal iff they produce the same leaf tokens in the same
// order under the same naming at every level.
func (c *CSTNode) Equal(o any) bool {
	other, ok := o.(*CSTNode)
	if !ok || other == nil || c == nil {
		return ok && other == c
	}
	if c.Terminal != other.Terminal || c.Value != other.Value {
		return false
	}
	if len(c.Children) != len(other.Children) {
		return false
	}
	for i := range c.Children {
		if !c.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Matcher runs a compiled Grammar's rules against a token sequence to
// produce a CSTNode, per spec §4.6-4.7.
type Matcher struct {
	g *grammar.Grammar

	// Collapse enables tree collapsing (§4.7): a rule-reference match whose
	// CST has exactly one child is spliced in place of its wrapper. Defaults
	// to true.
	Collapse bool

	// MaxDepth bounds match recursion (§5's recursion-depth discipline).
	// Zero means defaultMaxDepth.
	MaxDepth int

	// Trace, if non-nil, receives a report line for every rule match
	// attempt, plus call counts and the deepest recursion level reached.
	Trace *trace.Log
}

// New returns a Matcher for g with collapsing enabled and the default
// recursion bound.
func New(g *grammar.Grammar) *Matcher {
	return &Matcher{g: g, Collapse: true}
}

func (m *Matcher) maxDepth() int {
	if m.MaxDepth > 0 {
		return m.MaxDepth
	}
	return defaultMaxDepth
}

// Parse tokenizes text with the grammar's target tokenizer, then matches
// the start rule against the resulting tokens. If the match succeeds but
// tokens remain, it returns an *icterrors.UnconsumedInputError.
func (m *Matcher) Parse(text string) (*CSTNode, []token.Token, error) {
	stream, err := m.g.TargetTokenizer().Tokenize(text)
	if err != nil {
		return nil, nil, err
	}

	var toks []token.Token
	for stream.HasNext() {
		toks = append(toks, stream.Next())
	}

	start := m.g.StartRule()
	if start == "" {
		return nil, toks, &icterrors.GrammarSyntaxError{Msg: "grammar has no start rule"}
	}

	ok, cst, remaining, err := m.matchRule(start, toks, 0)
	if err != nil {
		return nil, remaining, err
	}
	if !ok {
		if len(toks) == 0 {
			return nil, remaining, &icterrors.UnexpectedEndOfInputError{Expected: start}
		}
		return nil, remaining, &icterrors.SyntaxError{Rule: start, Msg: "input does not match start rule"}
	}
	if len(remaining) > 0 {
		return cst, remaining, &icterrors.UnconsumedInputError{Rule: start, Leftover: remaining}
	}
	return cst, remaining, nil
}

func (m *Matcher) report(depth int, parts ...string) {
	m.Trace.Line(depth, parts...)
}

// matchRule looks up rule and matches it against toks, guarding against
// runaway recursion.
func (m *Matcher) matchRule(rule string, toks []token.Token, depth int) (bool, *CSTNode, []token.Token, error) {
	if depth > m.maxDepth() {
		return false, nil, toks, &icterrors.GrammarTooDeepError{MaxDepth: m.maxDepth()}
	}
	m.Trace.Count(rule)
	m.Trace.Observe(depth)

	root := m.g.Rule(rule)
	if root == nil {
		return false, nil, toks, &icterrors.GrammarSyntaxError{Rule: rule, Msg: "no rule is defined with this name"}
	}

	preview := "<end of input>"
	if len(toks) > 0 {
		preview = toks[0].Lexeme()
	}
	m.report(depth, "rule:", rule, "against", preview)

	return m.match(root, toks, depth+1)
}

// match dispatches n to the handler for its Kind. Each handler is
// responsible for its own empty-token behavior; matchSequence already
// resolves the non-optional-child-with-no-tokens case for every composite
// kind before calling down into a leaf, so a bare leaf is never actually
// dispatched here with an empty toks.
func (m *Matcher) match(n *node.Node, toks []token.Token, depth int) (bool, *CSTNode, []token.Token, error) {
	switch n.Kind {
	case node.RuleRef:
		return m.matchRuleRef(n, toks, depth)
	case node.LiteralMatch:
		return m.matchLiteral(n, toks)
	case node.TermMatch:
		return m.matchTerm(n, toks)
	case node.Sequence:
		return m.matchSequenceNode(n, toks, depth)
	case node.Alternating:
		return m.matchAlternating(n, toks, depth)
	case node.Optional:
		return m.matchOptional(n, toks, depth)
	case node.Repeating:
		return m.matchRepeating(n, toks, depth)
	case node.AtLeastOnce:
		return m.matchAtLeastOnce(n, toks, depth)
	default:
		return false, nil, toks, &icterrors.GrammarSyntaxError{Rule: n.Name, Msg: "parser node has no recognized kind"}
	}
}

func (m *Matcher) matchRuleRef(n *node.Node, toks []token.Token, depth int) (bool, *CSTNode, []token.Token, error) {
	ok, child, rem, err := m.matchRule(n.Name, toks, depth+1)
	if err != nil || !ok {
		return false, nil, toks, err
	}

	wrapper := &CSTNode{Value: n.Name}
	if m.Collapse && len(child.Children) == 1 {
		wrapper.Children = []*CSTNode{child.Children[0]}
	} else {
		wrapper.Children = []*CSTNode{child}
	}
	return true, wrapper, rem, nil
}

func (m *Matcher) matchLiteral(n *node.Node, toks []token.Token) (bool, *CSTNode, []token.Token, error) {
	if len(toks) == 0 || toks[0].Lexeme() != n.Name {
		return false, nil, toks, nil
	}
	wrapper := &CSTNode{Value: n.Name}
	wrapper.Children = []*CSTNode{{Terminal: true, Value: toks[0].Lexeme(), Source: toks[0]}}
	return true, wrapper, toks[1:], nil
}

func (m *Matcher) matchTerm(n *node.Node, toks []token.Token) (bool, *CSTNode, []token.Token, error) {
	if len(toks) == 0 || toks[0].Symbol() == nil || toks[0].Symbol().Name() != n.Name {
		return false, nil, toks, nil
	}
	wrapper := &CSTNode{Value: n.Name}
	wrapper.Children = []*CSTNode{{Terminal: true, Value: toks[0].Lexeme(), Source: toks[0]}}
	return true, wrapper, toks[1:], nil
}

func (m *Matcher) matchSequenceNode(n *node.Node, toks []token.Token, depth int) (bool, *CSTNode, []token.Token, error) {
	ok, found, rem, err := m.matchSequence(n.Name, n.Children, toks, depth)
	if err != nil {
		return false, nil, toks, err
	}
	if !ok {
		return false, nil, toks, nil
	}
	return true, &CSTNode{Value: n.Name, Children: found}, rem, nil
}

// matchSequence matches children strictly in order against toks. A mandatory
// child that fails to match aborts the whole sequence, restoring toks to its
// state at entry. An Optional or Repeating child that fails to match
// contributes nothing and does not abort (spec §9's resolution of the
// zero-match ambiguity in the original matcher).
func (m *Matcher) matchSequence(name string, children []*node.Node, toks []token.Token, depth int) (bool, []*CSTNode, []token.Token, error) {
	m.Trace.Count("match_sequence")
	orig := toks
	var found []*CSTNode

	for _, child := range children {
		if child.Kind == node.OrSeparator {
			continue
		}

		if len(toks) == 0 {
			if child.Kind == node.AtLeastOnce {
				return false, nil, orig, &icterrors.RequiredGroupMissingError{Rule: child.Name}
			}
			if child.Kind == node.Optional || child.Kind == node.Repeating {
				continue
			}
			return false, nil, orig, nil
		}

		ok, cst, rem, err := m.match(child, toks, depth+1)
		if err != nil {
			return false, nil, orig, err
		}
		if !ok {
			if child.Kind == node.Optional || child.Kind == node.Repeating {
				continue
			}
			return false, nil, orig, nil
		}

		found = append(found, cst.Children...)
		toks = rem
	}

	return true, found, toks, nil
}

func (m *Matcher) matchAlternating(n *node.Node, toks []token.Token, depth int) (bool, *CSTNode, []token.Token, error) {
	m.Trace.Count("match_alternate")

	alternatives := splitByOr(n.Children)
	snapshot := toks

	for _, alt := range alternatives {
		ok, found, rem, err := m.matchSequence(n.Name, alt, snapshot, depth+1)
		if err != nil {
			return false, nil, toks, err
		}
		if ok {
			return true, &CSTNode{Value: n.Name, Children: found}, rem, nil
		}
	}

	return false, nil, toks, nil
}

// splitByOr splits children on OrSeparator markers into alternatives,
// dropping the markers themselves.
func splitByOr(children []*node.Node) [][]*node.Node {
	var alternatives [][]*node.Node
	var current []*node.Node

	for _, child := range children {
		if child.Kind == node.OrSeparator {
			alternatives = append(alternatives, current)
			current = nil
			continue
		}
		current = append(current, child)
	}
	alternatives = append(alternatives, current)

	return alternatives
}

func (m *Matcher) matchOptional(n *node.Node, toks []token.Token, depth int) (bool, *CSTNode, []token.Token, error) {
	m.Trace.Count("match_optional")

	ok, found, rem, err := m.matchSequence(n.Name, n.Children, toks, depth+1)
	if err != nil {
		return false, nil, toks, err
	}
	if !ok {
		return false, nil, toks, nil
	}
	return true, &CSTNode{Value: n.Name, Children: found}, rem, nil
}

func (m *Matcher) matchRepeating(n *node.Node, toks []token.Token, depth int) (bool, *CSTNode, []token.Token, error) {
	m.Trace.Count("match_repeating")

	var found []*CSTNode
	for {
		ok, addends, rem, err := m.matchSequence(n.Name, n.Children, toks, depth+1)
		if err != nil {
			return false, nil, toks, err
		}
		if !ok {
			break
		}
		found = append(found, addends...)
		toks = rem
	}

	if len(found) == 0 {
		return false, nil, toks, nil
	}
	return true, &CSTNode{Value: n.Name, Children: found}, toks, nil
}

func (m *Matcher) matchAtLeastOnce(n *node.Node, toks []token.Token, depth int) (bool, *CSTNode, []token.Token, error) {
	m.Trace.Count("match_one_or_more")

	ok, found, rem, err := m.matchSequence(n.Name, n.Children, toks, depth+1)
	if err != nil {
		return false, nil, toks, err
	}
	if !ok {
		return false, nil, toks, &icterrors.RequiredGroupMissingError{Rule: n.Name}
	}
	toks = rem

	for {
		ok, addends, rem, err := m.matchSequence(n.Name, n.Children, toks, depth+1)
		if err != nil {
			return false, nil, toks, err
		}
		if !ok {
			break
		}
		found = append(found, addends...)
		toks = rem
	}

	return true, &CSTNode{Value: n.Name, Children: found}, toks, nil
}

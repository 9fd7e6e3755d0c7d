// Package symbol implements the identity layer for grammar symbols:
// terminals (named by the target tokenizer) and non-terminals (named by
// grammar rules). Symbols are value types compared by name; a Table keeps
// one canonical instance per name for a single compiled grammar.
package symbol

import "fmt"

// Symbol identifies a terminal or non-terminal of a grammar by name. Two
// Symbols are equal iff their names match; Terminal-ness is part of a
// Symbol's identity but is not itself compared by Equal (a Table will
// refuse to register the same name twice with different Terminal values).
type Symbol interface {
	// Name returns the symbol's name as it appears in REBNF source.
	Name() string

	// Terminal returns whether the symbol is a terminal (defined by the
	// target tokenizer) as opposed to a non-terminal (defined by a grammar
	// rule).
	Terminal() bool

	// Equal returns whether o is a Symbol with the same Name.
	Equal(o any) bool

	String() string
}

type symbol struct {
	name     string
	terminal bool
}

func (s symbol) Name() string   { return s.name }
func (s symbol) Terminal() bool { return s.terminal }
func (s symbol) String() string { return s.name }

func (s symbol) Equal(o any) bool {
	other, ok := o.(Symbol)
	if !ok {
		otherPtr, ok := o.(*Symbol)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return other.Name() == s.name
}

// New returns a Symbol with the given name and terminal-ness, bypassing any
// Table. Most callers should prefer a Table's Intern so that duplicate
// registration is caught.
func New(name string, terminal bool) Symbol {
	return symbol{name: name, terminal: terminal}
}

// DuplicateSymbolError is returned by Table.Intern when name is already
// registered with a different terminal-ness than requested.
type DuplicateSymbolError struct {
	Name string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol %q is already registered with a different kind", e.Name)
}

// Table is a registry of interned Symbols, scoped to one compiled grammar.
// No name may be registered twice with conflicting Terminal values.
type Table struct {
	byName map[string]Symbol
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{byName: make(map[string]Symbol)}
}

// Intern returns the canonical Symbol for name, registering it with the
// given terminal-ness if it has not been seen before. If name was already registered with a
// different terminal-ness, this returns a *DuplicateSymbolError. Re-interning
// the same name with the same terminal-ness is a no-op that returns the
// existing Symbol.
func (t *Table) Intern(name string, terminal bool) (Symbol, error) {
	if existing, ok := t.byName[name]; ok {
		if existing.Terminal() != terminal {
			return nil, &DuplicateSymbolError{Name: name}
		}
		return existing, nil
	}

	s := New(name, terminal)
	t.byName[name] = s
	return s, nil
}

// Lookup returns the interned Symbol for name, if any.
func (t *Table) Lookup(name string) (Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Has returns whether name has been interned, regardless of kind.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Reserved structural symbol names for the kinds of composite parser-node.
// These are never produced by REBNF source directly. The node package tags
// composite kinds with node.Kind instead, and nothing in this module uses
// these values.
var (
	Sequence    Symbol = New("SEQUENCE", false)
	Alternating Symbol = New("ALTERNATING", false)
	Repeating   Symbol = New("REPEATING", false)
	Optional    Symbol = New("OPTIONAL", false)
	AtLeastOnce Symbol = New("ATLEASTONCE", false)
)

// Reserved meta-lexer symbols, produced by the REBNF meta-grammar lexer
// (see the metalex package) and consumed by the node builder.
var (
	StartRepeat   Symbol = New("STARTREPEAT", true)
	EndRepeat     Symbol = New("ENDREPEAT", true)
	StartGroup    Symbol = New("STARTGROUP", true)
	EndGroup      Symbol = New("ENDGROUP", true)
	StartOptional Symbol = New("STARTOPTIONAL", true)
	EndOptional   Symbol = New("ENDOPTIONAL", true)
	StartAtLeast  Symbol = New("STARTATL", true)
	EndAtLeast    Symbol = New("ENDATL", true)
	Or            Symbol = New("OR", true)
	Rep           Symbol = New("REP", true)
	Opt           Symbol = New("OPT", true)
	Atl           Symbol = New("ATL", true)
	Literal       Symbol = New("LITERAL", true)
	Rule          Symbol = New("RULE", true)
	Term          Symbol = New("TERM", true)
	Define        Symbol = New("DEFINE", true)
	EndDefine     Symbol = New("ENDDEFINE", true)
)

// EndOfText is the sentinel symbol carried by the token returned once a
// token.Stream is exhausted.
var EndOfText Symbol = New("$", true)

// Package token defines the uniform token record produced by the generic
// tokenizer and consumed by the grammar compiler and CST matcher.
package token

import (
	"fmt"

	"github.com/dekarrin/rebnf/internal/symbol"
)

// Token is a lexeme read from text combined with the Symbol it was lexed
// as. Tokens are immutable once created.
type Token interface {
	// Symbol returns the Symbol this Token was lexed as.
	Symbol() symbol.Symbol

	// Lexeme returns the literal text this Token was lexed from.
	Lexeme() string

	// Start returns the byte offset of the first rune of Lexeme in the
	// originating text.
	Start() int

	// End returns the byte offset one past the last rune of Lexeme in the
	// originating text.
	End() int

	String() string
}

type tok struct {
	sym    symbol.Symbol
	lexeme string
	start  int
	end    int
}

// New returns a Token with the given fields.
func New(sym symbol.Symbol, lexeme string, start, end int) Token {
	return tok{sym: sym, lexeme: lexeme, start: start, end: end}
}

func (t tok) Symbol() symbol.Symbol { return t.sym }
func (t tok) Lexeme() string        { return t.lexeme }
func (t tok) Start() int            { return t.start }
func (t tok) End() int              { return t.end }

func (t tok) String() string {
	name := "<nil>"
	if t.sym != nil {
		name = t.sym.Name()
	}
	return fmt.Sprintf("%s(%q)@%d:%d", name, t.lexeme, t.start, t.end)
}

// EndOfText returns a Token marking the end of a token stream, positioned
// at the given offset.
func EndOfText(at int) Token {
	return tok{sym: symbol.EndOfText, start: at, end: at}
}

// Stream is a read-once, peekable sequence of Tokens.
type Stream interface {
	// Next returns the next Token in the stream and advances it. Once the
	// stream is exhausted, Next returns an EndOfText token indefinitely.
	Next() Token

	// Peek returns the next Token without advancing the stream.
	Peek() Token

	// HasNext returns whether there is at least one more non-EndOfText
	// token remaining.
	HasNext() bool

	// Remaining returns the tokens not yet consumed, not including the
	// trailing EndOfText sentinel.
	Remaining() []Token
}

// SliceStream is a Stream backed by a fixed, pre-lexed slice of tokens. This
// is the only Stream implementation the core needs: per §5, parsing is
// entirely in-memory and CPU-bound, so there is no benefit to lazily
// producing tokens on demand.
type SliceStream struct {
	toks []Token
	cur  int
}

// NewSliceStream returns a Stream over toks. toks should not include a
// trailing EndOfText marker; one is synthesized once the slice is
// exhausted.
func NewSliceStream(toks []Token) *SliceStream {
	return &SliceStream{toks: toks}
}

func (s *SliceStream) Next() Token {
	t := s.Peek()
	if s.cur < len(s.toks) {
		s.cur++
	}
	return t
}

func (s *SliceStream) Peek() Token {
	if s.cur >= len(s.toks) {
		at := 0
		if len(s.toks) > 0 {
			at = s.toks[len(s.toks)-1].End()
		}
		return EndOfText(at)
	}
	return s.toks[s.cur]
}

func (s *SliceStream) HasNext() bool {
	return s.cur < len(s.toks)
}

func (s *SliceStream) Remaining() []Token {
	rest := make([]Token, len(s.toks)-s.cur)
	copy(rest, s.toks[s.cur:])
	return rest
}

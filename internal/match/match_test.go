package match

import (
	"testing"

	"github.com/dekarrin/rebnf/internal/grammar"
	"github.com/dekarrin/rebnf/internal/icterrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leaves flattens a CST's terminal nodes, in input order.
func leaves(n *CSTNode) []string {
	if n == nil {
		return nil
	}
	if n.Terminal {
		return []string{n.Value}
	}
	var out []string
	for _, child := range n.Children {
		out = append(out, leaves(child)...)
	}
	return out
}

func Test_Parse_arithmetic(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	src := `
		expr := term {("+"|"-") term};
		term := factor {("*"|"/") factor};
		factor := INTEGER | "(" expr ")";
		INTEGER := [0-9]+;
	`

	g, err := grammar.Compile(src)
	require.NoError(err)

	cst, remaining, err := New(g).Parse("2*(7+3)")
	require.NoError(err)
	assert.Empty(remaining)
	assert.Equal([]string{"2", "*", "(", "7", "+", "3", ")"}, leaves(cst))
}

func Test_Parse_assignmentProgram(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	src := `
		statements := assignment { assignment };
		assignment := VAR STORE expr STOP;
		expr := term {(PLUS | MINUS) term};
		term := factor {(MUL | DIV) factor};
		factor := INTEGER | VAR | OP expr CP;
		VAR := [a-z]+;
		INTEGER := [0-9]+;
		STORE := <-;
		PLUS := [+];
		MINUS := [\-];
		MUL := [*];
		DIV := [/];
		STOP := [.];
		OP := [(];
		CP := [)];
	`

	g, err := grammar.Compile(src)
	require.NoError(err)

	cst, remaining, err := New(g).Parse("a <- 2*7+3*2 . \nb<-a/2.")
	require.NoError(err)
	assert.Empty(remaining)
	require.Len(cst.Children, 2, "two assignment subtrees")
}

func Test_Parse_alternationFirstMatchWins(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	src := `r := "a" | "ab";`

	g, err := grammar.Compile(src)
	require.NoError(err)

	_, remaining, err := New(g).Parse("ab")
	require.Error(err)
	assert.IsType(&icterrors.UnconsumedInputError{}, err)
	require.Len(remaining, 1)
	assert.Equal("b", remaining[0].Lexeme())
}

func Test_Parse_repeatWithAlternation(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	src := `as := "a" {("b"|"c")};`

	g, err := grammar.Compile(src)
	require.NoError(err)

	cst, remaining, err := New(g).Parse("a b c b")
	require.NoError(err)
	assert.Empty(remaining)
	assert.Equal([]string{"a", "b", "c", "b"}, leaves(cst))
}

func Test_Parse_atLeastOnceFailure(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	src := `r := < "a" >;`

	g, err := grammar.Compile(src)
	require.NoError(err)

	_, _, err = New(g).Parse("")
	require.Error(err)
	assert.IsType(&icterrors.RequiredGroupMissingError{}, err)
}

func Test_Parse_emptyOptionalRuleMatchesEmptyInput(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	src := `r := ["a"];`

	g, err := grammar.Compile(src)
	require.NoError(err)

	cst, remaining, err := New(g).Parse("")
	require.NoError(err)
	assert.Empty(remaining)
	assert.Empty(cst.Children)
}

func Test_Parse_collapseSplicesUnaryChains(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	src := `
		expr := term;
		term := factor;
		factor := INTEGER;
		INTEGER := [0-9]+;
	`

	g, err := grammar.Compile(src)
	require.NoError(err)

	m := New(g)
	cst, _, err := m.Parse("5")
	require.NoError(err)
	require.Len(cst.Children, 1)
	assert.True(cst.Children[0].Terminal)
	assert.Equal("5", cst.Children[0].Value)
}

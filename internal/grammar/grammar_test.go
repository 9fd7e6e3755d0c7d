package grammar

import (
	"testing"

	"github.com/dekarrin/rebnf/internal/icterrors"
	"github.com/dekarrin/rebnf/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile_simpleGrammar(t *testing.T) {
	assert := assert.New(t)

	src := `
		expr := TERM;
		TERM := [0-9]+;
	`

	g, err := Compile(src)
	require.NoError(t, err)
	assert.Equal("expr", g.StartRule())
	assert.Equal([]string{"expr"}, g.RuleNames())

	r := g.Rule("expr")
	require.NotNil(t, r)
	assert.Equal(node.Sequence, r.Kind)

	sym, ok := g.Symbols().Lookup("TERM")
	require.True(t, ok)
	assert.True(sym.Terminal())
}

func Test_Compile_firstRuleIsStart(t *testing.T) {
	assert := assert.New(t)

	src := `
		second := "b";
		first := "a";
	`

	g, err := Compile(src)
	require.NoError(t, err)
	assert.Equal("second", g.StartRule())
	assert.Equal([]string{"second", "first"}, g.RuleNames())
}

func Test_Compile_duplicateRule(t *testing.T) {
	assert := assert.New(t)

	src := `
		expr := "a";
		expr := "b";
	`

	_, err := Compile(src)
	require.Error(t, err)
	assert.IsType(&icterrors.DuplicateRuleError{}, err)
}

func Test_Compile_redefinedTerminal(t *testing.T) {
	assert := assert.New(t)

	src := `
		NUM := [0-9]+;
		NUM := [a-z]+;
	`

	_, err := Compile(src)
	require.Error(t, err)
	assert.IsType(&icterrors.RedefinedTerminalError{}, err)
}

func Test_Compile_mixedCaseRuleName(t *testing.T) {
	assert := assert.New(t)

	src := `Expr := "a";`

	_, err := Compile(src)
	require.Error(t, err)
	assert.IsType(&icterrors.GrammarSyntaxError{}, err)
}

func Test_Compile_terminalTargetTokenizerIsWired(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	src := `
		expr := NUM;
		NUM := [0-9]+;
	`

	g, err := Compile(src)
	require.NoError(err)

	stream, err := g.TargetTokenizer().Tokenize("42")
	require.NoError(err)
	require.True(stream.HasNext())
	tok := stream.Next()
	assert.Equal("NUM", tok.Symbol().Name())
	assert.Equal("42", tok.Lexeme())
}

func Test_Compile_emptySourceHasNoStartRule(t *testing.T) {
	assert := assert.New(t)

	g, err := Compile("")
	require.NoError(t, err)
	assert.Equal("", g.StartRule())
	assert.Empty(g.RuleNames())
}

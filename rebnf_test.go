package rebnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile_andParse(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Compile(`expr := NUM {("+"|"-") NUM}; NUM := [0-9]+;`)
	require.NoError(err)
	assert.Equal("expr", g.StartRule())

	cst, remaining, err := g.Parse("1+2-3")
	require.NoError(err)
	assert.Empty(remaining)
	require.NotNil(cst)
}

func Test_Grammar_SetCollapse(t *testing.T) {
	require := require.New(t)

	g, err := Compile(`
		expr := term;
		term := NUM;
		NUM := [0-9]+;
	`)
	require.NoError(err)

	g.SetCollapse(false)
	cst, _, err := g.Parse("5")
	require.NoError(err)
	require.Len(cst.Children, 1)
	require.Equal("term", cst.Children[0].Value)
}

func Test_Grammar_ParseTraced(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := Compile(`expr := NUM; NUM := [0-9]+;`)
	require.NoError(err)

	_, _, log, err := g.ParseTraced("7")
	require.NoError(err)
	require.NotNil(log)
	assert.NotEmpty(log.Lines())
}

func Test_Compile_invalidGrammarReturnsError(t *testing.T) {
	require := require.New(t)

	_, err := Compile(`Expr := "a";`)
	require.Error(err)
}

func Test_Grammar_ConcurrentParse(t *testing.T) {
	require := require.New(t)

	g, err := Compile(`expr := NUM; NUM := [0-9]+;`)
	require.NoError(err)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, _, err := g.Parse("42")
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(<-done)
	}
}

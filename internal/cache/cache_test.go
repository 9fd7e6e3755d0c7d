package cache

import (
	"path/filepath"
	"testing"

	"github.com/dekarrin/rebnf/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_HashSource_stableAndSensitive(t *testing.T) {
	assert := assert.New(t)

	a := HashSource("expr := \"a\";")
	b := HashSource("expr := \"a\";")
	c := HashSource("expr := \"b\";")

	assert.Equal(a, b)
	assert.NotEqual(a, c)
}

func Test_Summarize(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, err := grammar.Compile(`expr := NUM; NUM := [0-9]+;`)
	require.NoError(err)

	summary := Summarize(g)
	assert.Equal("expr", summary.StartRule)
	assert.Equal([]string{"expr"}, summary.RuleNames)
	require.Contains(summary.Rules, "expr")
	require.Len(summary.Terminals, 1)
	assert.Equal("NUM", summary.Terminals[0].Name)
}

func Test_Store_putThenGet(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dbPath := filepath.Join(t.TempDir(), "grammars.db")
	store, err := Open(dbPath)
	require.NoError(err)
	defer store.Close()

	g, err := grammar.Compile(`expr := NUM; NUM := [0-9]+;`)
	require.NoError(err)
	summary := Summarize(g)

	hash := HashSource(`expr := NUM; NUM := [0-9]+;`)
	_, err = store.Put(hash, summary)
	require.NoError(err)

	got, ok, err := store.Get(hash)
	require.NoError(err)
	require.True(ok)
	assert.Equal(summary.StartRule, got.StartRule)
	assert.Equal(summary.RuleNames, got.RuleNames)
}

func Test_Store_getMiss(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dbPath := filepath.Join(t.TempDir(), "grammars.db")
	store, err := Open(dbPath)
	require.NoError(err)
	defer store.Close()

	_, ok, err := store.Get(HashSource("never-stored"))
	require.NoError(err)
	assert.False(ok)
}

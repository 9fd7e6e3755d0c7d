package node

import (
	"testing"

	"github.com/dekarrin/rebnf/internal/metalex"
	"github.com/dekarrin/rebnf/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexBody(t *testing.T, body string) []token.Token {
	t.Helper()
	stream, err := metalex.New().Tokenize(body)
	require.NoError(t, err)

	var toks []token.Token
	for stream.HasNext() {
		toks = append(toks, stream.Next())
	}
	return toks
}

func Test_Build_suffixEquivalence(t *testing.T) {
	testCases := []struct {
		name       string
		bracketed  string
		suffixed   string
		wantKind   Kind
	}{
		{name: "repeating", bracketed: `{ "a" }`, suffixed: `( "a" )*`, wantKind: Repeating},
		{name: "optional", bracketed: `[ "a" ]`, suffixed: `( "a" )?`, wantKind: Optional},
		{name: "at-least-once", bracketed: `< "a" >`, suffixed: `( "a" )+`, wantKind: AtLeastOnce},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			bracketed, _, err := Build("r", lexBody(t, tc.bracketed), nil, NewCounters())
			assert.NoError(err)
			require.Len(t, bracketed.Children, 1)
			assert.Equal(tc.wantKind, bracketed.Children[0].Kind)

			suffixed, _, err := Build("r", lexBody(t, tc.suffixed), nil, NewCounters())
			assert.NoError(err)
			require.Len(t, suffixed.Children, 1)
			assert.Equal(tc.wantKind, suffixed.Children[0].Kind)

			assert.Equal(bracketed.Children[0].Children, suffixed.Children[0].Children)
		})
	}
}

func Test_Build_illegalSuffixMix(t *testing.T) {
	assert := assert.New(t)

	_, _, err := Build("r", lexBody(t, `{"a"}*`), nil, NewCounters())
	assert.Error(err)
}

func Test_Build_alternation(t *testing.T) {
	assert := assert.New(t)

	root, rest, err := Build("r", lexBody(t, `"a" | "b"`), nil, NewCounters())
	assert.NoError(err)
	assert.Empty(rest)
	assert.Equal(Alternating, root.Kind)
	require.Len(t, root.Children, 3)
	assert.Equal(LiteralMatch, root.Children[0].Kind)
	assert.True(root.Children[1].OrMarker)
	assert.Equal(LiteralMatch, root.Children[2].Kind)
}

func Test_Build_mismatchedCloser(t *testing.T) {
	assert := assert.New(t)

	_, _, err := Build("r", lexBody(t, `{"a")`), nil, NewCounters())
	assert.Error(err)
}

func Test_Build_groupNameDisambiguation(t *testing.T) {
	assert := assert.New(t)

	root, _, err := Build("expr", lexBody(t, `("a") ("b")`), nil, NewCounters())
	assert.NoError(err)
	require.Len(t, root.Children, 2)
	assert.Equal("expr-1", root.Children[0].Name)
	assert.Equal("expr-2", root.Children[1].Name)
}

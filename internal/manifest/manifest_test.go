package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rebnf.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func Test_Load_minimal(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := writeManifest(t, `grammar = "grammar.rebnf"`)

	m, err := Load(path)
	require.NoError(err)
	assert.Equal("grammar.rebnf", m.Grammar)
	assert.Equal("", m.Input)
	assert.True(m.Collapse, "collapse defaults to true when absent from the manifest")
	assert.False(m.CollapseSet)
}

func Test_Load_full(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := writeManifest(t, `
		grammar = "grammar.rebnf"
		input = "program.txt"
		start_rule = "program"
		collapse = false
		trace = true
		cache_dir = ".rebnf-cache"
	`)

	m, err := Load(path)
	require.NoError(err)
	assert.Equal("program.txt", m.Input)
	assert.Equal("program", m.StartRule)
	assert.False(m.Collapse)
	assert.True(m.CollapseSet)
	assert.True(m.Trace)
	assert.Equal(".rebnf-cache", m.CacheDir)
}

func Test_Load_missingGrammarIsError(t *testing.T) {
	require := require.New(t)

	path := writeManifest(t, `input = "program.txt"`)

	_, err := Load(path)
	require.Error(err)
}

func Test_Load_missingFile(t *testing.T) {
	require := require.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(err)
}

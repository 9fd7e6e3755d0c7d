// Package manifest loads the TOML project file that describes a rebnf
// project: which grammar and input files to use and how to run them,
// the same way internal/tqw loads a TOML world-data manifest.
package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Manifest is one project's run configuration.
type Manifest struct {
	// Grammar is the path to the REBNF source file, relative to the
	// manifest file's own directory unless absolute.
	Grammar string `toml:"grammar"`

	// Input is the path to the target-language input file to parse. If
	// empty, the consuming command reads from standard input instead.
	Input string `toml:"input"`

	// StartRule, when set, names the start rule. cmd/rebnfc accepts only
	// the grammar's first-defined rule here and exits with an error for
	// any other name.
	StartRule string `toml:"start_rule"`

	// Collapse controls tree collapsing (spec §4.7). Defaults to true;
	// CollapseSet records whether the manifest set it explicitly, since
	// TOML has no way to distinguish "false" from "absent" once decoded
	// into a plain bool.
	Collapse    bool `toml:"collapse"`
	CollapseSet bool `toml:"-"`

	// Trace enables report-log collection for each parse.
	Trace bool `toml:"trace"`

	// CacheDir, if set, is a directory holding a grammar-summary cache
	// (package cache) consulted before each compile.
	CacheDir string `toml:"cache_dir"`
}

// rawManifest exists solely so Load can tell whether "collapse" was present
// in the source at all, since toml.Decode reports that through its MetaData
// rather than through the decoded struct.
type rawManifest Manifest

// Load reads and parses a TOML manifest file from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m rawManifest
	m.Collapse = true

	meta, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if m.Grammar == "" {
		return nil, fmt.Errorf("manifest %s: \"grammar\" is required", path)
	}

	out := Manifest(m)
	out.CollapseSet = meta.IsDefined("collapse")
	return &out, nil
}

// Package cache persists a compiled grammar's rule table and target
// tokenizer pattern list to a sqlite database, keyed by a hash of the
// grammar's REBNF source, the way server/dao/sqlite persists serialized
// game state. It is a performance/demo layer on top of package grammar,
// not a replacement for it: the only way to obtain a usable *grammar.Grammar
// is still grammar.Compile. A cache hit only lets a caller such as
// cmd/rebnfc report to the user that it has seen this grammar before; no
// Grammar is ever reconstructed from stored bytes.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dekarrin/rebnf/internal/grammar"
	"github.com/dekarrin/rebnf/internal/node"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// TerminalSummary is one terminal definition of a cached grammar: its name
// and the source pattern registered for it on the target tokenizer.
type TerminalSummary struct {
	Name    string
	Pattern string
}

// GrammarSummary is the serializable snapshot of a compiled Grammar that
// gets stored in the cache: its rule tree, in definition order, and its
// terminal patterns, in tokenizer priority order.
type GrammarSummary struct {
	StartRule string
	RuleNames []string
	Rules     map[string]*node.Node
	Terminals []TerminalSummary
}

// Summarize builds a GrammarSummary from a compiled Grammar.
func Summarize(g *grammar.Grammar) *GrammarSummary {
	names := g.RuleNames()
	rules := make(map[string]*node.Node, len(names))
	for _, name := range names {
		rules[name] = g.Rule(name)
	}

	var terms []TerminalSummary
	for _, r := range g.TargetTokenizer().Rules() {
		if r.Skip {
			continue
		}
		// leave out rules the compiler adds itself (the single-character
		// literal catch-all); only the grammar's own terminals are listed.
		if sym, ok := g.Symbols().Lookup(r.SymbolName); !ok || !sym.Terminal() {
			continue
		}
		terms = append(terms, TerminalSummary{Name: r.SymbolName, Pattern: r.Pattern})
	}

	return &GrammarSummary{
		StartRule: g.StartRule(),
		RuleNames: names,
		Rules:     rules,
		Terminals: terms,
	}
}

// HashSource returns the cache key for a grammar's REBNF source text.
func HashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Store is a sqlite-backed table of GrammarSummary entries keyed by source
// hash.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS grammar_cache (
		source_hash TEXT NOT NULL PRIMARY KEY,
		id          TEXT NOT NULL,
		summary     TEXT NOT NULL,
		created     INTEGER NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("init cache schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put records summary under sourceHash, replacing any prior entry for the
// same hash. It returns the id assigned to this cache entry.
func (s *Store) Put(sourceHash string, summary *GrammarSummary) (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("generate cache entry id: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(rezi.EncBinary(summary))

	_, err = s.db.Exec(
		`INSERT INTO grammar_cache (source_hash, id, summary, created) VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_hash) DO UPDATE SET id=excluded.id, summary=excluded.summary, created=excluded.created;`,
		sourceHash, id.String(), encoded, time.Now().Unix(),
	)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("store cache entry: %w", err)
	}

	return id, nil
}

// Get looks up the GrammarSummary stored for sourceHash. ok is false if
// there is no entry for that hash.
func (s *Store) Get(sourceHash string) (summary *GrammarSummary, ok bool, err error) {
	row := s.db.QueryRow(`SELECT summary FROM grammar_cache WHERE source_hash = ?;`, sourceHash)

	var encoded string
	if err := row.Scan(&encoded); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query cache entry: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("stored summary for %s is invalid: %w", sourceHash, err)
	}

	var out GrammarSummary
	n, err := rezi.DecBinary(raw, &out)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached summary for %s: %w", sourceHash, err)
	}
	if n != len(raw) {
		return nil, false, fmt.Errorf("decoded byte count mismatch for cached summary %s", sourceHash)
	}

	return &out, true, nil
}

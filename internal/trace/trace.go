// Package trace implements the optional per-invocation report log described
// in spec §7: an indent-indexed line log a matcher can append to while
// backtracking, useful for explaining why a parse took the shape it did.
// It also tracks the per-rule call counts and the deepest recursion level
// reached by one invocation, mirroring ebnf.py's `_calls`/`_report_list`/
// `_max_recursion_level` bookkeeping.
package trace

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Log accumulates the report lines, call counts, and max depth of a single
// Grammar.Parse invocation. The zero value is ready to use. A Log is not
// safe for concurrent use; each parse should use its own.
type Log struct {
	lines    []string
	calls    map[string]int
	maxDepth int
}

// New returns an empty Log.
func New() *Log {
	return &Log{calls: make(map[string]int)}
}

// Line appends one report line, indented by depth.
func (l *Log) Line(depth int, parts ...string) {
	if l == nil {
		return
	}
	l.lines = append(l.lines, fmt.Sprintf("%s%s", strings.Repeat("  ", depth), strings.Join(parts, " ")))
}

// Count increments the call counter for name (a rule name or an internal
// match-function name such as "match_sequence").
func (l *Log) Count(name string) {
	if l == nil {
		return
	}
	if l.calls == nil {
		l.calls = make(map[string]int)
	}
	l.calls[name]++
}

// Observe records depth as a recursion level reached during the parse,
// updating MaxDepth if it is the deepest seen so far.
func (l *Log) Observe(depth int) {
	if l == nil {
		return
	}
	if depth > l.maxDepth {
		l.maxDepth = depth
	}
}

// MaxDepth returns the deepest recursion level observed so far.
func (l *Log) MaxDepth() int {
	if l == nil {
		return 0
	}
	return l.maxDepth
}

// Calls returns the number of times name was counted.
func (l *Log) Calls(name string) int {
	if l == nil {
		return 0
	}
	return l.calls[name]
}

// Lines returns the accumulated report lines, in order.
func (l *Log) Lines() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Report renders the line log as a two-column table of depth-prefixed
// messages, suitable for printing to a debug console.
func (l *Log) Report() string {
	if l == nil || len(l.lines) == 0 {
		return ""
	}

	data := [][]string{{"#", "trace"}}
	for i, line := range l.lines {
		data = append(data, []string{fmt.Sprintf("%d", i), line})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 120, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

package grammar

import (
	"strings"

	"github.com/dekarrin/rebnf/internal/token"
)

// splitRules splits REBNF source on ';' the way ebnf.py's EBNFParser does
// (`text.split(';')`), discarding any fragment that is blank once trimmed
// (REBNF does not require a trailing rule after the final ';').
func splitRules(text string) []string {
	var out []string
	for _, line := range strings.Split(text, ";") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitDefine splits one rule of the form "NAME := BODY" into its name and
// body. ok is false if the rule isn't of that shape.
func splitDefine(rawRule string) (name, body string, ok bool) {
	parts := strings.SplitN(rawRule, ":=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), parts[1], true
}

func isLower(name string) bool {
	return name != "" && name == strings.ToLower(name) && name != strings.ToUpper(name)
}

func isUpper(name string) bool {
	return name != "" && name == strings.ToUpper(name) && name != strings.ToLower(name)
}

func drain(stream token.Stream) []token.Token {
	var toks []token.Token
	for stream.HasNext() {
		toks = append(toks, stream.Next())
	}
	return toks
}

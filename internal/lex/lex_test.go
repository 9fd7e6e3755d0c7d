package lex

import (
	"testing"

	"github.com/dekarrin/rebnf/internal/symbol"
	"github.com/stretchr/testify/assert"
)

func Test_Tokenizer_Tokenize(t *testing.T) {
	testCases := []struct {
		name          string
		rules         []string // patterns; `\s+` is registered as a skip rule
		input         string
		expectLexemes []string
		expectErr     bool
	}{
		{
			name:  "skip whitespace, emit words",
			rules: []string{`\s+`, `[a-z]+`},
			input: "foo  bar",
			expectLexemes: []string{"foo", "bar"},
		},
		{
			name:          "first matching pattern wins",
			rules:         []string{`a`, `ab`, `b`},
			input:         "ab",
			expectLexemes: []string{"a", "b"},
		},
		{
			name:      "no rule matches",
			rules:     []string{`[a-z]+`},
			input:     "123",
			expectErr: true,
		},
		{
			name:  "empty input",
			rules: []string{`[a-z]+`},
			input: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tz := New()
			for i, pat := range tc.rules {
				var sym symbol.Symbol
				if pat != `\s+` {
					sym = symbol.New("RULE", true)
				}
				if err := tz.AddRule(pat, sym); err != nil {
					t.Fatalf("adding rule %d failed: %v", i, err)
				}
			}

			stream, err := tz.Tokenize(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			var got []string
			for stream.HasNext() {
				got = append(got, stream.Next().Lexeme())
			}
			if tc.expectLexemes == nil {
				assert.Nil(got)
			} else {
				assert.Equal(tc.expectLexemes, got)
			}
		})
	}
}

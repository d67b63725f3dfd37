package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestScanTokensRecognizesKeywordsAndOperators(t *testing.T) {
	s := NewScanner("int x; if (x <= 1) { x++; } else { x--; }")
	tokens := s.ScanTokens()
	assert.Empty(t, s.errors)
	assert.Contains(t, tokenTypes(tokens), INT)
	assert.Contains(t, tokenTypes(tokens), IF)
	assert.Contains(t, tokenTypes(tokens), ELSE)
	assert.Contains(t, tokenTypes(tokens), INCREMENT)
	assert.Contains(t, tokenTypes(tokens), DECREMENT)
	assert.Contains(t, tokenTypes(tokens), LESS)
	assert.Equal(t, EOF, tokens[len(tokens)-1].Type)
}

func TestScanTokensDistinguishesAndOrFromBitwiseAmpersand(t *testing.T) {
	s := NewScanner("a && b || c & d")
	tokens := s.ScanTokens()
	assert.Empty(t, s.errors)
	types := tokenTypes(tokens)
	assert.Contains(t, types, AND)
	assert.Contains(t, types, OR)
	assert.Contains(t, types, AMPERSAND)
}

func TestScanTokensSkipsLineAndBlockComments(t *testing.T) {
	s := NewScanner("int x; // trailing comment\n/* block\ncomment */ int y;")
	tokens := s.ScanTokens()
	assert.Empty(t, s.errors)
	count := 0
	for _, tok := range tokens {
		if tok.Type == INT {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestScanTokensReportsUnterminatedString(t *testing.T) {
	s := NewScanner(`"unterminated`)
	s.ScanTokens()
	assert.NotEmpty(t, s.errors)
}

func TestScanTokensReportsUnexpectedCharacter(t *testing.T) {
	s := NewScanner("int x = 1 ^ 2;")
	s.ScanTokens()
	assert.NotEmpty(t, s.errors)
}

func TestScanTokensTracksLineAndColumn(t *testing.T) {
	s := NewScanner("int x;\nint y;")
	tokens := s.ScanTokens()
	var secondInt Token
	seen := 0
	for _, tok := range tokens {
		if tok.Type == INT {
			seen++
			if seen == 2 {
				secondInt = tok
			}
		}
	}
	assert.Equal(t, 2, secondInt.Position.Line)
	assert.Equal(t, 1, secondInt.Position.Column)
}

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
)

func lexAll(t *testing.T, text string) []Token {
	t.Helper()
	l := NewLexer(text)
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == TokenEnd {
			return toks
		}
	}
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerOperators(t *testing.T) {
	toks := lexAll(t, "= <> < <= > >= ( ) ,")
	assert.Equal(t, []TokenKind{
		TokenEq, TokenNeq, TokenLt, TokenLe, TokenGt, TokenGe,
		TokenLParen, TokenRParen, TokenComma, TokenEnd,
	}, kinds(toks))
}

func TestLexerOperatorsWithoutSpaces(t *testing.T) {
	toks := lexAll(t, "A<>'x'")
	assert.Equal(t, []TokenKind{TokenSymbol, TokenNeq, TokenString, TokenEnd}, kinds(toks))
	assert.Equal(t, 1, toks[1].Pos)
	assert.Equal(t, 3, toks[2].Pos)
}

func TestLexerSymbolsAndKeywords(t *testing.T) {
	toks := lexAll(t, "and Or NOT in Is null True false _col9 Naïve")
	want := []Keyword{KwAnd, KwOr, KwNot, KwIn, KwIs, KwNull, KwTrue, KwFalse, KwNone, KwNone}
	for i, kw := range want {
		assert.Equal(t, TokenSymbol, toks[i].Kind)
		assert.Equal(t, kw, toks[i].Keyword, "token %d", i)
	}
	assert.Equal(t, "_col9", toks[8].Text)
	assert.Equal(t, "Naïve", toks[9].Text)
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"''", ""},
		{"'abc'", "abc"},
		{"'it''s'", "it's"},
		{"''''", "'"},
		{"'a b  c'", "a b  c"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexAll(t, tt.input)
			require.Len(t, toks, 2)
			assert.Equal(t, TokenString, toks[0].Kind)
			assert.Equal(t, tt.want, toks[0].Text)
			assert.Equal(t, ir.String(tt.want), toks[0].Value)
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  ir.Value
	}{
		{"0", ir.Int(0)},
		{"123", ir.Int(123)},
		{"-42", ir.Int(-42)},
		{"+7", ir.Int(7)},
		{"3.14", ir.Float(3.14)},
		{"+3.14", ir.Float(3.14)},
		{"-.5", ir.Float(-0.5)},
		{".25", ir.Float(0.25)},
		{"2.0", ir.Float(2)},
		{"9223372036854775807", ir.Int(9223372036854775807)},
		{"9223372036854775808", ir.Float(9223372036854775808)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexAll(t, tt.input)
			require.Len(t, toks, 2)
			assert.Equal(t, TokenNumber, toks[0].Kind)
			assert.Equal(t, tt.input, toks[0].Text)
			assert.Equal(t, tt.want, toks[0].Value)
		})
	}
}

func TestLexerEndIsRepeated(t *testing.T) {
	l := NewLexer("  A  ")
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenSymbol, tok.Kind)

	for i := 0; i < 3; i++ {
		tok, err = l.Next()
		require.NoError(t, err)
		assert.Equal(t, TokenEnd, tok.Kind)
		assert.Equal(t, 5, tok.Pos)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		pos     int
	}{
		{"unterminated string", "A = 'abc", "unterminated string", 4},
		{"unterminated after escape", "'it''", "unterminated string", 0},
		{"two decimal points", "1.2.3", `invalid number "1.2."`, 0},
		{"trailing point", "A = 1.", `invalid number "1."`, 4},
		{"lone plus", "A = + 1", "unexpected character '+'", 4},
		{"lone minus", "-", "unexpected character '-'", 0},
		{"lone point", ". 5", "unexpected character '.'", 0},
		{"unknown character", "A # 1", "unexpected character '#'", 2},
		{"bang equals", "A != 1", "unexpected character '!'", 2},
		{"rune offsets", "É = 'x", "unterminated string", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLexer(tt.input)
			var err error
			for i := 0; i < 10 && err == nil; i++ {
				var tok Token
				tok, err = l.Next()
				if tok.Kind == TokenEnd && err == nil {
					t.Fatalf("reached end without error")
				}
			}
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, tt.pos, se.Pos)
		})
	}
}

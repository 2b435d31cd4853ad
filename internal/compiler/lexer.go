package compiler

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/roach88/sieve/internal/ir"
)

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEnd TokenKind = iota
	TokenSymbol
	TokenString
	TokenNumber
	TokenEq     // =
	TokenNeq    // <>
	TokenLt     // <
	TokenLe     // <=
	TokenGt     // >
	TokenGe     // >=
	TokenLParen // (
	TokenRParen // )
	TokenComma  // ,
)

var tokenText = map[TokenKind]string{
	TokenEq:     "=",
	TokenNeq:    "<>",
	TokenLt:     "<",
	TokenLe:     "<=",
	TokenGt:     ">",
	TokenGe:     ">=",
	TokenLParen: "(",
	TokenRParen: ")",
	TokenComma:  ",",
}

// Keyword identifies a reserved word. Keywords are symbols matched without
// regard to case.
type Keyword int

const (
	KwNone Keyword = iota
	KwAnd
	KwOr
	KwNot
	KwIn
	KwIs
	KwNull
	KwTrue
	KwFalse
)

var keywords = []struct {
	word string
	kw   Keyword
}{
	{"AND", KwAnd},
	{"OR", KwOr},
	{"NOT", KwNot},
	{"IN", KwIn},
	{"IS", KwIs},
	{"NULL", KwNull},
	{"TRUE", KwTrue},
	{"FALSE", KwFalse},
}

func lookupKeyword(s string) Keyword {
	for _, k := range keywords {
		if strings.EqualFold(s, k.word) {
			return k.kw
		}
	}
	return KwNone
}

// Token is one lexical unit of a clause.
type Token struct {
	Kind TokenKind

	// Text is the symbol name, the decoded string contents, or the source
	// text of a number.
	Text string

	// Keyword is set for symbols that are reserved words.
	Keyword Keyword

	// Value holds the literal for String and Number tokens.
	Value ir.Value

	// Pos is the rune offset of the first character of the token.
	Pos int
}

// describe renders the token for "found ..." diagnostics.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEnd:
		return "end of input"
	case TokenSymbol:
		return strconv.Quote(t.Text)
	case TokenString:
		return "string " + t.Value.String()
	case TokenNumber:
		return "number " + t.Text
	}
	return strconv.Quote(tokenText[t.Kind])
}

// Lexer splits clause text into tokens. Offsets are counted in runes so
// that positions in diagnostics are character offsets.
type Lexer struct {
	src []rune
	pos int
}

// NewLexer returns a lexer positioned at the start of text.
func NewLexer(text string) *Lexer {
	return &Lexer{src: []rune(text)}
}

// Pos returns the offset of the next unread character.
func (l *Lexer) Pos() int {
	return l.pos
}

func (l *Lexer) peek(ahead int) rune {
	if i := l.pos + ahead; i < len(l.src) {
		return l.src[i]
	}
	return 0
}

// Next skips whitespace and returns the next token. Once the input is
// exhausted it keeps returning TokenEnd.
func (l *Lexer) Next() (Token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
	start := l.pos
	if start >= len(l.src) {
		return Token{Kind: TokenEnd, Pos: start}, nil
	}

	c := l.src[start]
	switch {
	case isSymbolStart(c):
		return l.readSymbol(), nil
	case c == '\'':
		return l.readString()
	case l.startsNumber():
		return l.readNumber()
	}

	l.pos++
	switch c {
	case '=':
		return Token{Kind: TokenEq, Pos: start}, nil
	case '<':
		switch l.peek(0) {
		case '>':
			l.pos++
			return Token{Kind: TokenNeq, Pos: start}, nil
		case '=':
			l.pos++
			return Token{Kind: TokenLe, Pos: start}, nil
		}
		return Token{Kind: TokenLt, Pos: start}, nil
	case '>':
		if l.peek(0) == '=' {
			l.pos++
			return Token{Kind: TokenGe, Pos: start}, nil
		}
		return Token{Kind: TokenGt, Pos: start}, nil
	case '(':
		return Token{Kind: TokenLParen, Pos: start}, nil
	case ')':
		return Token{Kind: TokenRParen, Pos: start}, nil
	case ',':
		return Token{Kind: TokenComma, Pos: start}, nil
	}

	l.pos = start
	return Token{}, syntaxErrorf(start, "unexpected character %q", c)
}

func isSymbolStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isSymbolPart(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func (l *Lexer) readSymbol() Token {
	start := l.pos
	for l.pos < len(l.src) && isSymbolPart(l.src[l.pos]) {
		l.pos++
	}
	text := string(l.src[start:l.pos])
	return Token{Kind: TokenSymbol, Text: text, Keyword: lookupKeyword(text), Pos: start}
}

// readString reads a single-quoted literal; '' inside decodes to '.
func (l *Lexer) readString() (Token, error) {
	start := l.pos
	l.pos++ // opening quote

	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, syntaxErrorf(start, "unterminated string")
		}
		c := l.src[l.pos]
		if c == '\'' {
			if l.peek(1) == '\'' {
				b.WriteRune('\'')
				l.pos += 2
				continue
			}
			l.pos++
			break
		}
		b.WriteRune(c)
		l.pos++
	}

	text := b.String()
	return Token{Kind: TokenString, Text: text, Value: ir.String(text), Pos: start}, nil
}

// startsNumber reports whether a number begins at the current position: a
// digit, or a sign or decimal point that is followed by a digit. A lone
// sign or point is not a number.
func (l *Lexer) startsNumber() bool {
	c := l.peek(0)
	switch {
	case isDigit(c):
		return true
	case c == '+' || c == '-':
		next := l.peek(1)
		return isDigit(next) || (next == '.' && isDigit(l.peek(2)))
	case c == '.':
		return isDigit(l.peek(1))
	}
	return false
}

// readNumber reads [sign] digits [. digits]. At most one decimal point is
// allowed and it must be followed by a digit. Whole numbers that fit in 64
// bits become Int literals; everything else becomes Float.
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	if c := l.peek(0); c == '+' || c == '-' {
		l.pos++
	}
	for isDigit(l.peek(0)) {
		l.pos++
	}

	fractional := false
	if l.peek(0) == '.' {
		l.pos++
		if !isDigit(l.peek(0)) {
			return Token{}, syntaxErrorf(start, "invalid number %q", string(l.src[start:l.pos]))
		}
		for isDigit(l.peek(0)) {
			l.pos++
		}
		fractional = true
	}
	if l.peek(0) == '.' {
		return Token{}, syntaxErrorf(start, "invalid number %q", string(l.src[start:l.pos+1]))
	}

	text := string(l.src[start:l.pos])
	tok := Token{Kind: TokenNumber, Text: text, Pos: start}
	if !fractional {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			tok.Value = ir.Int(i)
			return tok, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, syntaxErrorf(start, "invalid number %q", text)
	}
	tok.Value = ir.Float(f)
	return tok, nil
}

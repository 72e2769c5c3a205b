package settings

import (
	"io"
	"strings"
	"unicode/utf8"
)

// TokenKind identifies the kind of a lexed token.
type TokenKind int

const (
	// TokenArgDelim is a run of one or more spaces.
	TokenArgDelim TokenKind = iota + 1
	// TokenStatementDelim is a single newline.
	TokenStatementDelim
	// TokenString is a maximal run of characters that are neither space nor newline.
	TokenString
)

func (k TokenKind) String() string {
	switch k {
	case TokenArgDelim:
		return "ArgDelim"
	case TokenStatementDelim:
		return "StatementDelim"
	case TokenString:
		return "String"
	default:
		return "Unknown"
	}
}

// Token is one lexeme. Value holds the exact source text, so concatenating
// the values of all tokens reproduces the input.
type Token struct {
	Kind   TokenKind
	Value  string
	Line   int // 1-based
	Column int // 1-based, in runes
}

// Sanitize strips carriage returns so CRLF input lexes like LF input.
func Sanitize(src string) string {
	return strings.ReplaceAll(src, "\r", "")
}

// Lexer splits settings text into tokens. It holds no state besides its
// position, so a new Lexer over the same text yields the same tokens.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// NewLexer creates a lexer over src. Callers should pass text through
// Sanitize first; a stray '\r' is otherwise lexed as part of a string.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Next returns the next token, or io.EOF once the input is exhausted.
func (l *Lexer) Next() (Token, error) {
	if l.pos >= len(l.src) {
		return Token{}, io.EOF
	}

	start := l.pos
	tok := Token{Line: l.line, Column: l.col}

	switch l.src[l.pos] {
	case '\n':
		l.pos++
		tok.Kind = TokenStatementDelim
		tok.Value = "\n"
		l.line++
		l.col = 1
		return tok, nil
	case ' ':
		for l.pos < len(l.src) && l.src[l.pos] == ' ' {
			l.pos++
		}
		tok.Kind = TokenArgDelim
	default:
		for l.pos < len(l.src) && l.src[l.pos] != ' ' && l.src[l.pos] != '\n' {
			l.pos++
		}
		tok.Kind = TokenString
	}

	tok.Value = l.src[start:l.pos]
	if !utf8.ValidString(tok.Value) {
		return Token{}, &LexError{Line: tok.Line, Column: tok.Column, Text: tok.Value}
	}
	l.col += utf8.RuneCountInString(tok.Value)
	return tok, nil
}

// Tokenize lexes the whole of src.
func Tokenize(src string) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

package minilang

import (
	"fmt"

	"fortio.org/safecast"

	"polyc/internal/diag"
	"polyc/internal/token"
)

// Lexer — однопроходный сканер по байтам исходника.
type Lexer struct {
	src   []byte
	off   uint32
	limit uint32
	line  int
}

// NewLexer creates a scanner over source text.
func NewLexer(source string) *Lexer {
	limit, err := safecast.Conv[uint32](len(source))
	if err != nil {
		panic(fmt.Errorf("source length overflow: %w", err))
	}
	return &Lexer{src: []byte(source), limit: limit, line: 1}
}

func (lx *Lexer) eof() bool  { return lx.off >= lx.limit }
func (lx *Lexer) peek() byte { return lx.src[lx.off] }

// Tokens scans the whole source and returns the token stream terminated by
// EOF. Any unknown byte is a recoverable lexical error.
func (lx *Lexer) Tokens() ([]token.Token, error) {
	var out []token.Token
	for !lx.eof() {
		ch := lx.peek()
		switch {
		case ch == '\n':
			lx.line++
			lx.off++
		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.off++
		case isIdentStart(ch):
			out = append(out, lx.scanIdentOrKeyword())
		case isDigit(ch):
			out = append(out, lx.scanNumber())
		case ch == '+' || ch == '-' || ch == '*' || ch == '/' || ch == '=':
			out = append(out, token.Token{Kind: token.Operator, Text: string(ch), Line: lx.line})
			lx.off++
		case ch == '(' || ch == ')' || ch == ';':
			out = append(out, token.Token{Kind: token.Punct, Text: string(ch), Line: lx.line})
			lx.off++
		default:
			return nil, diag.Lexicalf("line %d: unexpected character %q", lx.line, ch)
		}
	}
	out = append(out, token.Token{Kind: token.EOF, Line: lx.line})
	return out, nil
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.off
	for !lx.eof() && isIdentContinue(lx.peek()) {
		lx.off++
	}
	text := string(lx.src[start:lx.off])
	kind := token.Ident
	if token.LookupKeyword(text) {
		kind = token.Keyword
	}
	return token.Token{Kind: kind, Text: text, Line: lx.line}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.off
	for !lx.eof() && isDigit(lx.peek()) {
		lx.off++
	}
	return token.Token{Kind: token.Number, Text: string(lx.src[start:lx.off]), Line: lx.line}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

package token

import "fmt"

// Token is one lexeme of a source unit.
type Token struct {
	Kind Kind
	Text string
	Line int
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "eof"
	}
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Line)
}

// IsValue reports whether the token can terminate an expression:
// a literal, an identifier, or a closing parenthesis.
func (t Token) IsValue() bool {
	switch t.Kind {
	case Number, String, Ident:
		return true
	case Punct:
		return t.Text == ")"
	}
	return false
}

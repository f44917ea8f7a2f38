package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Keyword represents a reserved word.
	Keyword
	// Ident represents an identifier token.
	Ident
	// Number represents a numeric literal.
	Number
	// String represents a string literal.
	String
	// Operator represents an operator such as '+' or '='.
	Operator
	// Punct represents punctuation such as parentheses and separators.
	Punct
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case EOF:
		return "eof"
	case Keyword:
		return "keyword"
	case Ident:
		return "ident"
	case Number:
		return "number"
	case String:
		return "string"
	case Operator:
		return "operator"
	case Punct:
		return "punct"
	}
	return "unknown"
}

// ParseKind maps the schema name of a kind back to its value.
// Используется при разборе токенов, пришедших от генеративного бэкенда.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "keyword":
		return Keyword, true
	case "ident", "identifier":
		return Ident, true
	case "number":
		return Number, true
	case "string":
		return String, true
	case "operator":
		return Operator, true
	case "punct", "punctuation":
		return Punct, true
	case "eof":
		return EOF, true
	}
	return Invalid, false
}

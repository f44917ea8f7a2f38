package goast

import (
	goscanner "go/scanner"
	gotoken "go/token"

	"polyc/internal/diag"
	"polyc/internal/token"
)

// scanSource прогоняет исходник через штатный сканер Go и переводит его
// токены в общий словарь пайплайна.
func scanSource(source string) ([]token.Token, error) {
	fset := gotoken.NewFileSet()
	file := fset.AddFile("src.go", fset.Base(), len(source))

	var firstErr error
	var sc goscanner.Scanner
	sc.Init(file, []byte(source), func(pos gotoken.Position, msg string) {
		if firstErr == nil {
			firstErr = diag.Lexicalf("line %d: %s", pos.Line, msg)
		}
	}, 0)

	var out []token.Token
	for {
		pos, tok, lit := sc.Scan()
		if firstErr != nil {
			return nil, firstErr
		}
		line := fset.Position(pos).Line
		if tok == gotoken.EOF {
			out = append(out, token.Token{Kind: token.EOF, Line: line})
			return out, nil
		}
		out = append(out, token.Token{Kind: mapKind(tok), Text: tokenText(tok, lit), Line: line})
	}
}

func mapKind(tok gotoken.Token) token.Kind {
	switch {
	case tok.IsKeyword():
		return token.Keyword
	case tok == gotoken.IDENT:
		return token.Ident
	case tok == gotoken.INT || tok == gotoken.FLOAT || tok == gotoken.IMAG:
		return token.Number
	case tok == gotoken.STRING || tok == gotoken.CHAR:
		return token.String
	}
	switch tok {
	case gotoken.LPAREN, gotoken.RPAREN, gotoken.LBRACE, gotoken.RBRACE,
		gotoken.LBRACK, gotoken.RBRACK, gotoken.COMMA, gotoken.SEMICOLON,
		gotoken.COLON, gotoken.PERIOD:
		return token.Punct
	}
	if tok.IsOperator() {
		return token.Operator
	}
	return token.Invalid
}

func tokenText(tok gotoken.Token, lit string) string {
	// Автоматически вставленная точка с запятой несёт lit "\n".
	if tok == gotoken.SEMICOLON {
		return ";"
	}
	if lit != "" {
		return lit
	}
	return tok.String()
}

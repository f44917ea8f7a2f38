package minilang

import (
	"strconv"

	"polyc/internal/diag"
	"polyc/internal/token"
)

// Parser — состояние рекурсивного спуска на один запрос.
//
// Грамматика:
//
//	Program   := Statement*
//	Statement := "let" IDENT "=" Expression
//	Expression := Term (("+"|"-") Term)*
//	Term      := Factor (("*"|"/") Factor)*
//	Factor    := NUMBER | IDENT | "(" Expression ")"
//
// Оба уровня приоритета лево-ассоциативны; других уровней нет.
type Parser struct {
	tokens []token.Token
	pos    int
}

// Parse builds the syntax tree from a token stream. Any unexpected token is
// a recoverable syntax error.
func Parse(tokens []token.Token) (*Program, error) {
	p := &Parser{tokens: tokens}
	prog := &Program{}
	for !p.at(token.EOF) {
		// Разделители между утверждениями.
		if p.atPunct(";") {
			p.next()
			continue
		}
		stmt, err := p.parseLet()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atPunct(text string) bool {
	t := p.peek()
	return t.Kind == token.Punct && t.Text == text
}

func (p *Parser) atOperator(texts ...string) bool {
	t := p.peek()
	if t.Kind != token.Operator {
		return false
	}
	for _, text := range texts {
		if t.Text == text {
			return true
		}
	}
	return false
}

func (p *Parser) unexpected(want string) error {
	t := p.peek()
	if t.Kind == token.EOF {
		return diag.Syntaxf("line %d: unexpected end of input, expected %s", t.Line, want)
	}
	return diag.Syntaxf("line %d: unexpected %s %q, expected %s", t.Line, t.Kind, t.Text, want)
}

func (p *Parser) parseLet() (*LetStmt, error) {
	kw := p.peek()
	if kw.Kind != token.Keyword || kw.Text != "let" {
		return nil, p.unexpected("'let'")
	}
	p.next()

	name := p.peek()
	if name.Kind != token.Ident {
		return nil, p.unexpected("identifier")
	}
	p.next()

	if eq := p.peek(); eq.Kind != token.Operator || eq.Text != "=" {
		return nil, p.unexpected("'='")
	}
	p.next()

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &LetStmt{Name: name.Text, Value: value, Line: kw.Line}, nil
}

func (p *Parser) parseExpression() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.atOperator("+", "-") {
		op := p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Text, Left: left, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.atOperator("*", "/") {
		op := p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Text, Left: left, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) parseFactor() (Expr, error) {
	t := p.peek()
	switch {
	case t.Kind == token.Number:
		p.next()
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, diag.Syntaxf("line %d: number %q out of range", t.Line, t.Text)
		}
		return &NumberLit{Value: v, Line: t.Line}, nil
	case t.Kind == token.Ident:
		p.next()
		return &VarRef{Name: t.Text, Line: t.Line}, nil
	case p.atPunct("("):
		p.next()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !p.atPunct(")") {
			return nil, p.unexpected("')'")
		}
		p.next()
		return inner, nil
	}
	return nil, p.unexpected("number, identifier or '('")
}

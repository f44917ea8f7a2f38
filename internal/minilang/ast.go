// Package minilang is the fully deterministic front end: a narrow grammar of
// let-bindings over integer arithmetic, with a hand-written scanner,
// recursive-descent parser and tree-based constant folding. No generative
// backend is involved at any phase.
package minilang

import (
	"strconv"
	"strings"

	"polyc/internal/optimize"
)

// Expr is a minilang expression node. Every node adapts itself to the
// generic folder capability set.
type Expr interface {
	optimize.Expr
	render(sb *strings.Builder)
}

// NumberLit is an integer literal.
type NumberLit struct {
	Value int64
	Line  int
}

// VarRef references a let-bound name.
type VarRef struct {
	Name string
	Line int
}

// BinaryExpr is one of + - * /.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Line  int
}

// LetStmt binds a name to an expression.
type LetStmt struct {
	Name  string
	Value Expr
	Line  int
}

// Program is the syntax tree for one compile request. The optimizer mutates
// binding values in place; arity is preserved because folding only ever
// replaces whole sub-expressions.
type Program struct {
	Stmts []*LetStmt
}

func (n *NumberLit) Binary() (string, optimize.Expr, optimize.Expr, bool) {
	return "", nil, nil, false
}
func (n *NumberLit) Literal() (int64, bool)                        { return n.Value, true }
func (n *NumberLit) WithOperands(_, _ optimize.Expr) optimize.Expr { return n }
func (n *NumberLit) NewLiteral(v int64) optimize.Expr              { return &NumberLit{Value: v, Line: n.Line} }

func (v *VarRef) Binary() (string, optimize.Expr, optimize.Expr, bool) { return "", nil, nil, false }
func (v *VarRef) Literal() (int64, bool)                               { return 0, false }
func (v *VarRef) WithOperands(_, _ optimize.Expr) optimize.Expr        { return v }
func (v *VarRef) NewLiteral(val int64) optimize.Expr                   { return &NumberLit{Value: val, Line: v.Line} }

func (b *BinaryExpr) Binary() (string, optimize.Expr, optimize.Expr, bool) {
	return b.Op, b.Left, b.Right, true
}
func (b *BinaryExpr) Literal() (int64, bool) { return 0, false }
func (b *BinaryExpr) WithOperands(left, right optimize.Expr) optimize.Expr {
	return &BinaryExpr{Op: b.Op, Left: left.(Expr), Right: right.(Expr), Line: b.Line}
}
func (b *BinaryExpr) NewLiteral(v int64) optimize.Expr {
	return &NumberLit{Value: v, Line: b.Line}
}

func (n *NumberLit) render(sb *strings.Builder) {
	sb.WriteString(strconv.FormatInt(n.Value, 10))
}

func (v *VarRef) render(sb *strings.Builder) {
	sb.WriteString(v.Name)
}

func (b *BinaryExpr) render(sb *strings.Builder) {
	// Скобки всегда: восстановленный текст не зависит от приоритетов
	// целевого синтаксиса.
	sb.WriteByte('(')
	b.Left.render(sb)
	sb.WriteByte(' ')
	sb.WriteString(b.Op)
	sb.WriteByte(' ')
	b.Right.render(sb)
	sb.WriteByte(')')
}

// Render serializes the (possibly folded) tree for the execution adapter:
// one line per binding, each line the binding's value expression in infix
// syntax. A fully folded program renders as bare literals.
func (p *Program) Render() (string, error) {
	var sb strings.Builder
	for i, stmt := range p.Stmts {
		if i > 0 {
			sb.WriteByte('\n')
		}
		renderTopLevel(stmt.Value, &sb)
	}
	return sb.String(), nil
}

// Canonical reconstructs the program in minilang's own syntax.
func (p *Program) Canonical() string {
	var sb strings.Builder
	for i, stmt := range p.Stmts {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("let ")
		sb.WriteString(stmt.Name)
		sb.WriteString(" = ")
		renderTopLevel(stmt.Value, &sb)
	}
	return sb.String()
}

// renderTopLevel опускает внешние скобки вокруг бинарного выражения.
func renderTopLevel(e Expr, sb *strings.Builder) {
	if b, ok := e.(*BinaryExpr); ok {
		inner := &strings.Builder{}
		b.render(inner)
		s := inner.String()
		sb.WriteString(s[1 : len(s)-1])
		return
	}
	e.render(sb)
}

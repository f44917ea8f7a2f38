package goast

import (
	"go/ast"
	gotoken "go/token"
	"strconv"

	"polyc/internal/optimize"
)

var foldableOps = map[gotoken.Token]string{
	gotoken.ADD: "+",
	gotoken.SUB: "-",
	gotoken.MUL: "*",
	gotoken.QUO: "/",
}

// exprNode adapts a Go expression to the generic folder. Parentheses are
// transparent: folding (1 + 2) and 1 + 2 gives the same literal.
type exprNode struct{ x ast.Expr }

func stripParens(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

func (n exprNode) Binary() (string, optimize.Expr, optimize.Expr, bool) {
	b, ok := stripParens(n.x).(*ast.BinaryExpr)
	if !ok {
		return "", nil, nil, false
	}
	op, ok := foldableOps[b.Op]
	if !ok {
		return "", nil, nil, false
	}
	return op, exprNode{b.X}, exprNode{b.Y}, true
}

func (n exprNode) Literal() (int64, bool) {
	lit, ok := stripParens(n.x).(*ast.BasicLit)
	if !ok || lit.Kind != gotoken.INT {
		return 0, false
	}
	// База 0: десятичные, шестнадцатеричные и литералы с подчёркиваниями.
	v, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (n exprNode) WithOperands(left, right optimize.Expr) optimize.Expr {
	b, ok := stripParens(n.x).(*ast.BinaryExpr)
	if !ok {
		return n
	}
	return exprNode{&ast.BinaryExpr{
		X:     left.(exprNode).x,
		OpPos: b.OpPos,
		Op:    b.Op,
		Y:     right.(exprNode).x,
	}}
}

func (n exprNode) NewLiteral(v int64) optimize.Expr {
	return exprNode{&ast.BasicLit{Kind: gotoken.INT, Value: strconv.FormatInt(v, 10)}}
}

// foldExpr rewrites e with every constant integer sub-expression collapsed.
// The generic folder walks + - * / chains itself; this wrapper carries the
// rewrite through nodes the folder treats as opaque leaves, call arguments
// and composite literals among them.
func foldExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *ast.ParenExpr:
		x.X = foldExpr(x.X)
	case *ast.BinaryExpr:
		x.X = foldExpr(x.X)
		x.Y = foldExpr(x.Y)
	case *ast.UnaryExpr:
		x.X = foldExpr(x.X)
	case *ast.CallExpr:
		for i, arg := range x.Args {
			x.Args[i] = foldExpr(arg)
		}
	case *ast.IndexExpr:
		x.Index = foldExpr(x.Index)
	case *ast.KeyValueExpr:
		x.Value = foldExpr(x.Value)
	case *ast.CompositeLit:
		for i, elt := range x.Elts {
			x.Elts[i] = foldExpr(elt)
		}
	}
	return optimize.FoldConstants(exprNode{e}).(exprNode).x
}

// foldFile сворачивает константы во всех выражениях на позициях значений.
func foldFile(f *ast.File) {
	ast.Inspect(f, func(n ast.Node) bool {
		switch s := n.(type) {
		case *ast.AssignStmt:
			for i, r := range s.Rhs {
				s.Rhs[i] = foldExpr(r)
			}
		case *ast.ValueSpec:
			for i, v := range s.Values {
				s.Values[i] = foldExpr(v)
			}
		case *ast.ReturnStmt:
			for i, r := range s.Results {
				s.Results[i] = foldExpr(r)
			}
		case *ast.ExprStmt:
			s.X = foldExpr(s.X)
		case *ast.IfStmt:
			s.Cond = foldExpr(s.Cond)
		case *ast.ForStmt:
			if s.Cond != nil {
				s.Cond = foldExpr(s.Cond)
			}
		case *ast.SwitchStmt:
			if s.Tag != nil {
				s.Tag = foldExpr(s.Tag)
			}
		}
		return true
	})
}

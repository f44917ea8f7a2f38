package optimize

// Expr is the capability set the constant folder needs from a syntax tree.
// Node variants stay language-specific; front ends adapt their own AST to
// this interface.
type Expr interface {
	// Binary reports whether the node is a binary operation and returns its
	// operator and operands.
	Binary() (op string, left, right Expr, ok bool)
	// Literal reports whether the node is an integer literal and returns
	// its value.
	Literal() (int64, bool)
	// WithOperands returns the node with both operands replaced. Arity must
	// be preserved: callers pass exactly the two operands of a binary node.
	WithOperands(left, right Expr) Expr
	// NewLiteral builds a literal node of the same language holding v.
	NewLiteral(v int64) Expr
}

// FoldConstants folds constant sub-expressions bottom-up. A binary node whose
// operands are both literals is replaced by a single literal holding the
// computed value. Division by a literal zero is left unfolded and deferred to
// execution time. Folding an already fully folded tree is a no-op.
//
// Numeric policy: wrapping two's-complement int64 arithmetic.
func FoldConstants(e Expr) Expr {
	op, left, right, ok := e.Binary()
	if !ok {
		return e
	}
	left = FoldConstants(left)
	right = FoldConstants(right)

	lv, lok := left.Literal()
	rv, rok := right.Literal()
	if lok && rok {
		if v, ok := evalBinary(op, lv, rv); ok {
			return e.NewLiteral(v)
		}
	}
	return e.WithOperands(left, right)
}

// evalBinary применяет оператор к двум литералам.
// Деление на ноль не сворачивается — ошибка всплывает на этапе execute.
func evalBinary(op string, lhs, rhs int64) (int64, bool) {
	switch op {
	case "+":
		return lhs + rhs, true
	case "-":
		return lhs - rhs, true
	case "*":
		return lhs * rhs, true
	case "/":
		if rhs == 0 {
			return 0, false
		}
		if lhs == minInt64 && rhs == -1 {
			// INT64_MIN / -1 traps in hardware; wrap explicitly.
			return minInt64, true
		}
		return lhs / rhs, true
	}
	return 0, false
}

const minInt64 = -1 << 63

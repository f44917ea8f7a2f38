package optimize

import "polyc/internal/token"

// TokenPeephole rewrites algebraically redundant windows in a token stream.
// Single pass, no backtracking; a stream with no matching window comes back
// unchanged. The rewrite never inserts tokens, only drops them, so sequence
// order is preserved.
//
// Windows:
//   - value `+` 0  / value `-` 0   (dropped unless a higher-precedence
//     operator follows: `a + 0 * b` must stay intact)
//   - value `*` 1  / value `/` 1
//   - `-` `-` number in unary position (double negation)
func TokenPeephole(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if n := matchWindow(tokens, i); n > 0 {
			i += n - 1
			continue
		}
		out = append(out, tokens[i])
	}
	return out
}

// matchWindow возвращает длину избыточного окна, начинающегося в позиции i,
// либо 0, если переписывать нечего.
func matchWindow(tokens []token.Token, i int) int {
	// value (+|-) 0, value (*|/) 1: окно начинается с оператора,
	// предыдущий токен уже скопирован в out.
	if i > 0 && tokens[i-1].IsValue() && i+1 < len(tokens) {
		op, lit := tokens[i], tokens[i+1]
		if op.Kind == token.Operator && lit.Kind == token.Number {
			switch {
			case (op.Text == "+" || op.Text == "-") && lit.Text == "0":
				if !followedByMulDiv(tokens, i+2) {
					return 2
				}
			case (op.Text == "*" || op.Text == "/") && lit.Text == "1":
				return 2
			}
		}
	}

	// -- number в унарной позиции: двойное отрицание.
	if i+2 < len(tokens) &&
		(i == 0 || !tokens[i-1].IsValue()) &&
		isMinus(tokens[i]) && isMinus(tokens[i+1]) &&
		tokens[i+2].Kind == token.Number {
		return 2
	}
	return 0
}

func followedByMulDiv(tokens []token.Token, i int) bool {
	if i >= len(tokens) {
		return false
	}
	t := tokens[i]
	return t.Kind == token.Operator && (t.Text == "*" || t.Text == "/")
}

func isMinus(t token.Token) bool {
	return t.Kind == token.Operator && t.Text == "-"
}

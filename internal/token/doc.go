// Package token defines the lexical token model shared by every front end.
// Invariants:
//   - Token.Text is the exact lexeme as it appeared in the source.
//   - Token.Line is 1-based and refers to the line the lexeme starts on.
//   - Keyword recognition is case-sensitive; only lowercase forms are keywords.
//   - Kinds are language-neutral: front ends and the generative backend must
//     both produce tokens in this schema, nothing richer.
package token

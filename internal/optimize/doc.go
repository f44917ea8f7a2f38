// Package optimize provides the two deterministic optimization strategies:
// a peephole rewriter over token sequences and a bottom-up constant folder
// over syntax trees. Both are stateless, know nothing about the pipeline and
// are shared by the generic path and the hand-written front ends.
package optimize

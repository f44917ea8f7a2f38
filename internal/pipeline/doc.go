// Package pipeline defines the compiler contract shared by every language
// and the orchestration that runs it: six phases in fixed order
// (lexical, syntax, semantic, optimize, irgen, execute), a tagged-union
// artifact passed between phases, and the bounded regeneration retry loop
// for recoverable failures.
//
// Invariants:
//   - Each phase is a pure function of the previous artifact plus the
//     compiler instance's configuration; no package-level mutable state.
//   - Exactly one tree artifact is live per in-flight compile request.
//   - Every phase failure produces exactly one diagnostic, recovered or not.
//   - No artifact survives across attempts or across compile calls.
package pipeline

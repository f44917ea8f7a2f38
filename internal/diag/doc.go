// Package diag defines the diagnostic model shared by all pipeline phases.
//
//   - Phase identifies the stage a finding originated from (lexical, syntax,
//     semantic, optimize, irgen, execute).
//   - Diagnostic is the serialisable record handed back to callers; it carries
//     no source spans because front ends report line numbers in the message
//     when they have them.
//   - Error is the typed failure every phase returns; Recoverable marks
//     findings eligible for the regeneration retry loop.
//   - Bag aggregates diagnostics across attempts with a capacity bound.
//
// Package diag performs no formatting or IO; rendering lives in the CLI.
package diag

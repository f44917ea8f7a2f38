package pipeline

import "polyc/internal/diag"

// Result is what every compile call returns. Callers never see a panic or an
// unhandled fault; failures arrive as diagnostics, oldest first, across all
// attempts.
type Result struct {
	Success bool
	// Output is the captured stdout of the executed program.
	Output string
	// Diagnostics holds every phase failure from every attempt, so a caller
	// can tell "fixed after N retries" from "failed after N retries".
	Diagnostics []diag.Diagnostic
	// Attempts is the number of pipeline attempts actually run.
	Attempts int
}

// Package genai wraps the external code-generation capability used by the
// generic compiler and the recovery loop. The pipeline treats it as an opaque
// boundary: one method, candidate strings out, plain errors that callers map
// to recoverable diagnostics.
package genai

import "context"

// Service is the single-method capability the pipeline depends on.
// Implementations must be safe for concurrent use; the handle is shared
// read-only across compile requests.
type Service interface {
	Generate(ctx context.Context, prompt string) ([]string, error)
}

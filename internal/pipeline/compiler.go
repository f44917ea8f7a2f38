package pipeline

import "context"

// Compiler is the phase sequence every language must expose. Implementations
// are value types configured at construction (language name, backend handle,
// toolchain command table); the Runner owns orchestration and recovery.
type Compiler interface {
	// Language returns the language identifier the instance compiles.
	Language() string

	// Lexical turns raw source into the next artifact, normally tokens.
	Lexical(ctx context.Context, source string) (Artifact, error)
	// Syntax analyses the lexical artifact.
	Syntax(ctx context.Context, art Artifact) (Artifact, error)
	// Semantic validates the syntactic artifact in place. May be a shape-only
	// validator for languages whose checks surface at execute time.
	Semantic(ctx context.Context, art Artifact) (Artifact, error)
	// Optimize is the deterministic rewrite stage; it takes no context
	// because it never blocks.
	Optimize(art Artifact) (Artifact, error)
	// GenerateIR produces the backend-specific artifact, usually runnable
	// target-language source.
	GenerateIR(ctx context.Context, art Artifact) (Artifact, error)
	// Execute runs the generated artifact and returns captured stdout.
	Execute(ctx context.Context, art Artifact) (string, error)
}

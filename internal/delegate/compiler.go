// Package delegate implements the generic compiler: one configurable
// implementation that services an open-ended set of languages by delegating
// analysis phases to the generative backend. The cost is non-determinism;
// the one deterministic phase is the token peephole pass, and execution is
// always the real toolchain.
package delegate

import (
	"context"

	"polyc/internal/diag"
	"polyc/internal/genai"
	"polyc/internal/optimize"
	"polyc/internal/pipeline"
	"polyc/internal/toolchain"
)

// Compiler is the AI-delegated pipeline for one language.
type Compiler struct {
	language string
	backend  genai.Service
	tool     toolchain.Spec
}

// New builds a delegate compiler for a language with its toolchain entry.
func New(language string, backend genai.Service, tool toolchain.Spec) *Compiler {
	return &Compiler{language: language, backend: backend, tool: tool}
}

func (c *Compiler) Language() string { return c.language }

// Lexical asks the backend to tokenize source into the shared schema and
// returns the first candidate that validates.
func (c *Compiler) Lexical(ctx context.Context, source string) (pipeline.Artifact, error) {
	candidates, err := c.backend.Generate(ctx, genai.TokenizePrompt(c.language, source))
	if err != nil {
		return pipeline.Artifact{}, diag.BackendUnavailablef("tokenize call: %v", err)
	}
	var lastErr error
	for _, candidate := range candidates {
		tokens, perr := parseTokenCandidate(candidate)
		if perr == nil {
			return pipeline.TokensArtifact(tokens), nil
		}
		lastErr = perr
	}
	if lastErr != nil {
		return pipeline.Artifact{}, diag.Lexicalf("no candidate tokenization matched the schema: %v", lastErr)
	}
	return pipeline.Artifact{}, diag.Lexicalf("backend returned no tokenization candidates")
}

// Syntax sends the token stream for a parse check. The accepted stream (in
// the same schema) becomes the next artifact; a reported error object is a
// recoverable syntax error.
func (c *Compiler) Syntax(ctx context.Context, art pipeline.Artifact) (pipeline.Artifact, error) {
	tokens, err := art.ExpectTokens()
	if err != nil {
		return pipeline.Artifact{}, err
	}
	candidates, err := c.backend.Generate(ctx, genai.SyntaxPrompt(c.language, marshalTokens(tokens)))
	if err != nil {
		return pipeline.Artifact{}, diag.BackendUnavailablef("parse-check call: %v", err)
	}
	for _, candidate := range candidates {
		accepted, syntaxMsg, perr := parseSyntaxCandidate(candidate)
		if perr != nil {
			continue
		}
		if syntaxMsg != "" {
			return pipeline.Artifact{}, diag.Syntaxf("%s", syntaxMsg)
		}
		return pipeline.TokensArtifact(accepted), nil
	}
	return pipeline.Artifact{}, diag.Syntaxf("no well-formed parse-check response")
}

// Semantic is a shape-only validator: static checks for delegated languages
// surface at execute time through the real toolchain.
func (c *Compiler) Semantic(_ context.Context, art pipeline.Artifact) (pipeline.Artifact, error) {
	if _, err := art.ExpectTokens(); err != nil {
		return pipeline.Artifact{}, err
	}
	return art, nil
}

// Optimize runs the deterministic peephole pass over the token artifact.
func (c *Compiler) Optimize(art pipeline.Artifact) (pipeline.Artifact, error) {
	tokens, err := art.ExpectTokens()
	if err != nil {
		return pipeline.Artifact{}, err
	}
	return pipeline.TokensArtifact(optimize.TokenPeephole(tokens)), nil
}

// GenerateIR asks the backend for runnable target-language source.
func (c *Compiler) GenerateIR(ctx context.Context, art pipeline.Artifact) (pipeline.Artifact, error) {
	tokens, err := art.ExpectTokens()
	if err != nil {
		return pipeline.Artifact{}, err
	}
	candidates, err := c.backend.Generate(ctx, genai.IRGenPrompt(c.language, renderTokens(tokens)))
	if err != nil {
		return pipeline.Artifact{}, diag.BackendUnavailablef("codegen call: %v", err)
	}
	for _, candidate := range candidates {
		if code := stripFences(candidate); code != "" {
			return pipeline.TextArtifact(code), nil
		}
	}
	return pipeline.Artifact{}, diag.BackendUnavailablef("codegen returned no usable candidate")
}

// Execute hands the generated source to the language's toolchain adapter.
func (c *Compiler) Execute(ctx context.Context, art pipeline.Artifact) (string, error) {
	code, err := art.ExpectText()
	if err != nil {
		return "", err
	}
	return toolchain.Run(ctx, c.tool, code)
}

var _ pipeline.Compiler = (*Compiler)(nil)

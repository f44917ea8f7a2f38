package minilang

import (
	"context"

	"polyc/internal/diag"
	"polyc/internal/optimize"
	"polyc/internal/pipeline"
	"polyc/internal/toolchain"
)

// LanguageID is the registry identifier of the front end.
const LanguageID = "mini"

// Compiler implements the pipeline contract with fully deterministic phases.
type Compiler struct {
	tool toolchain.Spec
}

// New builds the front end with the execution adapter to serialize into.
func New(tool toolchain.Spec) *Compiler {
	return &Compiler{tool: tool}
}

func (c *Compiler) Language() string { return LanguageID }

func (c *Compiler) Lexical(_ context.Context, source string) (pipeline.Artifact, error) {
	tokens, err := NewLexer(source).Tokens()
	if err != nil {
		return pipeline.Artifact{}, err
	}
	return pipeline.TokensArtifact(tokens), nil
}

func (c *Compiler) Syntax(_ context.Context, art pipeline.Artifact) (pipeline.Artifact, error) {
	tokens, err := art.ExpectTokens()
	if err != nil {
		return pipeline.Artifact{}, err
	}
	prog, err := Parse(tokens)
	if err != nil {
		return pipeline.Artifact{}, err
	}
	return pipeline.TreeArtifact(prog), nil
}

// Semantic проверяет, что каждое имя связано раньше своего использования.
func (c *Compiler) Semantic(_ context.Context, art pipeline.Artifact) (pipeline.Artifact, error) {
	prog, err := expectProgram(art)
	if err != nil {
		return pipeline.Artifact{}, err
	}
	bound := make(map[string]struct{}, len(prog.Stmts))
	for _, stmt := range prog.Stmts {
		if err := checkBound(stmt.Value, bound); err != nil {
			return pipeline.Artifact{}, err
		}
		bound[stmt.Name] = struct{}{}
	}
	return art, nil
}

// Optimize folds constants bottom-up, mutating bindings in place. The tree
// stays well-formed: folding replaces whole sub-expressions only.
func (c *Compiler) Optimize(art pipeline.Artifact) (pipeline.Artifact, error) {
	prog, err := expectProgram(art)
	if err != nil {
		return pipeline.Artifact{}, err
	}
	for _, stmt := range prog.Stmts {
		folded, ok := optimize.FoldConstants(stmt.Value).(Expr)
		if !ok {
			return pipeline.Artifact{}, diag.Internalf("folder returned a foreign node for binding %q", stmt.Name)
		}
		stmt.Value = folded
	}
	return art, nil
}

func (c *Compiler) GenerateIR(_ context.Context, art pipeline.Artifact) (pipeline.Artifact, error) {
	prog, err := expectProgram(art)
	if err != nil {
		return pipeline.Artifact{}, err
	}
	text, err := prog.Render()
	if err != nil {
		return pipeline.Artifact{}, diag.Internalf("render: %v", err)
	}
	return pipeline.TextArtifact(text), nil
}

func (c *Compiler) Execute(ctx context.Context, art pipeline.Artifact) (string, error) {
	code, err := art.ExpectText()
	if err != nil {
		return "", err
	}
	return toolchain.Run(ctx, c.tool, code)
}

func expectProgram(art pipeline.Artifact) (*Program, error) {
	tree, err := art.ExpectTree()
	if err != nil {
		return nil, err
	}
	prog, ok := tree.(*Program)
	if !ok {
		return nil, diag.Internalf("tree artifact is not a minilang program")
	}
	return prog, nil
}

func checkBound(e Expr, bound map[string]struct{}) error {
	switch n := e.(type) {
	case *VarRef:
		if _, ok := bound[n.Name]; !ok {
			return diag.Semanticf("line %d: name %q used before it is bound", n.Line, n.Name)
		}
	case *BinaryExpr:
		if err := checkBound(n.Left, bound); err != nil {
			return err
		}
		return checkBound(n.Right, bound)
	}
	return nil
}

var _ pipeline.Compiler = (*Compiler)(nil)

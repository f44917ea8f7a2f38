// Package goast is the host-language front end: Go snippets scanned and
// parsed with the standard library's real grammar, folded on the genuine
// syntax tree and executed through the go toolchain adapter.
package goast

import (
	"bytes"
	"context"
	"go/ast"
	"go/parser"
	"go/printer"
	gotoken "go/token"

	"polyc/internal/diag"
	"polyc/internal/pipeline"
	"polyc/internal/toolchain"
)

// LanguageID is the registry identifier of the front end.
const LanguageID = "go-ast"

// Compiler drives Go snippets through the six phases. One Compiler value
// serves one compile request: Lexical keeps the source text for the parse
// that follows, so the registry constructs a fresh value per request.
type Compiler struct {
	tool   toolchain.Spec
	source string
}

// New builds the front end with the execution adapter to hand rendered
// code to.
func New(tool toolchain.Spec) *Compiler {
	return &Compiler{tool: tool}
}

func (c *Compiler) Language() string { return LanguageID }

func (c *Compiler) Lexical(_ context.Context, source string) (pipeline.Artifact, error) {
	tokens, err := scanSource(source)
	if err != nil {
		return pipeline.Artifact{}, err
	}
	c.source = source
	return pipeline.TokensArtifact(tokens), nil
}

func (c *Compiler) Syntax(_ context.Context, art pipeline.Artifact) (pipeline.Artifact, error) {
	if _, err := art.ExpectTokens(); err != nil {
		return pipeline.Artifact{}, err
	}
	fset := gotoken.NewFileSet()
	file, err := parser.ParseFile(fset, "src.go", c.source, 0)
	if err != nil {
		return pipeline.Artifact{}, diag.Syntaxf("%v", err)
	}
	return pipeline.TreeArtifact(&goTree{fset: fset, file: file}), nil
}

// Semantic проверяет ровно то, что нужно адаптеру go run: пакет main
// с функцией main. Остальное проверит сам тулчейн на этапе execute.
func (c *Compiler) Semantic(_ context.Context, art pipeline.Artifact) (pipeline.Artifact, error) {
	t, err := expectGoTree(art)
	if err != nil {
		return pipeline.Artifact{}, err
	}
	if t.file.Name.Name != "main" {
		return pipeline.Artifact{}, diag.Semanticf("snippet must declare package main, got %q", t.file.Name.Name)
	}
	for _, decl := range t.file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil && fn.Name.Name == "main" {
			return art, nil
		}
	}
	return pipeline.Artifact{}, diag.Semanticf("snippet declares no func main")
}

func (c *Compiler) Optimize(art pipeline.Artifact) (pipeline.Artifact, error) {
	t, err := expectGoTree(art)
	if err != nil {
		return pipeline.Artifact{}, err
	}
	foldFile(t.file)
	return art, nil
}

func (c *Compiler) GenerateIR(_ context.Context, art pipeline.Artifact) (pipeline.Artifact, error) {
	t, err := expectGoTree(art)
	if err != nil {
		return pipeline.Artifact{}, err
	}
	text, err := t.Render()
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

// goTree держит дерево вместе с его FileSet: принтеру нужны позиции.
type goTree struct {
	fset *gotoken.FileSet
	file *ast.File
}

func (t *goTree) Render() (string, error) {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, t.fset, t.file); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func expectGoTree(art pipeline.Artifact) (*goTree, error) {
	tree, err := art.ExpectTree()
	if err != nil {
		return nil, err
	}
	t, ok := tree.(*goTree)
	if !ok {
		return nil, diag.Internalf("tree artifact is not a Go syntax tree")
	}
	return t, nil
}

var _ pipeline.Compiler = (*Compiler)(nil)

package pipeline

import (
	"polyc/internal/diag"
	"polyc/internal/token"
)

// ArtifactKind tags the shape of an intermediate artifact.
type ArtifactKind uint8

const (
	// ArtifactNone is the zero artifact.
	ArtifactNone ArtifactKind = iota
	// ArtifactTokens is an ordered token sequence.
	ArtifactTokens
	// ArtifactTree is an opaque syntax tree owned by one compile request.
	ArtifactTree
	// ArtifactText is raw text: source, generated code, or backend output.
	ArtifactText
)

func (k ArtifactKind) String() string {
	switch k {
	case ArtifactNone:
		return "none"
	case ArtifactTokens:
		return "tokens"
	case ArtifactTree:
		return "tree"
	case ArtifactText:
		return "text"
	}
	return "unknown"
}

// Tree is the opaque syntax-tree handle a front end's parser produces.
// The pipeline only ever asks it to render back to native source text.
type Tree interface {
	Render() (string, error)
}

// Artifact is the tagged union passed between phases. Each phase checks the
// shape it accepts at the boundary instead of discovering it at runtime.
type Artifact struct {
	Kind   ArtifactKind
	Tokens []token.Token
	Tree   Tree
	Text   string
}

// TokensArtifact wraps a token sequence.
func TokensArtifact(tokens []token.Token) Artifact {
	return Artifact{Kind: ArtifactTokens, Tokens: tokens}
}

// TreeArtifact wraps a syntax tree.
func TreeArtifact(tree Tree) Artifact {
	return Artifact{Kind: ArtifactTree, Tree: tree}
}

// TextArtifact wraps raw text.
func TextArtifact(text string) Artifact {
	return Artifact{Kind: ArtifactText, Text: text}
}

// ExpectTokens unwraps a token artifact; a shape mismatch is an internal
// invariant violation, never retried.
func (a Artifact) ExpectTokens() ([]token.Token, error) {
	if a.Kind != ArtifactTokens {
		return nil, diag.Internalf("expected token artifact, got %s", a.Kind)
	}
	return a.Tokens, nil
}

// ExpectTree unwraps a tree artifact.
func (a Artifact) ExpectTree() (Tree, error) {
	if a.Kind != ArtifactTree || a.Tree == nil {
		return nil, diag.Internalf("expected tree artifact, got %s", a.Kind)
	}
	return a.Tree, nil
}

// ExpectText unwraps a text artifact.
func (a Artifact) ExpectText() (string, error) {
	if a.Kind != ArtifactText {
		return "", diag.Internalf("expected text artifact, got %s", a.Kind)
	}
	return a.Text, nil
}

package delegate

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"polyc/internal/diag"
	"polyc/internal/genai"
	"polyc/internal/pipeline"
	"polyc/internal/token"
	"polyc/internal/toolchain"
)

const printTokens = `[
  {"kind": "ident", "text": "print", "line": 1},
  {"kind": "punct", "text": "(", "line": 1},
  {"kind": "number", "text": "42", "line": 1},
  {"kind": "punct", "text": ")", "line": 1}
]`

func TestLexical_PicksFirstSchemaValidCandidate(t *testing.T) {
	backend := genai.NewScripted([]string{"not json at all", "```json\n" + printTokens + "\n```"})
	c := New("ruby", backend, toolchain.Spec{Name: "ruby"})

	art, err := c.Lexical(context.Background(), `print(42)`)
	if err != nil {
		t.Fatalf("Lexical() error = %v", err)
	}
	tokens, err := art.ExpectTokens()
	if err != nil {
		t.Fatalf("ExpectTokens() error = %v", err)
	}
	want := []token.Token{
		{Kind: token.Ident, Text: "print", Line: 1},
		{Kind: token.Punct, Text: "(", Line: 1},
		{Kind: token.Number, Text: "42", Line: 1},
		{Kind: token.Punct, Text: ")", Line: 1},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestLexical_NoValidCandidateIsRecoverable(t *testing.T) {
	backend := genai.NewScripted([]string{"garbage", `[{"kind": "mystery", "text": "x", "line": 1}]`})
	c := New("ruby", backend, toolchain.Spec{Name: "ruby"})

	_, err := c.Lexical(context.Background(), "x")
	var derr *diag.Error
	if !errors.As(err, &derr) {
		t.Fatalf("Lexical() error = %T, want *diag.Error", err)
	}
	if derr.Phase != diag.PhaseLexical || !derr.Recoverable {
		t.Fatalf("Lexical() error = %+v, want recoverable lexical", derr)
	}
}

func TestLexical_BackendFailureIsRecoverable(t *testing.T) {
	c := New("ruby", genai.NewFailing(errors.New("timeout")), toolchain.Spec{Name: "ruby"})
	_, err := c.Lexical(context.Background(), "x")
	var derr *diag.Error
	if !errors.As(err, &derr) || derr.Phase != diag.PhaseBackend || !derr.Recoverable {
		t.Fatalf("Lexical() backend failure = %v, want recoverable backend error", err)
	}
}

func TestSyntax_ErrorObjectIsRecoverableSyntaxError(t *testing.T) {
	backend := genai.NewScripted([]string{`{"error": "unbalanced parenthesis"}`})
	c := New("ruby", backend, toolchain.Spec{Name: "ruby"})

	art := pipeline.TokensArtifact([]token.Token{{Kind: token.Punct, Text: "(", Line: 1}})
	_, err := c.Syntax(context.Background(), art)
	var derr *diag.Error
	if !errors.As(err, &derr) {
		t.Fatalf("Syntax() error = %T", err)
	}
	if derr.Phase != diag.PhaseSyntax || !derr.Recoverable {
		t.Fatalf("Syntax() error = %+v, want recoverable syntax", derr)
	}
}

func TestOptimize_AppliesPeephole(t *testing.T) {
	c := New("ruby", genai.NewScripted(), toolchain.Spec{Name: "ruby"})
	art := pipeline.TokensArtifact([]token.Token{
		{Kind: token.Ident, Text: "x", Line: 1},
		{Kind: token.Operator, Text: "+", Line: 1},
		{Kind: token.Number, Text: "0", Line: 1},
	})
	got, err := c.Optimize(art)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	tokens, _ := got.ExpectTokens()
	if len(tokens) != 1 || tokens[0].Text != "x" {
		t.Fatalf("Optimize() tokens = %v, want just x", tokens)
	}
}

func TestOptimize_RejectsWrongShape(t *testing.T) {
	c := New("ruby", genai.NewScripted(), toolchain.Spec{Name: "ruby"})
	_, err := c.Optimize(pipeline.TextArtifact("code"))
	var derr *diag.Error
	if !errors.As(err, &derr) || derr.Recoverable {
		t.Fatalf("Optimize(text) = %v, want fatal internal error", err)
	}
}

// Полный прогон через Runner: бэкенд расписан на токенизацию, парсинг и
// кодогенерацию, исполняет cat-адаптер.
func TestEndToEnd_DelegatePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("adapter test uses cat")
	}
	backend := genai.NewScripted(
		[]string{printTokens},
		[]string{printTokens},
		[]string{"puts 42"},
	)
	tool := toolchain.Spec{Name: "fake-ruby", Extension: ".rb", RunCmd: []string{"cat", "{src}"}}
	c := New("ruby", backend, tool)
	r := &pipeline.Runner{Backend: backend, MaxRetries: 3}

	res := r.Run(context.Background(), c, "print(42)")
	if !res.Success {
		t.Fatalf("Run() = %+v, want success", res)
	}
	if res.Output != "puts 42" {
		t.Fatalf("Output = %q, want generated program text", res.Output)
	}
	if res.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1", res.Attempts)
	}
	if backend.Calls() != 3 {
		t.Fatalf("backend calls = %d, want 3 (lexical, syntax, irgen)", backend.Calls())
	}
}

func TestRenderTokens_LineBreaks(t *testing.T) {
	got := renderTokens([]token.Token{
		{Kind: token.Keyword, Text: "let", Line: 1},
		{Kind: token.Ident, Text: "x", Line: 1},
		{Kind: token.Keyword, Text: "let", Line: 2},
		{Kind: token.Ident, Text: "y", Line: 2},
	})
	want := "let x\nlet y"
	if got != want {
		t.Fatalf("renderTokens() = %q, want %q", got, want)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"```\ncode\n```", "code"},
		{"```python\nprint(1)\n```", "print(1)"},
		{"  ```json\n[1]\n```  ", "[1]"},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Fatalf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

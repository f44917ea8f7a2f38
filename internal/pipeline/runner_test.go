package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"polyc/internal/diag"
	"polyc/internal/genai"
	"polyc/internal/pipeline"
)

// stubCompiler прогоняет фазы детерминированно; behave решает судьбу
// каждого кандидата исходника.
type stubCompiler struct {
	behave func(source string) error
	output string
}

func (s *stubCompiler) Language() string { return "stub" }

func (s *stubCompiler) Lexical(_ context.Context, source string) (pipeline.Artifact, error) {
	if err := s.behave(source); err != nil {
		return pipeline.Artifact{}, err
	}
	return pipeline.TextArtifact(source), nil
}

func (s *stubCompiler) Syntax(_ context.Context, a pipeline.Artifact) (pipeline.Artifact, error) {
	return a, nil
}

func (s *stubCompiler) Semantic(_ context.Context, a pipeline.Artifact) (pipeline.Artifact, error) {
	return a, nil
}

func (s *stubCompiler) Optimize(a pipeline.Artifact) (pipeline.Artifact, error) { return a, nil }

func (s *stubCompiler) GenerateIR(_ context.Context, a pipeline.Artifact) (pipeline.Artifact, error) {
	return a, nil
}

func (s *stubCompiler) Execute(_ context.Context, _ pipeline.Artifact) (string, error) {
	return s.output, nil
}

func TestRun_SuccessFirstAttempt(t *testing.T) {
	c := &stubCompiler{behave: func(string) error { return nil }, output: "ok"}
	r := &pipeline.Runner{MaxRetries: 3}
	res := r.Run(context.Background(), c, "src")
	if !res.Success || res.Output != "ok" || res.Attempts != 1 {
		t.Fatalf("Run() = %+v, want success on first attempt", res)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %v, want none", res.Diagnostics)
	}
}

// Бэкенд всегда возвращает кандидата с той же ошибкой: ровно budget+1 попыток
// и budget+1 диагностик, старые первыми.
func TestRun_RetryBudgetExhausted(t *testing.T) {
	c := &stubCompiler{behave: func(string) error { return diag.Syntaxf("unexpected token") }}
	backend := genai.NewScripted([]string{"still broken"})
	r := &pipeline.Runner{Backend: backend, MaxRetries: 3}

	res := r.Run(context.Background(), c, "src")
	if res.Success {
		t.Fatal("Run() succeeded, want failure")
	}
	if res.Attempts != 4 {
		t.Fatalf("Attempts = %d, want 4 (budget 3 + 1)", res.Attempts)
	}
	if len(res.Diagnostics) != 4 {
		t.Fatalf("len(Diagnostics) = %d, want 4", len(res.Diagnostics))
	}
	for i, d := range res.Diagnostics {
		if d.Attempt != i+1 {
			t.Fatalf("diagnostics out of order: %v", res.Diagnostics)
		}
		if d.Phase != diag.PhaseSyntax || !d.Recoverable {
			t.Fatalf("diagnostic %d = %+v, want recoverable syntax", i, d)
		}
	}
	if backend.Calls() != 3 {
		t.Fatalf("backend calls = %d, want 3 (one per retry)", backend.Calls())
	}
}

func TestRun_RecoversAfterRegeneration(t *testing.T) {
	c := &stubCompiler{
		behave: func(source string) error {
			if source == "broken" {
				return diag.Lexicalf("bad byte")
			}
			return nil
		},
		output: "fixed output",
	}
	backend := genai.NewScripted([]string{"repaired"})
	r := &pipeline.Runner{Backend: backend, MaxRetries: 3}

	res := r.Run(context.Background(), c, "broken")
	if !res.Success {
		t.Fatalf("Run() = %+v, want success after regeneration", res)
	}
	if res.Attempts != 2 {
		t.Fatalf("Attempts = %d, want 2", res.Attempts)
	}
	// Диагностика первой попытки сохраняется и при успехе.
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Phase != diag.PhaseLexical {
		t.Fatalf("Diagnostics = %v, want the first-attempt lexical error", res.Diagnostics)
	}
	if res.Output != "fixed output" {
		t.Fatalf("Output = %q", res.Output)
	}
}

func TestRun_FatalErrorNotRetried(t *testing.T) {
	c := &stubCompiler{behave: func(string) error { return diag.Executionf("toolchain missing") }}
	backend := genai.NewScripted([]string{"unused"})
	r := &pipeline.Runner{Backend: backend, MaxRetries: 3}

	res := r.Run(context.Background(), c, "src")
	if res.Success || res.Attempts != 1 || len(res.Diagnostics) != 1 {
		t.Fatalf("Run() = %+v, want single fatal attempt", res)
	}
	if backend.Calls() != 0 {
		t.Fatalf("backend called %d times for a fatal error, want 0", backend.Calls())
	}
}

func TestRun_BackendFailureDuringRepair(t *testing.T) {
	c := &stubCompiler{behave: func(string) error { return diag.Syntaxf("nope") }}
	backend := genai.NewFailing(errors.New("connection refused"))
	r := &pipeline.Runner{Backend: backend, MaxRetries: 3}

	res := r.Run(context.Background(), c, "src")
	if res.Success {
		t.Fatal("Run() succeeded, want failure")
	}
	if res.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1 (repair failed)", res.Attempts)
	}
	if len(res.Diagnostics) != 2 {
		t.Fatalf("Diagnostics = %v, want syntax error + backend error", res.Diagnostics)
	}
	if res.Diagnostics[1].Phase != diag.PhaseBackend {
		t.Fatalf("second diagnostic = %+v, want backend phase", res.Diagnostics[1])
	}
}

func TestRun_NoBackendConfigured(t *testing.T) {
	c := &stubCompiler{behave: func(string) error { return diag.Syntaxf("nope") }}
	r := &pipeline.Runner{MaxRetries: 3}

	res := r.Run(context.Background(), c, "src")
	if res.Success || res.Attempts != 1 {
		t.Fatalf("Run() = %+v, want one attempt without recovery", res)
	}
}

func TestRun_CancellationBetweenPhases(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &stubCompiler{behave: func(string) error { return nil }}
	r := &pipeline.Runner{MaxRetries: 3}

	res := r.Run(ctx, c, "src")
	if res.Success {
		t.Fatal("Run() succeeded on a cancelled context")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Recoverable {
		t.Fatalf("Diagnostics = %v, want one fatal cancellation record", res.Diagnostics)
	}
}

func TestRun_ProgressEvents(t *testing.T) {
	events := make(chan pipeline.Event, 64)
	c := &stubCompiler{behave: func(string) error { return nil }, output: "ok"}
	r := &pipeline.Runner{Progress: pipeline.ChannelSink{Ch: events}, Label: "main.src"}

	res := r.Run(context.Background(), c, "src")
	if !res.Success {
		t.Fatalf("Run() = %+v", res)
	}
	close(events)

	var done int
	for evt := range events {
		if evt.Label != "main.src" {
			t.Fatalf("event label = %q", evt.Label)
		}
		if evt.Status == pipeline.StatusDone {
			done++
		}
	}
	if done != 6 {
		t.Fatalf("done events = %d, want one per phase", done)
	}
}

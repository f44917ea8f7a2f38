package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"polyc/internal/diag"
	"polyc/internal/genai"
	"polyc/internal/observ"
)

// DefaultMaxRetries bounds regeneration against a non-deterministic backend.
const DefaultMaxRetries = 3

// Runner owns the default orchestration: the six phases in order, plus the
// recovery protocol for recoverable failures. A Runner is stateless and may
// be shared across concurrent compile requests.
type Runner struct {
	// Backend serves regeneration requests; nil disables recovery.
	Backend genai.Service
	// MaxRetries is the regeneration budget; <= 0 means DefaultMaxRetries.
	MaxRetries int
	// Log receives phase-level structured logs; nil discards them.
	Log *slog.Logger
	// Progress receives per-phase events; nil disables reporting.
	Progress ProgressSink
	// Timer collects phase timings when non-nil.
	Timer *observ.Timer
	// Label identifies the request in progress events; defaults to the
	// compiler's language id.
	Label string
}

// Run compiles source with c, retrying recoverable failures with regenerated
// candidates until success or retry exhaustion. Each attempt restarts from
// the lexical phase with a fresh candidate; no partial state carries over.
func (r *Runner) Run(ctx context.Context, c Compiler, source string) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	maxAttempts := r.MaxRetries + 1
	if r.MaxRetries <= 0 {
		maxAttempts = DefaultMaxRetries + 1
	}

	log := r.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("request", uuid.NewString(), "language", c.Language())

	label := r.Label
	if label == "" {
		label = c.Language()
	}

	bag := diag.NewBag(maxAttempts + 1)
	src := source
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		output, perr := r.runOnce(ctx, c, src, label, attempt, log)
		if perr == nil {
			log.Info("compile succeeded", "attempts", attempt)
			return Result{
				Success:     true,
				Output:      output,
				Diagnostics: snapshot(bag),
				Attempts:    attempt,
			}
		}
		bag.Add(perr.Diagnostic(attempt))
		if !perr.Recoverable || attempt == maxAttempts {
			break
		}

		candidate, rerr := r.regenerate(ctx, c.Language(), source, perr)
		if rerr != nil {
			bag.Add(rerr.Diagnostic(attempt))
			break
		}
		log.Info("retrying with regenerated source", "failed_phase", perr.Phase.String())
		src = candidate
	}

	log.Info("compile failed", "attempts", attempts, "diagnostics", bag.Len())
	return Result{
		Success:     false,
		Diagnostics: snapshot(bag),
		Attempts:    attempts,
	}
}

// runOnce выполняет шесть фаз на одном кандидате исходника.
// Отмена контекста между фазами — фатальная ошибка без утечек.
func (r *Runner) runOnce(ctx context.Context, c Compiler, source, label string, attempt int, log *slog.Logger) (string, *diag.Error) {
	var art Artifact
	var out string
	steps := []struct {
		phase diag.Phase
		fn    func(context.Context) error
	}{
		{diag.PhaseLexical, func(ctx context.Context) (err error) { art, err = c.Lexical(ctx, source); return }},
		{diag.PhaseSyntax, func(ctx context.Context) (err error) { art, err = c.Syntax(ctx, art); return }},
		{diag.PhaseSemantic, func(ctx context.Context) (err error) { art, err = c.Semantic(ctx, art); return }},
		{diag.PhaseOptimize, func(context.Context) (err error) { art, err = c.Optimize(art); return }},
		{diag.PhaseIRGen, func(ctx context.Context) (err error) { art, err = c.GenerateIR(ctx, art); return }},
		{diag.PhaseExecute, func(ctx context.Context) (err error) { out, err = c.Execute(ctx, art); return }},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return "", &diag.Error{Phase: step.phase, Recoverable: false, Err: err}
		}
		emit(r.Progress, Event{Label: label, Phase: step.phase, Status: StatusWorking, Attempt: attempt})

		timerIdx := -1
		if r.Timer != nil {
			timerIdx = r.Timer.Begin(step.phase.String())
		}
		start := time.Now()
		err := step.fn(ctx)
		elapsed := time.Since(start)
		if r.Timer != nil {
			r.Timer.End(timerIdx)
		}

		if err != nil {
			derr := diag.AsError(err, step.phase)
			emit(r.Progress, Event{Label: label, Phase: step.phase, Status: StatusError, Attempt: attempt, Err: derr, Elapsed: elapsed})
			log.Debug("phase failed",
				"phase", step.phase.String(),
				"recoverable", derr.Recoverable,
				"error", derr.Err.Error(),
			)
			return "", derr
		}
		emit(r.Progress, Event{Label: label, Phase: step.phase, Status: StatusDone, Attempt: attempt, Elapsed: elapsed})
		log.Debug("phase done", "phase", step.phase.String(), "elapsed", elapsed)
	}
	return out, nil
}

// regenerate запрашивает у бэкенда исправленный кандидат исходника.
// Промпт всегда строится от оригинального исходника, не от прошлого кандидата.
func (r *Runner) regenerate(ctx context.Context, language, original string, cause *diag.Error) (string, *diag.Error) {
	if r.Backend == nil {
		return "", diag.BackendUnavailablef("no generation backend configured")
	}
	prompt := genai.RepairPrompt(language, original, cause.Phase, cause.Err.Error())
	candidates, err := r.Backend.Generate(ctx, prompt)
	if err != nil {
		return "", diag.BackendUnavailablef("regeneration failed: %v", err)
	}
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}
	return "", diag.BackendUnavailablef("regeneration returned no usable candidate")
}

func snapshot(bag *diag.Bag) []diag.Diagnostic {
	items := bag.Items()
	if len(items) == 0 {
		return nil
	}
	out := make([]diag.Diagnostic, len(items))
	copy(out, items)
	return out
}

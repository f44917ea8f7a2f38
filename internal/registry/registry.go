// Package registry resolves language ids to front ends and exposes the one
// caller-facing compile entry point. Three kinds of front end exist: the
// deterministic minilang compiler, the host-AST Go compiler and the
// AI-delegated compiler for everything in the toolchain command table.
package registry

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/unicode/norm"

	"polyc/internal/cache"
	"polyc/internal/delegate"
	"polyc/internal/diag"
	"polyc/internal/genai"
	"polyc/internal/goast"
	"polyc/internal/minilang"
	"polyc/internal/observ"
	"polyc/internal/pipeline"
	"polyc/internal/toolchain"
)

// Options configures one compile request.
type Options struct {
	// Backend serves the delegate compiler's phases and every front end's
	// recovery protocol; nil disables both.
	Backend genai.Service
	// MaxRetries is the regeneration budget; <= 0 means the default.
	MaxRetries int
	Log        *slog.Logger
	Progress   pipeline.ProgressSink
	Timer      *observ.Timer
	// Label identifies the request in progress events, usually the file path.
	Label string
	// Languages carries manifest overrides for the toolchain command table.
	Languages toolchain.Config
	// Cache, when non-nil, short-circuits repeat compiles of identical source.
	Cache *cache.Disk
}

// echoSpec прогоняет сериализованный minilang-IR через cat: каждая строка
// уже готовый результат, внешний тулчейн не нужен.
var echoSpec = toolchain.Spec{
	Name:      minilang.LanguageID,
	Extension: ".txt",
	RunCmd:    []string{"cat", "{src}"},
}

// New resolves a language id to a fresh compiler instance. Instances are
// per-request: some front ends keep source between phases.
func New(languageID string, opts Options) (pipeline.Compiler, error) {
	switch languageID {
	case minilang.LanguageID:
		tool := echoSpec
		if spec, ok := opts.Languages.Languages[languageID]; ok {
			tool = spec
		}
		return minilang.New(tool), nil
	case goast.LanguageID:
		tool, ok := opts.Languages.Resolve("go")
		if !ok {
			return nil, diag.Executionf("no toolchain entry for go")
		}
		return goast.New(tool), nil
	}

	tool, ok := opts.Languages.Resolve(languageID)
	if !ok {
		return nil, diag.Internalf("unknown language %q", languageID)
	}
	if opts.Backend == nil {
		return nil, diag.Internalf("language %q is delegated and needs a generation backend", languageID)
	}
	return delegate.New(languageID, opts.Backend, tool), nil
}

// Compile runs one source through the pipeline for the given language.
// Failures of any kind arrive as diagnostics on the result, never as a
// panic or a bare error.
func Compile(ctx context.Context, source, languageID string, opts Options) pipeline.Result {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Исходник нормализуем в NFC: сгенерированные кандидаты приходят в
	// разных юникод-формах, а ключ кэша должен совпадать.
	source = norm.NFC.String(source)

	key := cache.Key(languageID, source)
	if opts.Cache != nil {
		if payload, ok, err := opts.Cache.Get(key); err != nil {
			log.Warn("cache read failed", "error", err)
		} else if ok {
			log.Debug("cache hit", "language", languageID)
			return pipeline.Result{
				Success:  true,
				Output:   payload.Output,
				Attempts: payload.Attempts,
			}
		}
	}

	compiler, err := New(languageID, opts)
	if err != nil {
		derr := diag.AsError(err, diag.PhaseLexical)
		return pipeline.Result{
			Diagnostics: []diag.Diagnostic{derr.Diagnostic(0)},
		}
	}

	runner := &pipeline.Runner{
		Backend:    opts.Backend,
		MaxRetries: opts.MaxRetries,
		Log:        opts.Log,
		Progress:   opts.Progress,
		Timer:      opts.Timer,
		Label:      opts.Label,
	}
	res := runner.Run(ctx, compiler, source)

	if res.Success && opts.Cache != nil {
		payload := &cache.Payload{
			Language:    languageID,
			Output:      res.Output,
			Attempts:    res.Attempts,
			CreatedUnix: time.Now().Unix(),
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			log.Warn("cache write failed", "error", err)
		}
	}
	return res
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"polyc/internal/cache"
	"polyc/internal/diag"
	"polyc/internal/genai"
	"polyc/internal/goast"
	"polyc/internal/minilang"
	"polyc/internal/observ"
	"polyc/internal/pipeline"
	"polyc/internal/registry"
	"polyc/internal/toolchain"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file...",
	Short: "Compile and run source files through the pipeline",
	Long:  `Compile drives each file through all six phases and prints the program output`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringP("language", "l", "", "language id (default: inferred from file extension)")
	compileCmd.Flags().Int("max-retries", 0, "regeneration budget for recoverable failures (0 = default)")
	compileCmd.Flags().Bool("no-cache", false, "skip the on-disk result cache")
	compileCmd.Flags().String("ui", "auto", "interactive progress UI (auto|on|off)")
}

type compileJob struct {
	path     string
	source   string
	language string
}

type fileOutcome struct {
	job   compileJob
	res   pipeline.Result
	timer *observ.Timer
}

func runCompile(cmd *cobra.Command, args []string) error {
	languageFlag, _ := cmd.Flags().GetString("language")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	uiFlag, _ := cmd.Flags().GetString("ui")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	cfg := manifest.languages()

	jobs := make([]compileJob, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		language, err := inferLanguage(path, languageFlag, cfg)
		if err != nil {
			return err
		}
		jobs = append(jobs, compileJob{path: path, source: string(data), language: language})
	}

	base := registry.Options{
		Backend:    buildBackend(cmd, manifest),
		MaxRetries: maxRetries,
		Log:        rootLogger(cmd),
		Languages:  cfg,
	}
	if !noCache {
		disk, err := cache.Open("polyc")
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "warning: result cache unavailable: %v\n", err)
			}
		} else {
			base.Cache = disk
		}
	}

	var outcomes []fileOutcome
	if shouldUseTUI(mode) {
		outcomes, err = runBatchWithUI(cmd.Context(), "compiling", jobs, base, timings)
		if err != nil {
			return err
		}
	} else {
		outcomes = runBatch(cmd.Context(), jobs, base, timings, nil)
	}

	colored := useColor(cmd, os.Stderr)
	failed := 0
	for _, oc := range outcomes {
		if len(outcomes) > 1 && !quiet {
			fmt.Fprintf(os.Stdout, "== %s\n", oc.job.path)
		}
		if oc.res.Success {
			if oc.res.Output != "" {
				fmt.Fprintln(os.Stdout, oc.res.Output)
			}
			if !quiet && oc.res.Attempts > 1 {
				fmt.Fprintf(os.Stderr, "%s: succeeded after %d attempts\n", oc.job.path, oc.res.Attempts)
			}
		} else {
			failed++
		}
		renderDiagnostics(os.Stderr, oc.job.path, oc.res.Diagnostics, colored, maxDiagnostics)
		if timings && oc.timer != nil {
			fmt.Fprint(os.Stderr, oc.timer.Summary())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}

// runBatch компилирует файлы параллельно, не теряя порядок результатов.
func runBatch(ctx context.Context, jobs []compileJob, base registry.Options, withTimings bool, sink pipeline.ProgressSink) []fileOutcome {
	outcomes := make([]fileOutcome, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			opts := base
			opts.Label = job.path
			opts.Progress = sink
			if withTimings {
				opts.Timer = observ.NewTimer()
			}
			res := registry.Compile(ctx, job.source, job.language, opts)
			outcomes[i] = fileOutcome{job: job, res: res, timer: opts.Timer}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// inferLanguage picks the front end from the file extension unless the flag
// names one explicitly.
func inferLanguage(path, explicit string, cfg toolchain.Config) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mini":
		return minilang.LanguageID, nil
	case ".go":
		return goast.LanguageID, nil
	case ".py":
		return "python", nil
	}
	for _, id := range cfg.IDs() {
		if spec, ok := cfg.Resolve(id); ok && spec.Extension != "" && strings.EqualFold(spec.Extension, ext) {
			return id, nil
		}
	}
	return "", fmt.Errorf("cannot infer language for %s, pass --language", path)
}

// buildBackend собирает HTTP-бэкенд из флагов и манифеста.
// Без endpoint бэкенда нет: делегированные языки и recovery отключены.
func buildBackend(cmd *cobra.Command, manifest *projectManifest) genai.Service {
	endpoint, _ := cmd.Root().PersistentFlags().GetString("backend-url")
	model, _ := cmd.Root().PersistentFlags().GetString("backend-model")
	candidates, _ := cmd.Root().PersistentFlags().GetInt("backend-candidates")

	bc := manifest.backend()
	if endpoint == "" {
		endpoint = bc.Endpoint
	}
	if endpoint == "" {
		return nil
	}
	if model == "" {
		model = bc.Model
	}
	if candidates <= 0 {
		candidates = bc.Candidates
	}
	return &genai.HTTPService{
		Endpoint:   endpoint,
		Model:      model,
		APIKey:     os.Getenv("POLYC_BACKEND_API_KEY"),
		Candidates: candidates,
	}
}

func renderDiagnostics(out io.Writer, label string, diags []diag.Diagnostic, colored bool, max int) {
	if len(diags) == 0 {
		return
	}
	fatalColor := color.New(color.FgRed, color.Bold)
	recovColor := color.New(color.FgYellow)
	if !colored {
		fatalColor.DisableColor()
		recovColor.DisableColor()
	}

	shown := diags
	if max > 0 && len(diags) > max {
		shown = diags[:max]
	}
	for _, d := range shown {
		c := fatalColor
		if d.Recoverable {
			c = recovColor
		}
		fmt.Fprintf(out, "%s: %s [attempt %d]\n", label, c.Sprintf("%s: %s", d.Phase, d.Message), d.Attempt)
	}
	if rest := len(diags) - len(shown); rest > 0 {
		fmt.Fprintf(out, "%s: ... and %d more diagnostics\n", label, rest)
	}
}

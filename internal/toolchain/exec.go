package toolchain

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"polyc/internal/diag"
)

// Run writes code to a scratch file, invokes the language's toolchain and
// returns captured stdout. Every failure is a fatal execute diagnostic
// carrying the toolchain's raw stderr — the cause is environmental, never
// retried. The scratch directory is removed on all paths, including
// cancellation.
func Run(ctx context.Context, spec Spec, code string) (string, error) {
	if len(spec.RunCmd) == 0 {
		return "", diag.Executionf("language %q has no run command configured", spec.Name)
	}

	// Уникальное имя на запрос: параллельные компиляции не пересекаются.
	dir, err := os.MkdirTemp("", "polyc-"+spec.Name+"-"+uuid.NewString())
	if err != nil {
		return "", diag.Executionf("create scratch dir: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	src := filepath.Join(dir, spec.SourceFileName())
	if err := os.WriteFile(src, []byte(code), 0o600); err != nil {
		return "", diag.Executionf("write source: %v", err)
	}
	bin := filepath.Join(dir, "out")

	if spec.NeedsCompileStep {
		if len(spec.CompileCmd) == 0 {
			return "", diag.Executionf("language %q requires a compile step but has no compile command", spec.Name)
		}
		if _, err := runProcess(ctx, expandArgv(spec.CompileCmd, src, bin, dir), dir); err != nil {
			return "", err
		}
	}

	return runProcess(ctx, expandArgv(spec.RunCmd, src, bin, dir), dir)
}

// runProcess запускает один сабпроцесс и собирает stdout/stderr.
func runProcess(ctx context.Context, argv []string, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Неотвечающий тулчейн — ошибка окружения.
			return "", diag.Executionf("%s: %v", argv[0], ctxErr)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", diag.Executionf("toolchain not available: %v", execErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", diag.Executionf("%s: %s", argv[0], msg)
	}
	return stdout.String(), nil
}

package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"polyc/internal/diag"
)

func requirePOSIX(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("adapter tests use sh")
	}
}

// scratchDirs возвращает каталоги адаптера для данного языка.
func scratchDirs(t *testing.T, lang string) []string {
	t.Helper()
	dirs, err := filepath.Glob(filepath.Join(os.TempDir(), "polyc-"+lang+"-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return dirs
}

func TestRun_CapturesStdout(t *testing.T) {
	requirePOSIX(t)
	spec := Spec{
		Name:      "echo-ok",
		Extension: ".txt",
		RunCmd:    []string{"cat", "{src}"},
	}
	out, err := Run(context.Background(), spec, "hello adapter")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "hello adapter" {
		t.Fatalf("Run() stdout = %q, want %q", out, "hello adapter")
	}
	if dirs := scratchDirs(t, spec.Name); len(dirs) != 0 {
		t.Fatalf("scratch dirs left behind: %v", dirs)
	}
}

func TestRun_NonZeroExitIsFatalWithStderr(t *testing.T) {
	requirePOSIX(t)
	spec := Spec{
		Name:      "echo-fail",
		Extension: ".txt",
		RunCmd:    []string{"sh", "-c", "echo boom >&2; exit 3"},
	}
	_, err := Run(context.Background(), spec, "ignored")
	if err == nil {
		t.Fatal("Run() succeeded, want fatal execute error")
	}
	var derr *diag.Error
	if !errors.As(err, &derr) {
		t.Fatalf("Run() error type = %T, want *diag.Error", err)
	}
	if derr.Phase != diag.PhaseExecute || derr.Recoverable {
		t.Fatalf("error = %+v, want fatal execute", derr)
	}
	if !strings.Contains(derr.Error(), "boom") {
		t.Fatalf("error %q does not carry toolchain stderr", derr.Error())
	}
	if dirs := scratchDirs(t, spec.Name); len(dirs) != 0 {
		t.Fatalf("scratch dirs left behind after failure: %v", dirs)
	}
}

func TestRun_CompileStepFailure(t *testing.T) {
	requirePOSIX(t)
	spec := Spec{
		Name:             "compile-fail",
		Extension:        ".txt",
		NeedsCompileStep: true,
		CompileCmd:       []string{"sh", "-c", "echo no such instruction >&2; exit 1"},
		RunCmd:           []string{"cat", "{src}"},
	}
	_, err := Run(context.Background(), spec, "ignored")
	if err == nil {
		t.Fatal("Run() succeeded, want compile failure")
	}
	if !strings.Contains(err.Error(), "no such instruction") {
		t.Fatalf("error %q does not carry compiler stderr", err.Error())
	}
	if dirs := scratchDirs(t, spec.Name); len(dirs) != 0 {
		t.Fatalf("scratch dirs left behind: %v", dirs)
	}
}

func TestRun_CancellationCleansUp(t *testing.T) {
	requirePOSIX(t)
	spec := Spec{
		Name:      "hang",
		Extension: ".txt",
		RunCmd:    []string{"sleep", "60"},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Run(ctx, spec, "ignored")
	if err == nil {
		t.Fatal("Run() succeeded, want cancellation error")
	}
	var derr *diag.Error
	if !errors.As(err, &derr) || derr.Recoverable {
		t.Fatalf("cancellation must be a fatal execute error, got %v", err)
	}
	if dirs := scratchDirs(t, spec.Name); len(dirs) != 0 {
		t.Fatalf("scratch dirs left behind after cancellation: %v", dirs)
	}
}

func TestRun_MissingToolchain(t *testing.T) {
	spec := Spec{
		Name:      "missing",
		Extension: ".txt",
		RunCmd:    []string{"polyc-no-such-toolchain-binary", "{src}"},
	}
	_, err := Run(context.Background(), spec, "ignored")
	if err == nil {
		t.Fatal("Run() succeeded, want missing-toolchain error")
	}
	if !strings.Contains(err.Error(), "toolchain not available") {
		t.Fatalf("error = %q, want missing-toolchain wording", err.Error())
	}
	if dirs := scratchDirs(t, spec.Name); len(dirs) != 0 {
		t.Fatalf("scratch dirs left behind: %v", dirs)
	}
}

func TestExpandArgv(t *testing.T) {
	got := expandArgv([]string{"cc", "{src}", "-o", "{bin}", "-I{dir}"}, "/tmp/x/main.c", "/tmp/x/out", "/tmp/x")
	want := []string{"cc", "/tmp/x/main.c", "-o", "/tmp/x/out", "-I/tmp/x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expandArgv[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, manifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestFindPolycToml_WalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := findPolycToml(nested)
	if err != nil {
		t.Fatalf("findPolycToml: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if got != want {
		t.Fatalf("found %q, want %q", got, want)
	}
}

func TestLoadProjectManifest_ParsesSections(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[backend]
endpoint = "http://localhost:9999/v1/completions"
model = "local-coder"
candidates = 5

[languages.brainfuck]
extension = ".bf"
run_cmd = ["bf", "{src}"]
`)

	manifest, ok, err := loadProjectManifest(root)
	if err != nil {
		t.Fatalf("loadProjectManifest: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}

	bc := manifest.backend()
	if bc.Endpoint != "http://localhost:9999/v1/completions" || bc.Model != "local-coder" || bc.Candidates != 5 {
		t.Fatalf("backend = %+v", bc)
	}

	cfg := manifest.languages()
	spec, found := cfg.Resolve("brainfuck")
	if !found {
		t.Fatal("manifest language not resolvable")
	}
	if spec.Name != "brainfuck" {
		t.Fatalf("spec.Name = %q, want the id as default", spec.Name)
	}
	if spec.Extension != ".bf" || len(spec.RunCmd) != 2 {
		t.Fatalf("spec = %+v", spec)
	}
}

func TestLoadProjectManifest_BadTOML(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[backend\nendpoint=")
	_, ok, err := loadProjectManifest(root)
	if !ok {
		t.Fatal("manifest file exists, expected ok=true")
	}
	if err == nil {
		t.Fatal("bad TOML parsed without error")
	}
}

func TestManifestNil_Defaults(t *testing.T) {
	var m *projectManifest
	if cfg := m.languages(); cfg.Languages != nil {
		t.Fatalf("nil manifest languages = %+v", cfg.Languages)
	}
	if bc := m.backend(); bc.Endpoint != "" {
		t.Fatalf("nil manifest backend = %+v", bc)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"polyc/internal/toolchain"
)

const manifestName = "polyc.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config manifestConfig
}

type manifestConfig struct {
	Backend   backendConfig             `toml:"backend"`
	Languages map[string]toolchain.Spec `toml:"languages"`
}

type backendConfig struct {
	Endpoint   string `toml:"endpoint"`
	Model      string `toml:"model"`
	Candidates int    `toml:"candidates"`
}

// findPolycToml ищет polyc.toml от startDir вверх до корня.
func findPolycToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest loads the nearest manifest. A missing manifest is not
// an error; every setting has a workable default.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	path, ok, err := findPolycToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg manifestConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for id, spec := range cfg.Languages {
		if spec.Name == "" {
			spec.Name = id
			cfg.Languages[id] = spec
		}
	}
	return &projectManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func (m *projectManifest) languages() toolchain.Config {
	if m == nil {
		return toolchain.Config{}
	}
	return toolchain.Config{Languages: m.Config.Languages}
}

func (m *projectManifest) backend() backendConfig {
	if m == nil {
		return backendConfig{}
	}
	return m.Config.Backend
}

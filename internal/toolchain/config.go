package toolchain

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// Config is the `[languages.<id>]` section of a polyc.toml manifest.
// Entries override or extend the builtin command table.
type Config struct {
	Languages map[string]Spec `toml:"languages"`
}

// LoadConfig parses a manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read manifest: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse manifest %q: %w", path, err)
	}
	for id, spec := range cfg.Languages {
		if spec.Name == "" {
			spec.Name = id
			cfg.Languages[id] = spec
		}
	}
	return cfg, nil
}

// Resolve returns the command table entry for id, preferring manifest
// overrides over builtins.
func (c Config) Resolve(id string) (Spec, bool) {
	if spec, ok := c.Languages[id]; ok {
		return spec, true
	}
	return Builtin(id)
}

// IDs returns every language id the config can resolve: builtins plus
// manifest entries, deduplicated.
func (c Config) IDs() []string {
	seen := make(map[string]struct{}, len(builtins)+len(c.Languages))
	for _, id := range BuiltinIDs() {
		seen[id] = struct{}{}
	}
	for id := range c.Languages {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"polyc/internal/goast"
	"polyc/internal/minilang"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List every language id the pipeline can resolve",
	RunE:  runLanguages,
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	cfg := manifest.languages()

	nameColor := color.New(color.FgCyan, color.Bold)
	if !useColor(cmd, os.Stdout) {
		nameColor.DisableColor()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  deterministic minilang front end\n", nameColor.Sprintf("%-12s", minilang.LanguageID))
	fmt.Fprintf(out, "%s  host-AST front end, runs via go\n", nameColor.Sprintf("%-12s", goast.LanguageID))
	for _, id := range cfg.IDs() {
		spec, _ := cfg.Resolve(id)
		runner := "?"
		if len(spec.RunCmd) > 0 {
			runner = spec.RunCmd[0]
		}
		origin := "builtin"
		if _, ok := cfg.Languages[id]; ok {
			origin = "manifest"
		}
		fmt.Fprintf(out, "%s  delegated, runs via %s (%s)\n", nameColor.Sprintf("%-12s", id), runner, origin)
	}
	return nil
}

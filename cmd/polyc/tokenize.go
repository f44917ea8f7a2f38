package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"polyc/internal/diag"
	"polyc/internal/registry"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Run only the lexical phase and print the token stream",
	Long:  `Tokenize breaks a source file into tokens using the language's front end`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().StringP("language", "l", "", "language id (default: inferred from file extension)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	languageFlag, _ := cmd.Flags().GetString("language")

	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	cfg := manifest.languages()

	language, err := inferLanguage(path, languageFlag, cfg)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	opts := registry.Options{
		Backend:   buildBackend(cmd, manifest),
		Languages: cfg,
		Log:       rootLogger(cmd),
	}
	compiler, err := registry.New(language, opts)
	if err != nil {
		return err
	}

	// Выполняем токенизацию
	art, err := compiler.Lexical(cmd.Context(), string(data))
	if err != nil {
		derr := diag.AsError(err, diag.PhaseLexical)
		renderDiagnostics(os.Stderr, path, []diag.Diagnostic{derr.Diagnostic(1)}, useColor(cmd, os.Stderr), 0)
		return fmt.Errorf("tokenization failed")
	}
	tokens, err := art.ExpectTokens()
	if err != nil {
		return err
	}

	// Выводим токены в выбранном формате
	switch format {
	case "pretty":
		for _, tok := range tokens {
			fmt.Fprintf(os.Stdout, "%4d  %-8s %q\n", tok.Line, tok.Kind, tok.Text)
		}
		return nil
	case "json":
		type wireToken struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
			Line int    `json:"line"`
		}
		out := make([]wireToken, len(tokens))
		for i, tok := range tokens {
			out[i] = wireToken{Kind: tok.Kind.String(), Text: tok.Text, Line: tok.Line}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

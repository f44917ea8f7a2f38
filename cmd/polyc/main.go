package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"polyc/internal/logger"
	"polyc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "polyc",
	Short: "Pluggable multi-language compilation pipeline",
	Long:  `polyc drives source files through a six-phase compile pipeline with AI-assisted failure recovery`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("log", "off", "structured JSON logs on stderr (off|info|debug)")
	rootCmd.PersistentFlags().String("backend-url", "", "completion endpoint for delegated phases and recovery")
	rootCmd.PersistentFlags().String("backend-model", "", "model name sent to the completion endpoint")
	rootCmd.PersistentFlags().Int("backend-candidates", 3, "candidates requested per generation call")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

// rootLogger возвращает nil, когда логирование выключено.
func rootLogger(cmd *cobra.Command) *slog.Logger {
	mode, _ := cmd.Root().PersistentFlags().GetString("log")
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "info":
		return logger.New(os.Stderr, slog.LevelInfo)
	case "debug":
		return logger.New(os.Stderr, slog.LevelDebug)
	default:
		return nil
	}
}

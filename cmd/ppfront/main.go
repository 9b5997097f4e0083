package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ppfront/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "ppfront",
	Short:        "C preprocessor front end",
	Long:         `ppfront runs translation phases 1 through 6 of C over source files and reports diagnostics`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanupProf, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanupTrace, err := setupTracing(cmd)
		if err != nil {
			cleanupProf()
			return err
		}
		cleanups = append(cleanups, cleanupTrace, cleanupProf)
		return nil
	},
}

// cleanups выполняются после команды в порядке регистрации.
var cleanups []func()

func runCleanups() {
	for _, fn := range cleanups {
		fn()
	}
	cleanups = nil
}

// main registers subcommands and persistent flags, then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.String(false) + "\n")

	// Добавляем команды
	rootCmd.AddCommand(ppCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to ppfront.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().Bool("no-config", false, "ignore ppfront.toml")

	// Трассировка и профилирование
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "number of events kept in ring mode")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write Go runtime trace to file")

	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

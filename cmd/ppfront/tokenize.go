package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ppfront/internal/diagfmt"
	"ppfront/internal/driver"
	"ppfront/internal/pipeline"
	"ppfront/internal/preproc"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.c",
	Short: "Print the preprocessing tokens of a C source file",
	Long:  `Tokenize runs phases 1 to 3 (or the given --passes) and prints the resulting token stream`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	addPreprocessFlags(tokenizeCmd, "phase1..phase3")
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	lexPlan := pipeline.Plan{pipeline.StagePhase1, pipeline.StagePhase2, pipeline.StagePhase3}
	opts, _, err := readOptions(cmd, lexPlan)
	if err != nil {
		return err
	}
	if !opts.Plan.Has(pipeline.StagePhase3) {
		return fmt.Errorf("tokenize needs at least phase3 in --passes")
	}
	// токены из кеша не восстанавливаются
	opts.Cache = nil

	result, err := driver.ProcessUnit(cmd.Context(), filePath, opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 2,
		})
	}
	if result.Status == preproc.StatusFatal {
		return fmt.Errorf("could not tokenize %s", filePath)
	}

	// Выводим токены в выбранном формате
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ppfront/internal/diagfmt"
	"ppfront/internal/driver"
	"ppfront/internal/pipeline"
	"ppfront/internal/preproc"
	"ppfront/internal/trace"
	"ppfront/internal/ui"
)

// stdinName - имя виртуального файла для "-".
const stdinName = "<stdin>"

var ppCmd = &cobra.Command{
	Use:     "pp [flags] <file.c|directory|->...",
	Aliases: []string{"preprocess"},
	Short:   "Preprocess C source files",
	Long: `Run the planned translation phases over each file and print the result.
Directories are walked for *.c and *.i files; "-" reads standard input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreprocess,
}

func init() {
	addPreprocessFlags(ppCmd, "phase1..phase4")
	ppCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	ppCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	ppCmd.Flags().String("path-mode", "auto", "how diagnostics show paths (auto|absolute|relative|basename)")
	ppCmd.Flags().Bool("with-notes", true, "include diagnostic notes")
	ppCmd.Flags().Int("jobs", 0, "max parallel workers for multiple files (0=auto)")
	ppCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
	ppCmd.Flags().String("timings-format", "pretty", "timings format (pretty|json)")
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	opts, _, err := readOptions(cmd, pipeline.DefaultPlan())
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return fmt.Errorf("unknown path mode: %s", pathModeStr)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if format == "json" {
		// в кеше нет спанов для JSON
		opts.Cache = nil
	}
	root := cmd.Root().PersistentFlags()
	quiet, _ := root.GetBool("quiet")
	showTimings, _ := root.GetBool("timings")
	timingsFormat, err := cmd.Flags().GetString("timings-format")
	if err != nil {
		return fmt.Errorf("failed to get timings-format flag: %w", err)
	}

	span := trace.Begin(trace.FromContext(cmd.Context()), trace.ScopeDriver, "pp", 0)
	ctx := trace.WithSpanContext(cmd.Context(), trace.SpanContext{SpanID: span.ID()})
	results, err := collectResults(ctx, cmd, args, opts, jobs, mode, quiet)
	span.WithExtra("units", strconv.Itoa(len(results))).End("")
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %q: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	if err := writeTexts(out, results); err != nil {
		return err
	}

	prettyOpts := diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		Context:   1,
		PathMode:  pathMode,
		ShowNotes: withNotes,
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     withNotes,
	}
	if err := writeDiagnostics(cmd.ErrOrStderr(), results, format, prettyOpts, jsonOpts); err != nil {
		return err
	}

	if showTimings {
		if err := printStageTimings(cmd.ErrOrStderr(), results, opts.Plan, timingsFormat); err != nil {
			return err
		}
	}

	failed := 0
	for _, r := range results {
		if r.Status != preproc.StatusOK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d unit(s) failed", failed, len(results))
	}
	return nil
}

// collectResults раскрывает каталоги и запускает обработку единиц.
func collectResults(ctx context.Context, cmd *cobra.Command, args []string, opts driver.Options, jobs int, mode uiMode, quiet bool) ([]*driver.Result, error) {
	if len(args) == 1 && args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		res, err := driver.ProcessSource(ctx, stdinName, content, opts)
		if err != nil {
			return nil, err
		}
		return []*driver.Result{res}, nil
	}

	paths, err := expandArgs(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *.c or *.i files found")
	}

	if shouldUseTUI(mode, len(paths)) {
		return runUnitsWithUI(ctx, "preprocessing", paths, opts, jobs)
	}
	var sink pipeline.ProgressSink
	if len(paths) > 1 && !quiet && mode != uiModeOff {
		sink = ui.NewPlainSink(cmd.ErrOrStderr())
	}
	return driver.ProcessUnits(ctx, paths, opts, jobs, sink)
}

func expandArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if arg == "-" {
			return nil, fmt.Errorf("%q cannot be combined with other inputs", arg)
		}
		info, err := os.Stat(arg)
		if err != nil {
			// ошибка чтения попадёт в диагностику единицы
			paths = append(paths, arg)
			continue
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		units, err := driver.ListUnits(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to list %q: %w", arg, err)
		}
		paths = append(paths, units...)
	}
	return paths, nil
}

// writeTexts печатает результат каждой единицы; для нескольких единиц перед
// каждой идёт linemarker. Фатальная единица печатает то, что успела выдать;
// непрочитанный файл пропускается.
func writeTexts(w io.Writer, results []*driver.Result) error {
	for _, r := range results {
		if r.Status == preproc.StatusFatal && r.Tokens == nil && r.Chars == nil && !r.Cached {
			continue
		}
		if len(results) > 1 {
			if _, err := fmt.Fprintf(w, "# 1 %q\n", filepath.ToSlash(r.Path)); err != nil {
				return err
			}
		}
		text := r.Text()
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
		if text != "" && !strings.HasSuffix(text, "\n") {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeDiagnostics(w io.Writer, results []*driver.Result, format string, prettyOpts diagfmt.PrettyOpts, jsonOpts diagfmt.JSONOpts) error {
	if format == "json" {
		if len(results) == 1 {
			return writeJSON(w, diagfmt.BuildDiagnosticsOutput(results[0].Bag, results[0].FileSet, jsonOpts))
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Bag, r.FileSet, jsonOpts)
		}
		return writeJSON(w, output)
	}

	for _, r := range results {
		if r.Cached || format == "short" {
			if err := diagfmt.Lines(w, r.Lines()); err != nil {
				return err
			}
			continue
		}
		diagfmt.Pretty(w, r.Bag, r.FileSet, prettyOpts)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

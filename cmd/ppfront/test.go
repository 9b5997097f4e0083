package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ppfront/internal/suite"
)

// defaultSuitesDir используется без манифеста и аргументов.
const defaultSuitesDir = "testdata/suites"

var testCmd = &cobra.Command{
	Use:   "test [flags] [dir|file.toml]...",
	Short: "Run conformance suites",
	Long: `Run the TOML conformance suites found in the given directories or files.
Without arguments the [suites].dirs of ppfront.toml are used, then testdata/suites.`,
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringSlice("suite", nil, "run only the named suites")
	testCmd.Flags().BoolP("verbose", "v", false, "print passing cases too")
}

func runTest(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	filter, err := cmd.Flags().GetStringSlice("suite")
	if err != nil {
		return fmt.Errorf("failed to get suite flag: %w", err)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}

	targets := args
	if len(targets) == 0 {
		m, err := loadManifest(cmd)
		if err != nil {
			return err
		}
		if m != nil {
			targets = m.Suites.Dirs
		}
	}
	if len(targets) == 0 {
		targets = []string{defaultSuitesDir}
	}

	registry := suite.NewRegistry()
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("failed to stat %q: %w", target, err)
		}
		if info.IsDir() {
			err = registry.LoadDir(target)
		} else {
			err = registry.LoadFile(target)
		}
		if err != nil {
			return err
		}
	}
	if registry.Len() == 0 {
		return fmt.Errorf("no suite cases found")
	}

	runner := suite.NewRunner(registry, suite.RunnerConfig{
		Filter:  filter,
		Output:  cmd.OutOrStdout(),
		Verbose: verbose,
	})
	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}
	if !result.OK() {
		return fmt.Errorf("%d of %d case(s) failed", result.Failed, result.Total)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ppfront/internal/config"
	"ppfront/internal/driver"
	"ppfront/internal/pipeline"
	"ppfront/internal/preproc"
)

// addPreprocessFlags регистрирует флаги, общие для pp и tokenize.
func addPreprocessFlags(cmd *cobra.Command, defaultPasses string) {
	cmd.Flags().StringArrayP("include", "I", nil, "add a directory to the quoted include search path")
	cmd.Flags().StringArray("isystem", nil, "add a directory to the system include search path")
	cmd.Flags().StringArrayP("define", "D", nil, "predefine a macro (NAME or NAME=VALUE)")
	cmd.Flags().StringArrayP("undef", "U", nil, "undefine a macro after the -D list")
	cmd.Flags().StringSlice("passes", nil, "translation phases to run, a prefix of phase1..phase6 (default "+defaultPasses+")")
	cmd.Flags().String("input-charset", "", "input character set (utf-8, latin1, windows-1251, ...)")
	cmd.Flags().Int("max-include-depth", 0, "maximum nested include depth (0 = default)")
	cmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	cmd.Flags().String("cache-dir", "", "cache directory (default: user cache dir)")
}

// loadManifest ищет ppfront.toml согласно --config/--no-config.
func loadManifest(cmd *cobra.Command) (*config.Manifest, error) {
	root := cmd.Root().PersistentFlags()
	noConfig, err := root.GetBool("no-config")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-config flag: %w", err)
	}
	if noConfig {
		return nil, nil
	}
	path, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var m *config.Manifest
	if path != "" {
		m, err = config.LoadFile(path)
	} else {
		m, err = config.Load(".")
		if errors.Is(err, config.ErrNoManifest) {
			return nil, nil
		}
	}
	if err != nil {
		return nil, err
	}

	quiet, _ := root.GetBool("quiet")
	if !quiet {
		for _, key := range m.Unknown {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: warning: unknown key %q\n", m.Path, key)
		}
	}
	return m, nil
}

// readOptions собирает driver.Options: сначала манифест, затем флаги.
// Флаги путей и макросов дописываются после значений манифеста.
func readOptions(cmd *cobra.Command, defaultPlan pipeline.Plan) (driver.Options, *config.Manifest, error) {
	var opts driver.Options
	m, err := loadManifest(cmd)
	if err != nil {
		return opts, nil, err
	}

	flags := cmd.Flags()
	include, err := flags.GetStringArray("include")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get include flag: %w", err)
	}
	system, err := flags.GetStringArray("isystem")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get isystem flag: %w", err)
	}
	defines, err := flags.GetStringArray("define")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get define flag: %w", err)
	}
	undefines, err := flags.GetStringArray("undef")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get undef flag: %w", err)
	}
	passes, err := flags.GetStringSlice("passes")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get passes flag: %w", err)
	}
	charset, err := flags.GetString("input-charset")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get input-charset flag: %w", err)
	}
	depth, err := flags.GetInt("max-include-depth")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get max-include-depth flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	if m != nil {
		opts.Include = append(opts.Include, m.Preprocess.Include...)
		opts.SystemInclude = append(opts.SystemInclude, m.Preprocess.SystemInclude...)
		opts.Predefined = append(opts.Predefined, m.Predefined()...)
		opts.InputCharset = m.Preprocess.InputCharset
		if len(passes) == 0 {
			passes = m.Preprocess.Passes
		}
		if !cmd.Root().PersistentFlags().Changed("max-diagnostics") && m.Preprocess.MaxDiagnostics > 0 {
			maxDiagnostics = m.Preprocess.MaxDiagnostics
		}
	}
	opts.Include = append(opts.Include, include...)
	opts.SystemInclude = append(opts.SystemInclude, system...)
	for _, d := range defines {
		opts.Predefined = append(opts.Predefined, preproc.ParseDefine(d))
	}
	for _, u := range undefines {
		opts.Predefined = append(opts.Predefined, preproc.Define{Name: u, Undef: true})
	}
	if charset != "" {
		opts.InputCharset = charset
	}
	opts.MaxIncludeDepth = depth
	opts.MaxDiagnostics = maxDiagnostics

	opts.Plan = defaultPlan
	if len(passes) > 0 {
		plan, err := pipeline.ParsePlan(passes)
		if err != nil {
			return opts, nil, err
		}
		opts.Plan = plan
	}

	cache, err := openCache(cmd)
	if err != nil {
		return opts, nil, err
	}
	opts.Cache = cache
	return opts, m, nil
}

func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	enabled, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if !enabled {
		return nil, nil
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	var cache *driver.DiskCache
	if dir != "" {
		cache, err = driver.OpenDiskCacheAt(dir)
	} else {
		cache, err = driver.OpenDiskCache("ppfront")
	}
	if err != nil {
		// работаем без кеша
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: disk cache disabled: %v\n", err)
		return nil, nil
	}
	return cache, nil
}

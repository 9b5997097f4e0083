package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ppfront/internal/prof"
)

// setupProfiling enables the profilers requested by --cpu-profile,
// --runtime-trace and --mem-profile. The returned cleanup stops them in
// reverse order, writes the heap profile last and may be called repeatedly.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	paths := make(map[string]string, 3)
	for _, name := range []string{"cpu-profile", "runtime-trace", "mem-profile"} {
		v, err := flags.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		paths[name] = v
	}

	var stops []func()
	stopAll := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
		stops = nil
	}

	if p := paths["cpu-profile"]; p != "" {
		if err := prof.StartCPU(p); err != nil {
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
		stops = append(stops, prof.StopCPU)
	}
	if p := paths["runtime-trace"]; p != "" {
		if err := prof.StartTrace(p); err != nil {
			stopAll()
			return nil, fmt.Errorf("failed to start trace: %w", err)
		}
		stops = append(stops, prof.StopTrace)
	}
	if p := paths["mem-profile"]; p != "" {
		// снимок кучи делается после остановки остальных профилировщиков
		stops = append([]func(){func() {
			if err := prof.WriteMem(p); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to write heap profile: %v\n", err)
			}
		}}, stops...)
	}

	return stopAll, nil
}

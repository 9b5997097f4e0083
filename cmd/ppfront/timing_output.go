package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"ppfront/internal/driver"
	"ppfront/internal/observ"
	"ppfront/internal/pipeline"
)

// mergeTimers складывает таймеры всех некешированных единиц по имени фазы.
func mergeTimers(results []*driver.Result) *observ.Timer {
	total := observ.NewTimer()
	for _, r := range results {
		if r == nil || r.Cached {
			continue
		}
		total.Merge(r.Timer)
	}
	return total
}

func stageTimings(t *observ.Timer) pipeline.Timings {
	var timings pipeline.Timings
	for _, ph := range t.Phases() {
		timings.Set(pipeline.Stage(ph.Name), ph.Dur)
	}
	return timings
}

func printStageTimings(out io.Writer, results []*driver.Result, plan pipeline.Plan, format string) error {
	if out == nil {
		return nil
	}
	total := mergeTimers(results)
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(total.Report())
	}

	timings := stageTimings(total)
	if timings.Has(pipeline.StageLoad) {
		if _, err := fmt.Fprintf(out, "loaded %.1f ms\n", toMillis(timings.Duration(pipeline.StageLoad))); err != nil {
			return err
		}
	}
	if timings.Has(pipeline.StagePhase1) || timings.Has(pipeline.StagePhase2) || timings.Has(pipeline.StagePhase3) {
		lexed := timings.Sum(pipeline.StagePhase1, pipeline.StagePhase2, pipeline.StagePhase3)
		if _, err := fmt.Fprintf(out, "lexed %.1f ms\n", toMillis(lexed)); err != nil {
			return err
		}
	}
	if timings.Has(pipeline.StagePhase4) {
		if _, err := fmt.Fprintf(out, "preprocessed %.1f ms\n", toMillis(timings.Duration(pipeline.StagePhase4))); err != nil {
			return err
		}
	}
	if plan.Has(pipeline.StagePhase5) {
		literals := timings.Sum(pipeline.StagePhase5, pipeline.StagePhase6)
		if _, err := fmt.Fprintf(out, "literals %.1f ms\n", toMillis(literals)); err != nil {
			return err
		}
	}
	cached := 0
	for _, r := range results {
		if r != nil && r.Cached {
			cached++
		}
	}
	if cached > 0 {
		if _, err := fmt.Fprintf(out, "cached %d of %d unit(s)\n", cached, len(results)); err != nil {
			return err
		}
	}
	return nil
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// Stage is one translation phase a unit goes through.
type Stage string

const (
	// StageLoad reads and decodes the main file.
	StageLoad Stage = "load"
	// StagePhase1 converts trigraphs.
	StagePhase1 Stage = "phase1"
	// StagePhase2 splices lines.
	StagePhase2 Stage = "phase2"
	// StagePhase3 tokenizes.
	StagePhase3 Stage = "phase3"
	// StagePhase4 executes directives and expands macros.
	StagePhase4 Stage = "phase4"
	// StagePhase5 translates escape sequences.
	StagePhase5 Stage = "phase5"
	// StagePhase6 concatenates string literals.
	StagePhase6 Stage = "phase6"
)

// Phases lists the translation phases in order.
var Phases = []Stage{StagePhase1, StagePhase2, StagePhase3, StagePhase4, StagePhase5, StagePhase6}

// Plan is the validated list of phases to run.
type Plan []Stage

// DefaultPlan runs phases 1 to 4.
func DefaultPlan() Plan {
	return Plan{StagePhase1, StagePhase2, StagePhase3, StagePhase4}
}

// ParsePlan validates names: they must form a prefix of Phases starting at
// phase1. An empty list gives DefaultPlan.
func ParsePlan(names []string) (Plan, error) {
	if len(names) == 0 {
		return DefaultPlan(), nil
	}
	if len(names) > len(Phases) {
		return nil, fmt.Errorf("too many passes: %d", len(names))
	}
	plan := make(Plan, 0, len(names))
	for i, name := range names {
		st := Stage(strings.ToLower(strings.TrimSpace(name)))
		if st != Phases[i] {
			return nil, fmt.Errorf("pass %d: expected %q, got %q", i+1, Phases[i], name)
		}
		plan = append(plan, st)
	}
	return plan, nil
}

// Has reports whether the plan runs st.
func (p Plan) Has(st Stage) bool {
	for _, s := range p {
		if s == st {
			return true
		}
	}
	return false
}

// Last is the final phase of the plan.
func (p Plan) Last() Stage {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

func (p Plan) Strings() []string {
	out := make([]string, len(p))
	for i, s := range p {
		out[i] = string(s)
	}
	return out
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the unit is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the unit is currently in the stage.
	StatusWorking Status = "working"
	// StatusCached indicates the result came from the disk cache.
	StatusCached Status = "cached"
	// StatusDone indicates the unit is done.
	StatusDone Status = "done"
	// StatusError indicates the unit failed or finished with errors.
	StatusError Status = "error"
)

// Event reports progress for a unit (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Final marks the last event of a unit.
	Final bool
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: units report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}

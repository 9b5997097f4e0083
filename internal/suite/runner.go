package suite

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"ppfront/internal/driver"
	"ppfront/internal/include"
	"ppfront/internal/preproc"
	"ppfront/internal/token"
)

// CaseName is the logical name every case input is processed under.
const CaseName = "<case>"

// RunnerConfig configures suite execution.
type RunnerConfig struct {
	// Filter limits execution to specific suites (empty = all).
	Filter []string

	// Output is where to write execution status; nil discards it.
	Output io.Writer

	// Verbose prints passing cases too.
	Verbose bool
}

// Failure describes why one case failed.
type Failure struct {
	Case   string
	Reason string
}

// RunResult contains the outcome of running suites.
type RunResult struct {
	Total    int
	Passed   int
	Failed   int
	Failures []Failure
}

// OK reports whether every case passed.
func (r RunResult) OK() bool { return r.Failed == 0 }

// Runner executes suite cases.
type Runner struct {
	config   RunnerConfig
	registry *Registry
}

// NewRunner creates a suite runner.
func NewRunner(registry *Registry, config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = io.Discard
	}
	return &Runner{
		config:   config,
		registry: registry,
	}
}

// Run executes all matching cases in registration order.
func (r *Runner) Run(ctx context.Context) (RunResult, error) {
	cases := r.registry.FilterBySuite(r.config.Filter)
	result := RunResult{Total: len(cases)}

	for i := range cases {
		c := &cases[i]
		reason, err := RunCase(ctx, c)
		if err != nil {
			return result, fmt.Errorf("%s: %w", c.ID(), err)
		}
		if reason == "" {
			result.Passed++
			if r.config.Verbose {
				fmt.Fprintf(r.config.Output, "Running case: %s ... ok\n", c.ID())
			}
			continue
		}
		result.Failed++
		result.Failures = append(result.Failures, Failure{Case: c.ID(), Reason: reason})
		fmt.Fprintf(r.config.Output, "Running case: %s ... FAILED\n", c.ID())
		for _, line := range strings.Split(reason, "\n") {
			fmt.Fprintf(r.config.Output, "    %s\n", line)
		}
	}

	fmt.Fprintln(r.config.Output)
	fmt.Fprintf(r.config.Output, "Suite summary: %d total, %d passed, %d failed\n",
		result.Total, result.Passed, result.Failed)
	return result, nil
}

// RunCase runs one case and returns an empty reason when it passes. err is
// reserved for failures of the runner itself (cancellation).
func RunCase(ctx context.Context, c *Case) (reason string, err error) {
	reason, err = check(ctx, c)
	if err != nil || !c.ShouldFail {
		return reason, err
	}
	if reason == "" {
		return "case is marked should_fail but passed", nil
	}
	return "", nil
}

func check(ctx context.Context, c *Case) (string, error) {
	opts := c.options()
	in, err := driver.ProcessSource(ctx, CaseName, []byte(c.Input), opts)
	if err != nil {
		return "", err
	}
	if reason := compareMessages(c.Messages, in.Lines()); reason != "" {
		return reason, nil
	}
	if c.Output == nil {
		return "", nil
	}

	out, err := driver.ProcessSource(ctx, CaseName, []byte(*c.Output), opts)
	if err != nil {
		return "", err
	}
	if lines := out.Lines(); len(lines) > 0 {
		return "expected output produced diagnostics:\n" + strings.Join(lines, "\n"), nil
	}

	var equal bool
	switch c.Compare {
	case CompareChars:
		equal = in.Text() == out.Text()
	default:
		equal = token.LooseEqual(in.Tokens, out.Tokens)
	}
	if !equal {
		return fmt.Sprintf("output mismatch:\n got: %q\nwant: %q", in.Text(), out.Text()), nil
	}
	return "", nil
}

func (c *Case) options() driver.Options {
	opts := driver.Options{
		Plan:     c.Plan,
		Resolver: include.MapResolver(c.Files),
	}
	for _, d := range c.Defines {
		if name, ok := strings.CutPrefix(d, "-U"); ok {
			opts.Predefined = append(opts.Predefined, preproc.Define{Name: name, Undef: true})
			continue
		}
		opts.Predefined = append(opts.Predefined, preproc.ParseDefine(strings.TrimPrefix(d, "-D")))
	}
	return opts
}

func compareMessages(want, got []string) string {
	if slices.Equal(want, got) || (len(want) == 0 && len(got) == 0) {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("messages mismatch:")
	for _, w := range want {
		if !slices.Contains(got, w) {
			fmt.Fprintf(&sb, "\nmissing:    %s", w)
		}
	}
	for _, g := range got {
		if !slices.Contains(want, g) {
			fmt.Fprintf(&sb, "\nunexpected: %s", g)
		}
	}
	if sb.Len() == len("messages mismatch:") {
		sb.WriteString("\nreordered: got " + strings.Join(got, " | "))
	}
	return sb.String()
}

package suite

import (
	"fmt"

	"ppfront/internal/pipeline"
)

// Compare selects how a case's input and expected output are compared.
type Compare string

const (
	// CompareTokens compares phase 3+ token sequences ignoring whitespace runs.
	CompareTokens Compare = "pptokens_loose_equal"
	// CompareChars compares phase 1/2 character values.
	CompareChars Compare = "chars_equal"
)

// ParseCompare accepts the short names and the assert_-prefixed spelling.
func ParseCompare(s string) (Compare, error) {
	switch s {
	case "", string(CompareTokens), "assert_pptokens_loose_equal":
		return CompareTokens, nil
	case string(CompareChars), "assert_chars_equal":
		return CompareChars, nil
	}
	return "", fmt.Errorf("unknown output_compare %q", s)
}

// Case is one input/expectation pair of a suite.
type Case struct {
	// Suite is the name under [suites.NAME].
	Suite string
	// Index is the position of the case within its suite.
	Index int
	// File is the TOML file the case was read from.
	File string

	Name     string
	Plan     pipeline.Plan
	Compare  Compare
	Input    string
	Output   *string
	Messages []string
	// Files are in-memory include fixtures keyed by logical name.
	Files map[string]string
	// Defines are -D/-U style entries applied before the input.
	Defines []string
	// ShouldFail inverts the verdict.
	ShouldFail bool
}

// ID returns a stable human-readable identifier, e.g. macros.toml#expand/2.
func (c *Case) ID() string {
	if c.Name != "" {
		return fmt.Sprintf("%s#%s/%s", baseName(c.File), c.Suite, c.Name)
	}
	return fmt.Sprintf("%s#%s/%d", baseName(c.File), c.Suite, c.Index)
}

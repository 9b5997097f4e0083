package suite

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"ppfront/internal/pipeline"
)

type fileDoc struct {
	Suites map[string]suiteDoc `toml:"suites"`
}

type suiteDoc struct {
	Passes        []string   `toml:"passes"`
	OutputCompare string     `toml:"output_compare"`
	Cases         []caseDoc `toml:"cases"`
}

type caseDoc struct {
	Name       string            `toml:"name"`
	Input      string            `toml:"input"`
	Output     *string           `toml:"output"`
	Messages   []string          `toml:"messages"`
	Files      map[string]string `toml:"files"`
	Defines    []string          `toml:"defines"`
	ShouldFail bool              `toml:"should_fail"`
}

// Registry collects the cases of every loaded suite file.
type Registry struct {
	mu      sync.Mutex
	cases []Case
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		cases: make([]Case, 0),
	}
}

// Add registers a case.
func (r *Registry) Add(c *Case) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases = append(r.cases, *c)
}

// All returns all registered cases.
func (r *Registry) All() []Case {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Case(nil), r.cases...)
}

// FilterBySuite returns cases whose suite is one of names. If names is empty,
// returns all cases.
func (r *Registry) FilterBySuite(names []string) []Case {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(names) == 0 {
		return append([]Case(nil), r.cases...)
	}
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	var result []Case
	for _, c := range r.cases {
		if allowed[c.Suite] {
			result = append(result, c)
		}
	}
	return result
}

// Len returns the total number of cases.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cases)
}

// LoadFile decodes one suite file. Suites are registered in name order so the
// run order does not depend on map iteration.
func (r *Registry) LoadFile(path string) error {
	var doc fileDoc
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return r.add(path, &doc)
}

// LoadString decodes suite text; used by tests.
func (r *Registry) LoadString(name, text string) error {
	var doc fileDoc
	if _, err := toml.Decode(text, &doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return r.add(name, &doc)
}

func (r *Registry) add(path string, doc *fileDoc) error {
	names := make([]string, 0, len(doc.Suites))
	for n := range doc.Suites {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		s := doc.Suites[name]
		plan, err := pipeline.ParsePlan(s.Passes)
		if err != nil {
			return fmt.Errorf("%s: suite %s: %w", path, name, err)
		}
		cmpKind, err := ParseCompare(s.OutputCompare)
		if err != nil {
			return fmt.Errorf("%s: suite %s: %w", path, name, err)
		}
		if err := checkCompare(plan, cmpKind); err != nil {
			return fmt.Errorf("%s: suite %s: %w", path, name, err)
		}
		for i, cs := range s.Cases {
			r.Add(&Case{
				Suite:      name,
				Index:      i,
				File:       path,
				Name:       cs.Name,
				Plan:       plan,
				Compare:    cmpKind,
				Input:      cs.Input,
				Output:     cs.Output,
				Messages:   cs.Messages,
				Files:      cs.Files,
				Defines:    cs.Defines,
				ShouldFail: cs.ShouldFail,
			})
		}
	}
	return nil
}

// checkCompare: символы есть только до phase3, токены только после.
func checkCompare(plan pipeline.Plan, c Compare) error {
	tokens := plan.Has(pipeline.StagePhase3)
	switch {
	case c == CompareChars && tokens:
		return fmt.Errorf("%s needs a plan that stops before phase3", c)
	case c == CompareTokens && !tokens:
		return fmt.Errorf("%s needs phase3", c)
	}
	return nil
}

// LoadDir loads every *.toml file under dir in path order.
func (r *Registry) LoadDir(dir string) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".toml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, f := range files {
		if err := r.LoadFile(f); err != nil {
			return err
		}
	}
	return nil
}

func baseName(p string) string {
	return filepath.Base(p)
}

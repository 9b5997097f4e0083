// Package config loads the ppfront.toml manifest.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ppfront/internal/pipeline"
	"ppfront/internal/preproc"
	"ppfront/internal/source"
)

// ManifestName is the file looked up from the working directory upwards.
const ManifestName = "ppfront.toml"

// ErrNoManifest is returned by Load when no manifest exists up to the root.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

// Preprocess is the [preprocess] table.
type Preprocess struct {
	Include        []string `toml:"include"`
	SystemInclude  []string `toml:"system_include"`
	Defines        []string `toml:"defines"`
	Undefines      []string `toml:"undefines"`
	Passes         []string `toml:"passes"`
	InputCharset   string   `toml:"input_charset"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

// Suites is the [suites] table of the manifest.
type Suites struct {
	Dirs []string `toml:"dirs"`
}

type Manifest struct {
	// Path is the manifest file; Root its directory. Relative paths inside the
	// manifest are resolved against Root.
	Path       string
	Root       string
	Preprocess Preprocess `toml:"preprocess"`
	Suites     Suites     `toml:"suites"`
	// Unknown lists keys the manifest sets that ppfront does not know.
	Unknown []string `toml:"-"`
}

// Find walks up from startDir to locate ppfront.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest above startDir.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return LoadFile(path)
}

// LoadFile parses one manifest and validates its values.
func LoadFile(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	m.Path = path
	m.Root = filepath.Dir(path)
	for _, key := range meta.Undecoded() {
		m.Unknown = append(m.Unknown, key.String())
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Preprocess.Include = m.abs(m.Preprocess.Include)
	m.Preprocess.SystemInclude = m.abs(m.Preprocess.SystemInclude)
	m.Suites.Dirs = m.abs(m.Suites.Dirs)
	return &m, nil
}

func (m *Manifest) validate() error {
	if _, err := pipeline.ParsePlan(m.Preprocess.Passes); err != nil {
		return fmt.Errorf("[preprocess].passes: %w", err)
	}
	if _, err := source.LookupCharset(m.Preprocess.InputCharset); err != nil {
		return fmt.Errorf("[preprocess].input_charset: %w", err)
	}
	if m.Preprocess.MaxDiagnostics < 0 {
		return fmt.Errorf("[preprocess].max_diagnostics must not be negative")
	}
	for _, d := range m.Preprocess.Defines {
		if strings.TrimSpace(preproc.ParseDefine(d).Name) == "" {
			return fmt.Errorf("[preprocess].defines: empty macro name in %q", d)
		}
	}
	return nil
}

func (m *Manifest) abs(paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		p = filepath.FromSlash(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(m.Root, p)
		}
		out[i] = p
	}
	return out
}

// Predefined returns the -D/-U operations of the manifest: defines first, then
// undefines.
func (m *Manifest) Predefined() []preproc.Define {
	if m == nil {
		return nil
	}
	out := make([]preproc.Define, 0, len(m.Preprocess.Defines)+len(m.Preprocess.Undefines))
	for _, d := range m.Preprocess.Defines {
		out = append(out, preproc.ParseDefine(d))
	}
	for _, u := range m.Preprocess.Undefines {
		out = append(out, preproc.Define{Name: u, Undef: true})
	}
	return out
}

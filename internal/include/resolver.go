// Package include resolves #include targets and tracks the inclusion stack.
package include

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

var (
	// ErrNotFound is returned when no search location holds the requested file.
	ErrNotFound = errors.New("file not found")
	// ErrDepthExceeded is returned by Stack.Push past the nesting limit.
	ErrDepthExceeded = errors.New("maximum nested include depth exceeded")
)

// Request describes one #include.
type Request struct {
	Name string
	// System is true for the <FILENAME> form.
	System bool
	// IncluderDir is the directory of the including file; empty for virtual buffers.
	IncluderDir string
}

// Found is a resolved include: Path is the logical name diagnostics use.
type Found struct {
	Path    string
	Content []byte
}

// Resolver maps an include target to content.
type Resolver interface {
	Resolve(req Request) (Found, error)
}

// FSResolver looks files up on disk: "FILENAME" searches the includer's directory
// first, then Include, then System; <FILENAME> searches Include, then System.
type FSResolver struct {
	Include []string
	System  []string
	// FS overrides the root filesystem; nil means the OS.
	FS fs.FS
}

func (r *FSResolver) Resolve(req Request) (Found, error) {
	if filepath.IsAbs(req.Name) {
		return r.read(req.Name)
	}
	dirs := make([]string, 0, len(r.Include)+len(r.System)+1)
	if !req.System {
		dirs = append(dirs, req.IncluderDir)
	}
	dirs = append(dirs, r.Include...)
	dirs = append(dirs, r.System...)

	for _, dir := range dirs {
		found, err := r.read(join(dir, req.Name))
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Found{}, err
		}
	}
	return Found{}, fmt.Errorf("%s: %w", req.Name, ErrNotFound)
}

func (r *FSResolver) read(p string) (Found, error) {
	var (
		content []byte
		err     error
	)
	if r.FS != nil {
		content, err = fs.ReadFile(r.FS, path.Clean(filepath.ToSlash(p)))
	} else {
		// #nosec G304 -- include paths are controlled by the user
		content, err = os.ReadFile(p)
	}
	switch {
	case err == nil:
		return Found{Path: p, Content: content}, nil
	case errors.Is(err, fs.ErrNotExist), isDirErr(p, r.FS):
		return Found{}, fmt.Errorf("%s: %w", p, ErrNotFound)
	default:
		return Found{}, err
	}
}

func isDirErr(p string, fsys fs.FS) bool {
	var (
		info fs.FileInfo
		err  error
	)
	if fsys != nil {
		info, err = fs.Stat(fsys, path.Clean(filepath.ToSlash(p)))
	} else {
		info, err = os.Stat(p)
	}
	return err == nil && info.IsDir()
}

func join(dir, name string) string {
	if dir == "" {
		return filepath.ToSlash(filepath.Clean(name))
	}
	return filepath.ToSlash(filepath.Join(dir, name))
}

// MapResolver serves in-memory fixtures by exact logical name.
type MapResolver map[string]string

func (m MapResolver) Resolve(req Request) (Found, error) {
	if req.IncluderDir != "" {
		if content, ok := m[join(req.IncluderDir, req.Name)]; ok && !req.System {
			return Found{Path: join(req.IncluderDir, req.Name), Content: []byte(content)}, nil
		}
	}
	content, ok := m[req.Name]
	if !ok {
		return Found{}, fmt.Errorf("%s: %w", req.Name, ErrNotFound)
	}
	return Found{Path: req.Name, Content: []byte(content)}, nil
}

// Chain tries resolvers in order and returns the first hit.
type Chain []Resolver

func (c Chain) Resolve(req Request) (Found, error) {
	for _, r := range c {
		found, err := r.Resolve(req)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Found{}, err
		}
	}
	return Found{}, fmt.Errorf("%s: %w", req.Name, ErrNotFound)
}

package diagfmt

import (
	"os"
	"path/filepath"
	"strings"

	"ppfront/internal/source"
)

// autoPathLimit - длиннее этого абсолютный путь в auto-режиме сокращается до имени.
const autoPathLimit = 40

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return "<unknown>"
	}
	p := f.Path
	if f.Flags&source.FileVirtual != 0 && strings.HasPrefix(p, "<") {
		// <case>, <stdin>, <command-line>
		return p
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		base := baseDir
		if base == "" {
			base, _ = os.Getwd()
		}
		if abs, err := filepath.Abs(p); err == nil && base != "" {
			if rel, err := filepath.Rel(base, abs); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	case PathModeBasename:
		return filepath.Base(p)
	case PathModeAuto:
		if filepath.IsAbs(p) && len(p) > autoPathLimit {
			return filepath.Base(p)
		}
	}
	return p
}

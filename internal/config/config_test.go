package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ppfront/internal/preproc"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[preprocess]
include = ["inc"]
system_include = ["/usr/include"]
defines = ["DEBUG", "LEVEL=2"]
undefines = ["NDEBUG"]
passes = ["phase1", "phase2", "phase3", "phase4", "phase5"]
input_charset = "latin1"
max_diagnostics = 50

[suites]
dirs = ["testdata/suites"]
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := Load(nested)
	if err != nil {
		t.Fatal(err)
	}
	if m.Root != root {
		t.Errorf("Root = %q, want %q", m.Root, root)
	}
	if diff := cmp.Diff([]string{filepath.Join(root, "inc")}, m.Preprocess.Include); diff != "" {
		t.Errorf("include (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/usr/include"}, m.Preprocess.SystemInclude); diff != "" {
		t.Errorf("system include (-want +got):\n%s", diff)
	}
	want := []preproc.Define{
		{Name: "DEBUG", Value: "1"},
		{Name: "LEVEL", Value: "2"},
		{Name: "NDEBUG", Undef: true},
	}
	if diff := cmp.Diff(want, m.Predefined()); diff != "" {
		t.Errorf("predefined (-want +got):\n%s", diff)
	}
	if m.Preprocess.MaxDiagnostics != 50 || m.Preprocess.InputCharset != "latin1" {
		t.Errorf("preprocess = %+v", m.Preprocess)
	}
	if len(m.Unknown) != 0 {
		t.Errorf("unexpected unknown keys %v", m.Unknown)
	}
}

func TestLoadNoManifest(t *testing.T) {
	// временный каталог не содержит манифеста, но родители могут
	dir := t.TempDir()
	if _, ok, err := Find(dir); err != nil || ok {
		t.Skip("a parent directory carries a manifest")
	}
	if _, err := Load(dir); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("err = %v, want ErrNoManifest", err)
	}
}

func TestLoadFileReportsUnknownKeys(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[preprocess]
passes = ["phase1"]
colour = "blue"
`)
	m, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"preprocess.colour"}, m.Unknown); diff != "" {
		t.Errorf("unknown (-want +got):\n%s", diff)
	}
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"passes gap", "[preprocess]\npasses = [\"phase1\", \"phase4\"]\n"},
		{"charset", "[preprocess]\ninput_charset = \"klingon\"\n"},
		{"negative limit", "[preprocess]\nmax_diagnostics = -1\n"},
		{"empty define", "[preprocess]\ndefines = [\"=1\"]\n"},
		{"syntax", "[preprocess\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			if _, err := LoadFile(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

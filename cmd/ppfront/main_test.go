package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ppfront/internal/driver"
	"ppfront/internal/include"
	"ppfront/internal/observ"
	"ppfront/internal/pipeline"
	"ppfront/internal/preproc"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("readUIMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("readUIMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.c", "a.i", "skip.h"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(dir, "skip.h")
	missing := filepath.Join(dir, "missing.c")

	got, err := expandArgs([]string{dir, single, missing})
	if err != nil {
		t.Fatalf("expandArgs: %v", err)
	}
	want := []string{filepath.Join(dir, "a.i"), filepath.Join(dir, "b.c"), single, missing}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expandArgs mismatch (-want +got):\n%s", diff)
	}

	if _, err := expandArgs([]string{dir, "-"}); err == nil {
		t.Error("expected error when combining - with files")
	}
}

func TestWriteTexts(t *testing.T) {
	ctx := context.Background()
	one, err := driver.ProcessSource(ctx, "one.c", []byte("#define X 1\nX\n"), driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	two, err := driver.ProcessSource(ctx, "two.c", []byte("y"), driver.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var single bytes.Buffer
	if err := writeTexts(&single, []*driver.Result{one}); err != nil {
		t.Fatal(err)
	}
	if got := single.String(); got != "1\n" {
		t.Errorf("single unit = %q, want %q", got, "1\n")
	}

	var many bytes.Buffer
	if err := writeTexts(&many, []*driver.Result{one, two}); err != nil {
		t.Fatal(err)
	}
	want := "# 1 \"one.c\"\n1\n# 1 \"two.c\"\ny\n"
	if got := many.String(); got != want {
		t.Errorf("many units = %q, want %q", got, want)
	}
}

func TestWriteTextsKeepsPartialOutput(t *testing.T) {
	ctx := context.Background()
	files := include.MapResolver{"self.h": "#include \"self.h\"\ninner\n"}
	deep, err := driver.ProcessSource(ctx, "deep.c", []byte("#include \"self.h\"\nouter\n"),
		driver.Options{Resolver: files, MaxIncludeDepth: 1})
	if err != nil {
		t.Fatal(err)
	}
	if deep.Status != preproc.StatusFatal {
		t.Fatalf("status = %v, want fatal", deep.Status)
	}
	missing, err := driver.ProcessUnit(ctx, filepath.Join(t.TempDir(), "missing.c"), driver.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := writeTexts(&out, []*driver.Result{deep}); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "inner\nouter\n" {
		t.Errorf("fatal unit = %q, want %q", got, "inner\nouter\n")
	}

	out.Reset()
	if err := writeTexts(&out, []*driver.Result{missing}); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "" {
		t.Errorf("unreadable unit = %q, want empty", got)
	}
}

func TestPrintStageTimings(t *testing.T) {
	timer := observ.NewTimer()
	timer.Add(string(pipeline.StagePhase1), 0)
	timer.Add(string(pipeline.StagePhase4), 0)
	results := []*driver.Result{{Timer: timer}, {Cached: true}}

	var pretty bytes.Buffer
	if err := printStageTimings(&pretty, results, pipeline.DefaultPlan(), "pretty"); err != nil {
		t.Fatal(err)
	}
	out := pretty.String()
	for _, line := range []string{"lexed 0.0 ms", "preprocessed 0.0 ms", "cached 1 of 2 unit(s)"} {
		if !strings.Contains(out, line) {
			t.Errorf("timings output %q lacks %q", out, line)
		}
	}
	if strings.Contains(out, "literals") {
		t.Errorf("timings output %q reports phases that were not planned", out)
	}

	var raw bytes.Buffer
	if err := printStageTimings(&raw, results, pipeline.DefaultPlan(), "json"); err != nil {
		t.Fatal(err)
	}
	var report observ.Report
	if err := json.Unmarshal(raw.Bytes(), &report); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(report.Phases) != 2 {
		t.Errorf("phases = %d, want 2", len(report.Phases))
	}
}

package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"ppfront/internal/diag"
	"ppfront/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("#undef UNDEFINED\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.c", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.MacUndefinedName,
		source.Span{File: fileID, Start: 7, End: 16}, "macro `UNDEFINED` does not exist"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/test.c:1:8"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/test.c:1:8"},
		{name: "Basename only", mode: PathModeBasename, contains: "test.c:1:8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR MAC3002: macro `UNDEFINED` does not exist") {
				t.Errorf("Expected header line, got:\n%s", output)
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "Short path - as is", path: "test.c", expected: "test.c:1:1"},
		{name: "Long absolute path - basename", path: "/very/long/absolute/path/to/some/nested/directory/file.c", expected: "file.c:1:1"},
		{name: "Virtual name", path: "<case>", expected: "<case>:1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileID := fs.AddVirtual(tt.path, []byte("x\n"))
			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.DirUserWarning, source.Span{File: fileID, Start: 0, End: 1}, "w"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{})
			if out := buf.String(); !strings.HasPrefix(out, tt.expected+":") {
				t.Errorf("Expected output to start with %q, got:\n%s", tt.expected, out)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.c", []byte("#define f(a) a\n\tf(1, 2)\n"))

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.MacArity, source.Span{File: fileID, Start: 17, End: 18},
		"`f` expects exactly 1 argument; found 2")
	d = d.WithNote(source.Span{File: fileID, Start: 8, End: 9}, "macro `f` defined here")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	want := strings.Join([]string{
		"a.c:2:3: ERROR MAC3003: `f` expects exactly 1 argument; found 2",
		" 2 | \tf(1, 2)",
		"   | \t ^",
		"  note: a.c:1:9: macro `f` defined here",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrettyContextAndWidth(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.c", []byte("one\n#error boom boom boom\nthree\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.DirUserError, source.Span{File: fileID, Start: 5, End: 10}, "boom"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, Width: 10})
	out := buf.String()
	for _, want := range []string{" 1 | one\n", " 2 | #error bo…\n", "   |  ^~~~~\n", " 3 | three\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestUnderlineWideRunes(t *testing.T) {
	line := "日本 x"
	// "x" на байте 7, колонка 8
	if got := underline(line, 8, 9); got != "     ^" {
		t.Errorf("underline = %q", got)
	}
	if got := underline(line, 1, 7); got != "^~~~" {
		t.Errorf("underline = %q", got)
	}
}

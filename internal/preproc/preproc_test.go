package preproc

import (
	"context"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ppfront/internal/diag"
	"ppfront/internal/include"
	"ppfront/internal/macro"
	"ppfront/internal/source"
	"ppfront/internal/token"
)

type outcome struct {
	Text   string
	Diags  []string
	Status Status
}

func process(t *testing.T, mainPath, input string, files include.MapResolver, defs ...Define) outcome {
	t.Helper()
	return processWith(t, mainPath, input, Options{Resolver: files, Predefined: defs})
}

func processWith(t *testing.T, mainPath, input string, opts Options) outcome {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	p := New(fs, diag.BagReporter{Bag: bag}, opts)

	var id source.FileID
	if mainPath == "<case>" {
		id = fs.AddVirtual(mainPath, []byte(input))
	} else {
		id = fs.Add(mainPath, []byte(input), 0)
	}
	res, err := p.Run(context.Background(), id, Front(fs.Get(id), p.Reporter()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := len(res.Tokens); n == 0 || res.Tokens[n-1].Kind != token.EOF {
		t.Fatalf("result does not end with EOF: %v", res.Tokens)
	}
	diags := diag.Lines(bag.Items(), fs)
	if len(diags) == 0 {
		diags = nil
	}
	return outcome{Text: token.Render(res.Tokens), Diags: diags, Status: res.Status}
}

func TestExpansion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  outcome
	}{
		{
			name:  "object-like",
			input: "#define abc def\nabc abcdef\n",
			want:  outcome{Text: "def abcdef\n"},
		},
		{
			name:  "nested arguments",
			input: "#define add(a, b) a + b\nadd(add(1,2), 3)\n",
			want:  outcome{Text: "1 + 2 + 3\n"},
		},
		{
			name:  "stringify",
			input: "#define str(s) # s\nstr(3 + 2)\n",
			want:  outcome{Text: "\"3 + 2\"\n"},
		},
		{
			name:  "stringify collapses and escapes",
			input: "#define s(x) #x\ns(  \"a\\b\"   'c'  )\n",
			want:  outcome{Text: `"\"a\\b\" 'c'"` + "\n"},
		},
		{
			name:  "self reference",
			input: "#define z z[0]\nz\n",
			want:  outcome{Text: "z[0]\n"},
		},
		{
			name:  "mutual recursion stops",
			input: "#define a b\n#define b a\na b\n",
			want:  outcome{Text: "a b\n"},
		},
		{
			name:  "function-like name without call",
			input: "#define f(x) x\nf + f\n",
			want:  outcome{Text: "f + f\n"},
		},
		{
			name:  "call spans lines",
			input: "#define f(x) [x]\nf\n(1)\n",
			want:  outcome{Text: "[1]\n"},
		},
		{
			name:  "paste",
			input: "#define cat(a, b) a ## b\ncat(x, y) cat(1, 2)\n",
			want:  outcome{Text: "xy 12\n"},
		},
		{
			name:  "paste with empty operands",
			input: "#define cat(a, b) a ## b\n[cat(, y)] [cat(x, )] [cat(,)]\n",
			want:  outcome{Text: "[y] [x] []\n"},
		},
		{
			name:  "paste operands are not expanded",
			input: "#define X 1\n#define cat(a, b) a ## b\ncat(X, X)\n",
			want:  outcome{Text: "XX\n"},
		},
		{
			name:  "paste result is rescanned",
			input: "#define XY 7\n#define cat(a, b) a ## b\ncat(X, Y)\n",
			want:  outcome{Text: "7\n"},
		},
		{
			name:  "object-like paste",
			input: "#define op < ## =\nop\n",
			want:  outcome{Text: "<=\n"},
		},
		{
			name:  "variadic",
			input: "#define v(fmt, ...) f(fmt, __VA_ARGS__)\nv(1, 2, 3) v(1)\n",
			want:  outcome{Text: "f(1, 2, 3) f(1, )\n"},
		},
		{
			name:  "arguments are expanded before substitution",
			input: "#define ONE 1\n#define id(x) x\nid(ONE)\n",
			want:  outcome{Text: "1\n"},
		},
		{
			name:  "parenthesized commas",
			input: "#define first(a, b) a\nfirst((1, 2), 3)\n",
			want:  outcome{Text: "(1, 2)\n"},
		},
		{
			name:  "identical redefinition",
			input: "#define A (1  +  2)\n#define A (1 + 2)\nA\n",
			want:  outcome{Text: "(1 + 2)\n"},
		},
		{
			name:  "undef",
			input: "#define A 1\n#undef A\nA\n",
			want:  outcome{Text: "A\n"},
		},
		{
			name:  "null directive and pragma",
			input: "#\n# pragma whatever\nx\n",
			want:  outcome{Text: "x\n"},
		},
		{
			name:  "empty input",
			input: "",
			want:  outcome{Text: ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := process(t, "<case>", tt.input, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
		diags []string
		st    Status
	}{
		{
			name:  "undef of unknown macro",
			input: "#undef UNDEFINED\n",
			diags: []string{"<case>:1:8: macro `UNDEFINED` does not exist"},
			st:    StatusDegraded,
		},
		{
			name:  "incompatible redefinition",
			input: "#define A 1\n#define A 2\nA\n",
			text:  "1\n",
			diags: []string{
				"<case>:2:9: macro `A` redefined differently",
				"<case>:1:9: macro `A` first defined here",
			},
			st: StatusDegraded,
		},
		{
			name:  "too few arguments",
			input: "#define f(a, b) a\nf(1) x\n",
			text:  " x\n",
			diags: []string{"<case>:2:2: `f` expects exactly 2 arguments; found 1"},
			st:    StatusDegraded,
		},
		{
			name:  "singular argument",
			input: "#define f(a) a\nf(1, 2)\n",
			text:  "\n",
			diags: []string{"<case>:2:2: `f` expects exactly 1 argument; found 2"},
			st:    StatusDegraded,
		},
		{
			name:  "variadic too few",
			input: "#define g(a, b, ...) a\ng(1)\n",
			text:  "\n",
			diags: []string{"<case>:2:2: `g` expects at least 2 arguments; found 1"},
			st:    StatusDegraded,
		},
		{
			name:  "invalid paste",
			input: "#define cat(a, b) a ## b\ncat(+, -)\n",
			text:  "+-\n",
			diags: []string{"<case>:2:1: concatenating `+` and `-` does not result in a valid preprocessor token"},
			st:    StatusDegraded,
		},
		{
			name:  "unterminated invocation",
			input: "#define f(x) x\nf(1",
			diags: []string{
				"<case>:2:4: expected `)` to end invocation of macro `f`",
				"<case>:2:2: macro `f` invocation opened here",
			},
			st: StatusFatal,
		},
		{
			name:  "define without name",
			input: "#define 1 2\n",
			diags: []string{"<case>:1:9: expected identifier token; found number token"},
			st:    StatusDegraded,
		},
		{
			name:  "repeated parameter",
			input: "#define f(x, x) x\nf(1)\n",
			text:  "f(1)\n",
			diags: []string{"<case>:1:14: macro parameter `x` repeated"},
			st:    StatusDegraded,
		},
		{
			name:  "bad parameter list",
			input: "#define f(x y) x\n#define g(1) 1\n#define h(... x) 1\n",
			diags: []string{
				"<case>:1:13: expected `,`; found `y`",
				"<case>:2:11: expected identifier or `...`; found `1`",
				"<case>:3:15: expected `)`; found `x`",
			},
			st: StatusDegraded,
		},
		{
			name:  "stringify needs parameter",
			input: "#define f(x) # y\n",
			diags: []string{"<case>:1:14: the `#` operator must be followed by a macro parameter"},
			st:    StatusDegraded,
		},
		{
			name:  "paste at edge",
			input: "#define f ## x\n#define g x ##\n",
			diags: []string{
				"<case>:1:11: a macro cannot begin nor end with `##`",
				"<case>:2:13: a macro cannot begin nor end with `##`",
			},
			st: StatusDegraded,
		},
		{
			name:  "invalid directive",
			input: "#frobnicate\nx\n",
			text:  "x\n",
			diags: []string{"<case>:1:2: invalid directive `frobnicate`"},
			st:    StatusDegraded,
		},
		{
			name:  "directive name not an identifier",
			input: "# 1 \"x\"\n#\"s\"\ny\n",
			text:  "y\n",
			diags: []string{
				"<case>:1:3: expected identifier; found number token",
				"<case>:2:2: expected identifier; found string-literal token",
			},
			st: StatusDegraded,
		},
		{
			name:  "non-directive in skipped group",
			input: "#ifdef NOPE\n# 1 \"x\"\n#endif\ny\n",
			text:  "y\n",
		},
		{
			name:  "user error and warning",
			input: "#warning careful  now\n#error stop\n",
			diags: []string{
				"<case>:1:2: #warning careful now",
				"<case>:2:2: #error stop",
			},
			st: StatusDegraded,
		},
		{
			name:  "warning alone keeps ok status",
			input: "#warning hi\n",
			diags: []string{"<case>:1:2: #warning hi"},
			st:    StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := process(t, "<case>", tt.input, nil)
			want := outcome{Text: tt.text, Diags: tt.diags, Status: tt.st}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConditionals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
		diags []string
	}{
		{
			name:  "ifdef else",
			input: "#define A\n#ifdef A\nyes\n#else\nno\n#endif\n#ifndef A\nx\n#else\ny\n#endif\n",
			text:  "yes\ny\n",
		},
		{
			name:  "nested skipped",
			input: "#ifdef NOPE\n#ifdef X\na\n#else\nb\n#endif\nc\n#endif\nd\n",
			text:  "d\n",
		},
		{
			name:  "if is unsupported",
			input: "#if 1\na\n#else\nb\n#endif\nc\n",
			text:  "c\n",
			diags: []string{"<case>:1:2: constant expressions in `#if` are not supported"},
		},
		{
			name:  "unterminated",
			input: "#ifdef A\nx\n",
			diags: []string{"<case>:3:1: expected `endif` directive; found end-of-file token"},
		},
		{
			name:  "stray endif",
			input: "#endif\n",
			diags: []string{"<case>:1:2: unexpected directive `endif`"},
		},
		{
			name:  "double else",
			input: "#ifdef A\n#else\nx\n#else\ny\n#endif\nz\n",
			text:  "x\nz\n",
			diags: []string{"<case>:4:2: expected `endif` directive; found `else` directive"},
		},
		{
			name:  "ifdef without name",
			input: "#ifdef\nx\n#endif\ny\n",
			text:  "y\n",
			diags: []string{"<case>:1:7: expected identifier; found newline token"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := process(t, "<case>", tt.input, nil)
			if diff := cmp.Diff(tt.text, got.Text); diff != "" {
				t.Errorf("text mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.diags, got.Diags); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIncludeCycleIsFatal(t *testing.T) {
	files := include.MapResolver{
		"a": "#include \"b\"\na_tail\n",
		"b": "#include \"c\"\nb_tail\n",
		"c": "#include \"a\"\nc_tail\n",
	}
	got := process(t, "a", files["a"], files)

	// файл на глубине d: "abc"[d%3]; хвосты выходят от самого глубокого к main
	var text strings.Builder
	for d := include.MaxDepth; d >= 0; d-- {
		text.WriteString(string("abc"[d%3]) + "_tail\n")
	}
	want := outcome{
		Text:   text.String(),
		Diags:  []string{"c:1:10: maximum nested include depth exceeded"},
		Status: StatusFatal,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestIncludeDepthKeepsIncluderTails(t *testing.T) {
	files := include.MapResolver{
		"b": "#include \"c\"\nb_tail\n",
		"c": "#include \"c\"\nc_tail\n",
	}
	got := processWith(t, "main", "#include \"b\"\nmain_tail\n", Options{Resolver: files, MaxIncludeDepth: 2})
	want := outcome{
		Text:   "c_tail\nb_tail\nmain_tail\n",
		Diags:  []string{"c:1:10: maximum nested include depth exceeded"},
		Status: StatusFatal,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestInclude(t *testing.T) {
	files := include.MapResolver{
		"inc/one.h":  "#define ONE 1\n",
		"sys.h":      "sys\n",
		"once.h":     "#pragma once\nonce\n",
		"nested.h":   "#include \"inc/one.h\"\nONE\n",
	}
	tests := []struct {
		name  string
		input string
		text  string
		diags []string
	}{
		{name: "quoted", input: "#include \"inc/one.h\"\nONE\n", text: "1\n"},
		{name: "angle", input: "#include <sys.h>\n", text: "sys\n"},
		{name: "macro target", input: "#define H \"sys.h\"\n#include H\n", text: "sys\n"},
		{name: "nested", input: "#include \"nested.h\"\n", text: "1\n"},
		{name: "pragma once", input: "#include \"once.h\"\n#include \"once.h\"\n", text: "once\n"},
		{
			name:  "missing",
			input: "#include \"nope.h\"\nx\n",
			text:  "x\n",
			diags: []string{"<case>:1:10: could not include `nope.h`: file not found"},
		},
		{
			name:  "no filename",
			input: "#include\n",
			diags: []string{"<case>:1:9: expected `<FILENAME>`, `\"FILENAME\"`, or a macro that expands to either of those"},
		},
		{
			name:  "unclosed angle",
			input: "#include <sys.h\n",
			diags: []string{"<case>:1:16: expected `>` to close corresponding `<` after `#include`"},
		},
		{
			name:  "macro target with extra tokens",
			input: "#define J \"sys.h\" x\n#include J\ny\n",
			text:  "y\n",
			diags: []string{"<case>:2:10: expected `<FILENAME>`, `\"FILENAME\"`, or a macro that expands to either of those"},
		},
		{
			name:  "extra tokens",
			input: "#include \"sys.h\" junk\n",
			text:  "sys\n",
			diags: []string{"<case>:1:18: expected newline after <FILENAME>; found identifier token"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := process(t, "<case>", tt.input, files)
			if diff := cmp.Diff(tt.text, got.Text); diff != "" {
				t.Errorf("text mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.diags, got.Diags); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPredefined(t *testing.T) {
	got := process(t, "<case>", "A B C\n", nil,
		ParseDefine("A"),
		ParseDefine("B=two words"),
		Define{Name: "C", Value: "3"},
		Define{Name: "C", Undef: true},
	)
	want := outcome{Text: "1 two words C\n"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPredefinedRedefinitionPointsAtCommandLine(t *testing.T) {
	got := process(t, "<case>", "#define A 2\n", nil, ParseDefine("A=1"))
	want := []string{
		"<case>:1:9: macro `A` redefined differently",
		CommandLineName + ":1:9: macro `A` first defined here",
	}
	if diff := cmp.Diff(want, got.Diags); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestProvenanceReachesCallSite(t *testing.T) {
	fs := source.NewFileSet()
	p := New(fs, nil, Options{})
	id := fs.AddVirtual("<case>", []byte("#define wrap(x) [x]\nwrap(y)\n"))
	res, err := p.Run(context.Background(), id, Front(fs.Get(id), p.Reporter()))
	if err != nil {
		t.Fatal(err)
	}
	var y token.Token
	for _, tok := range res.Tokens {
		if tok.Text == "y" {
			y = tok
		}
	}
	if !y.FromMacro() {
		t.Fatalf("y should carry expansion origin: %+v", y)
	}
	steps := p.Arena().ExpansionChain(y)
	if len(steps) != 1 || !steps[0].FromArg || steps[0].Invocation.Macro.Name != "wrap" {
		t.Fatalf("chain = %+v", steps)
	}
	start, _ := fs.Resolve(p.Arena().RootSpan(y))
	if start.Line != 2 || start.Col != 6 {
		t.Errorf("root span at %d:%d, want 2:6", start.Line, start.Col)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	fs := source.NewFileSet()
	p := New(fs, nil, Options{})
	id := fs.AddVirtual("<case>", []byte("x\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Run(ctx, id, Front(fs.Get(id), p.Reporter())); err == nil {
		t.Fatal("expected context error")
	}
}

func TestTooManyParamsRejectsDefinition(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("#define f(")
	for i := 0; i <= macro.MaxParams; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("p" + strconv.Itoa(i))
	}
	sb.WriteString(") x\nf\n")

	got := process(t, "<case>", sb.String(), nil)
	if got.Text != "f\n" {
		t.Errorf("text = %q; f must stay undefined", got.Text)
	}
	want := "macro `f` has more than " + strconv.Itoa(macro.MaxParams) + " parameters"
	if len(got.Diags) != 1 || !strings.HasSuffix(got.Diags[0], want) {
		t.Errorf("diagnostics = %v; want one ending in %q", got.Diags, want)
	}
}

func TestOriginAtParamLimit(t *testing.T) {
	o := origin(7, macro.MaxParams, 3)
	if int(o.Arg) != macro.MaxParams || o.Index != 3 || o.Expansion != 7 {
		t.Errorf("origin = %+v", o)
	}
	if b := origin(7, int(token.BodyArg), 0); b.Arg != token.BodyArg {
		t.Errorf("body origin = %+v", b)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic past int16")
		}
	}()
	origin(7, math.MaxInt16+1, 0)
}

// Package preproc implements translation phase 4: directive processing and
// macro expansion over the token streams produced by phases 1-3.
//
// One Processor owns everything a translation unit needs: the macro table, the
// inclusion stack, the provenance arena and the diagnostic sink. Nothing is
// shared between processors, so units can run on separate goroutines.
package preproc

import (
	"context"
	"fmt"
	"strings"

	"ppfront/internal/chars"
	"ppfront/internal/diag"
	"ppfront/internal/include"
	"ppfront/internal/lexer"
	"ppfront/internal/macro"
	"ppfront/internal/provenance"
	"ppfront/internal/source"
	"ppfront/internal/token"
	"ppfront/internal/trace"
)

// CommandLineName is the buffer name of -D/-U definitions.
const CommandLineName = "<command-line>"

// Status classifies how processing of a unit ended.
type Status uint8

const (
	// StatusOK: no errors.
	StatusOK Status = iota
	// StatusDegraded: errors were reported, processing continued to the end.
	StatusDegraded
	// StatusFatal: an inclusion was cut at the depth limit, or input ran out
	// inside a macro invocation and reading stopped.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	case StatusFatal:
		return "fatal"
	}
	return "unknown"
}

// Define is one predefined macro operation, applied in order.
type Define struct {
	Name  string
	Value string
	// Undef turns the entry into #undef Name.
	Undef bool
}

// ParseDefine parses the -D argument form NAME or NAME=VALUE. NAME alone
// defines the macro as 1.
func ParseDefine(arg string) Define {
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		value = "1"
	}
	return Define{Name: name, Value: value}
}

type Options struct {
	Resolver include.Resolver
	// MaxIncludeDepth <= 0 means include.MaxDepth.
	MaxIncludeDepth int
	Predefined      []Define
}

// Result is the outcome of phase 4.
type Result struct {
	Tokens []token.Token
	Status Status
}

type Processor struct {
	fs       *source.FileSet
	reporter *diag.CountingReporter
	opts     Options
	macros   *macro.Table
	names    *source.Interner
	arena    *provenance.Arena
	tracer   trace.Tracer
	fatal    bool // результат StatusFatal
	stopped  bool // ввод исчерпан внутри вызова макроса, дальше читать нечего
}

func New(fs *source.FileSet, reporter diag.Reporter, opts Options) *Processor {
	if opts.Resolver == nil {
		opts.Resolver = include.Chain{}
	}
	return &Processor{
		fs:       fs,
		reporter: &diag.CountingReporter{Next: reporter},
		opts:     opts,
		macros:   macro.NewTable(),
		names:    source.NewInterner(),
		arena:    provenance.NewArena(),
		tracer:   trace.Nop,
	}
}

func (p *Processor) Macros() *macro.Table         { return p.macros }
func (p *Processor) Arena() *provenance.Arena     { return p.arena }
func (p *Processor) FileSet() *source.FileSet     { return p.fs }
func (p *Processor) Reporter() diag.Reporter      { return p.reporter }

// Front runs phases 1-3 over one buffer.
func Front(f *source.File, reporter diag.Reporter) []token.Token {
	cs := chars.SpliceLines(chars.ConvertTrigraphs(chars.FromFile(f)), reporter)
	return lexer.Tokenize(f.ID, cs, lexer.Options{Reporter: reporter})
}

// Run processes the main buffer whose phase 3 tokens are toks. The returned
// tokens always end with EOF.
func (p *Processor) Run(ctx context.Context, main source.FileID, toks []token.Token) (Result, error) {
	p.tracer = trace.FromContext(ctx)
	span := trace.Begin(p.tracer, trace.ScopePhase, "phase4", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	if len(p.opts.Predefined) > 0 {
		if err := p.predefine(ctx); err != nil {
			return Result{}, err
		}
	}

	p.arena.AddRootFile(main)
	r := newReader(p, main, toks)
	ex := newExpander(p, r, true)
	out, err := ex.run(ctx)
	if err != nil {
		return Result{}, err
	}
	span.WithExtra("macros", fmt.Sprint(p.macros.Len())).
		WithExtra("expansions", fmt.Sprint(p.arena.Invocations()))
	return Result{Tokens: out, Status: p.status()}, nil
}

func (p *Processor) status() Status {
	switch {
	case p.fatal:
		return StatusFatal
	case p.reporter.Errors > 0:
		return StatusDegraded
	}
	return StatusOK
}

// predefine прогоняет -D/-U через обычный путь #define/#undef.
func (p *Processor) predefine(ctx context.Context) error {
	var sb strings.Builder
	for _, d := range p.opts.Predefined {
		if d.Undef {
			fmt.Fprintf(&sb, "#undef %s\n", d.Name)
			continue
		}
		fmt.Fprintf(&sb, "#define %s %s\n", d.Name, d.Value)
	}
	id := p.fs.AddVirtual(CommandLineName, []byte(sb.String()))
	p.arena.AddRootFile(id)
	toks := Front(p.fs.Get(id), p.reporter)
	_, err := newExpander(p, newReader(p, id, toks), false).run(ctx)
	return err
}

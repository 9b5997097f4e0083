// Package driver runs the planned translation phases over translation units,
// one or many, and caches their results on disk.
package driver

import (
	"context"
	"fmt"
	"os"
	"time"

	"ppfront/internal/chars"
	"ppfront/internal/diag"
	"ppfront/internal/lexer"
	"ppfront/internal/literal"
	"ppfront/internal/observ"
	"ppfront/internal/pipeline"
	"ppfront/internal/preproc"
	"ppfront/internal/provenance"
	"ppfront/internal/source"
	"ppfront/internal/token"
	"ppfront/internal/trace"
)

// Result is the outcome of one translation unit.
type Result struct {
	Path    string
	FileSet *source.FileSet
	Main    source.FileID
	// Chars is set when the plan stops after phase 1 or 2; Tokens otherwise.
	Chars  []chars.Char
	Tokens []token.Token
	Bag    *diag.Bag
	Arena  *provenance.Arena
	Status preproc.Status
	Timer  *observ.Timer
	// Cached results carry only Output, Messages and Status.
	Cached   bool
	Output   string
	Messages []string

	joined bool // после phase6 пробельных токенов нет
}

// Text renders the unit's output: the characters, or the tokens as
// preprocessed text.
func (r *Result) Text() string {
	switch {
	case r.Cached:
		return r.Output
	case r.Chars != nil:
		return chars.String(r.Chars)
	case r.joined:
		return token.RenderSpaced(r.Tokens)
	}
	return token.Render(r.Tokens)
}

// Lines renders diagnostics one per line.
func (r *Result) Lines() []string {
	if r.Cached {
		return r.Messages
	}
	return diag.Lines(r.Bag.Items(), r.FileSet)
}

// ProcessUnit loads path from disk and processes it.
func ProcessUnit(ctx context.Context, path string, opts Options) (*Result, error) {
	return processUnit(ctx, path, &opts, nil)
}

// ProcessSource processes an in-memory buffer (stdin, suite case) under name.
// The disk cache is not consulted.
func ProcessSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	return process(ctx, name, content, true, &opts, nil)
}

func processUnit(ctx context.Context, path string, opts *Options, sink pipeline.ProgressSink) (*Result, error) {
	// #nosec G304 -- путь задаёт пользователь
	content, err := os.ReadFile(path)
	if err != nil {
		return loadFailure(path, err, opts), nil
	}
	key := opts.Cache.key(path, content, opts)
	if res, ok := opts.Cache.lookup(key, opts); ok {
		pipeline.Emit(sink, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusCached})
		return res, nil
	}
	res, err := process(ctx, path, content, false, opts, sink)
	if err != nil {
		return nil, err
	}
	if err := opts.Cache.store(key, res); err != nil {
		return nil, fmt.Errorf("cache %s: %w", path, err)
	}
	return res, nil
}

// loadFailure превращает ошибку чтения главного файла в фатальный результат.
func loadFailure(path string, err error, opts *Options) *Result {
	fs := source.NewFileSet()
	main := fs.AddVirtual(path, nil)
	bag := diag.NewBag(opts.MaxDiagnostics)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{File: main},
		fmt.Sprintf("could not read `%s`: %v", path, err)).Emit()
	return &Result{
		Path:    path,
		FileSet: fs,
		Main:    main,
		Bag:     bag,
		Status:  preproc.StatusFatal,
		Timer:   observ.NewTimer(),
	}
}

func process(ctx context.Context, name string, content []byte, virtual bool, opts *Options, sink pipeline.ProgressSink) (*Result, error) {
	tracer := trace.FromContext(ctx)
	unitSpan := trace.Begin(tracer, trace.ScopeUnit, "unit", trace.CurrentSpan(ctx).SpanID).
		WithExtra("path", name)
	defer unitSpan.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: unitSpan.ID()})

	cs, err := opts.charset()
	if err != nil {
		return nil, err
	}
	timer := observ.NewTimer()
	fs := source.NewFileSet()
	fs.SetCharset(cs)

	pipeline.Emit(sink, pipeline.Event{File: name, Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
	loadIdx := timer.Begin(string(pipeline.StageLoad))
	var flags source.FileFlags
	if virtual {
		flags = source.FileVirtual
	}
	main, err := fs.AddSource(name, content, flags)
	timer.End(loadIdx, "")
	if err != nil {
		pipeline.Emit(sink, pipeline.Event{File: name, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
		return loadFailure(name, err, opts), nil
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := &diag.CountingReporter{Next: diag.BagReporter{Bag: bag}}
	res := &Result{Path: name, FileSet: fs, Main: main, Bag: bag, Timer: timer}

	var (
		cs0  []chars.Char
		toks []token.Token
	)
	for _, st := range opts.plan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pipeline.Emit(sink, pipeline.Event{File: name, Stage: st, Status: pipeline.StatusWorking})
		idx := timer.Begin(string(st))

		var span *trace.Span
		if st != pipeline.StagePhase4 {
			// phase4 открывает собственный span
			span = trace.Begin(tracer, trace.ScopePhase, string(st), unitSpan.ID())
		}

		switch st {
		case pipeline.StagePhase1:
			cs0 = chars.ConvertTrigraphs(chars.FromFile(fs.Get(main)))
		case pipeline.StagePhase2:
			cs0 = chars.SpliceLines(cs0, reporter)
		case pipeline.StagePhase3:
			toks = lexer.Tokenize(main, cs0, lexer.Options{Reporter: reporter})
			cs0 = nil
		case pipeline.StagePhase4:
			p := preproc.New(fs, reporter, preproc.Options{
				Resolver:        opts.resolver(),
				MaxIncludeDepth: opts.MaxIncludeDepth,
				Predefined:      opts.Predefined,
			})
			out, err := p.Run(ctx, main, toks)
			if err != nil {
				timer.End(idx, "canceled")
				return nil, err
			}
			toks = out.Tokens
			res.Arena = p.Arena()
			res.Status = out.Status
		case pipeline.StagePhase5:
			toks = literal.Unescape(toks, reporter)
		case pipeline.StagePhase6:
			toks = literal.Concatenate(toks, reporter)
			res.joined = true
		}

		if span != nil {
			span.End("")
		}
		timer.End(idx, "")
		pipeline.Emit(sink, pipeline.Event{File: name, Stage: st, Status: pipeline.StatusDone})
	}

	if cs0 != nil {
		res.Chars = cs0
	} else {
		res.Tokens = toks
	}
	if res.Status == preproc.StatusOK && reporter.Errors > 0 {
		res.Status = preproc.StatusDegraded
	}
	unitSpan.WithExtra("status", res.Status.String())
	return res, nil
}

func (r *Result) elapsed() time.Duration {
	if r.Timer == nil {
		return 0
	}
	var d time.Duration
	for _, ph := range r.Timer.Phases() {
		d += ph.Dur
	}
	return d
}

package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span id; ids start at 1.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID parses the header line of runtime.Stack: "goroutine 17 [running]:".
func goroutineID() uint64 {
	var buf [64]byte
	line := buf[:runtime.Stack(buf[:], false)]
	line = bytes.TrimPrefix(line, []byte("goroutine "))
	if i := bytes.IndexByte(line, ' '); i > 0 {
		line = line[:i]
	}
	id, err := strconv.ParseUint(string(line), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func emit(t Tracer, ev *Event) {
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	t.Emit(ev)
}

// Span is an open begin/end pair. The zero-cost disabled span has no tracer
// and ignores every call.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

var disabled = &Span{}

// Begin opens a span under parent (0 for a root span) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return disabled
	}
	s := &Span{
		tracer: t,
		id:     NextSpanID(),
		parent: parent,
		gid:    goroutineID(),
		scope:  scope,
		name:   name,
	}
	emit(t, &Event{Kind: KindSpanBegin, Scope: scope, SpanID: s.id, ParentID: parent, GID: s.gid, Name: name})
	s.started = time.Now()
	return s
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// End emits the end event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	dur := time.Since(s.started)
	emit(s.tracer, &Event{
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
	})
	return dur
}

// ID is 0 for a disabled span, so children of it become roots.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// PointEvent is an instant event being built. A nil *PointEvent is valid and
// does nothing.
type PointEvent struct {
	tracer Tracer
	ev     Event
}

func Point(t Tracer, scope Scope, name string, parent uint64) *PointEvent {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return nil
	}
	return &PointEvent{tracer: t, ev: Event{Kind: KindPoint, Scope: scope, ParentID: parent, Name: name}}
}

func (p *PointEvent) WithExtra(key, value string) *PointEvent {
	if p == nil {
		return nil
	}
	if p.ev.Extra == nil {
		p.ev.Extra = make(map[string]string, 2)
	}
	p.ev.Extra[key] = value
	return p
}

func (p *PointEvent) Emit() {
	if p == nil {
		return
	}
	p.ev.GID = goroutineID()
	emit(p.tracer, &p.ev)
}

package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"ppfront/internal/pipeline"
)

// PlainSink печатает одну строку на завершённую единицу; для не-TTY вывода.
type PlainSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewPlainSink(w io.Writer) *PlainSink {
	return &PlainSink{w: w}
}

func (s *PlainSink) OnEvent(ev pipeline.Event) {
	if !ev.Final {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%-6s %s (%s)\n", ev.Status, ev.File, ev.Elapsed.Round(time.Microsecond))
}

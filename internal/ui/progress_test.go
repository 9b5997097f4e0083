package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"ppfront/internal/pipeline"
)

func TestProgressModelTracksUnits(t *testing.T) {
	plan := pipeline.DefaultPlan()
	m := NewProgressModel("pp", []string{"a.c", "b.c"}, plan, nil).(*progressModel)

	m.applyEvent(pipeline.Event{File: "a.c", Stage: pipeline.StagePhase3, Status: pipeline.StatusWorking})
	if got := m.items[0].status; got != "phase3" {
		t.Errorf("status = %q", got)
	}
	if got := m.percent(); got != 0.25 {
		t.Errorf("percent = %v, want 0.25", got)
	}

	m.applyEvent(pipeline.Event{File: "a.c", Stage: pipeline.StagePhase4, Status: pipeline.StatusDone, Final: true})
	m.applyEvent(pipeline.Event{File: "b.c", Stage: pipeline.StagePhase4, Status: pipeline.StatusCached, Final: true})
	// события после итогового не меняют статус
	m.applyEvent(pipeline.Event{File: "b.c", Stage: pipeline.StagePhase1, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "unknown.c", Status: pipeline.StatusError})

	if got := m.percent(); got != 1 {
		t.Errorf("percent = %v, want 1", got)
	}
	view := m.View()
	for _, want := range []string{"2 units", "done", "cached", "a.c", "b.c"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	ch := make(chan pipeline.Event)
	close(ch)
	m := NewProgressModel("pp", []string{"a.c"}, pipeline.DefaultPlan(), ch).(*progressModel)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("msg = %T, want doneMsg", msg)
	}
	m.Update(msg)
	if !m.done {
		t.Error("model not done")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 8, "ab..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPlainSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewPlainSink(&buf)
	s.OnEvent(pipeline.Event{File: "a.c", Status: pipeline.StatusWorking})
	s.OnEvent(pipeline.Event{File: "a.c", Status: pipeline.StatusDone, Elapsed: 3 * time.Millisecond, Final: true})
	if got, want := buf.String(), "done   a.c (3ms)\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

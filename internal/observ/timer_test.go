package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("phase1")
	tm.End(idx, "12 chars")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 1 || rep.Phases[0].Name != "phase1" || rep.Phases[0].Note != "12 chars" {
		t.Fatalf("report = %+v", rep)
	}
	if !strings.Contains(tm.Summary(), "phase1") || !strings.Contains(tm.Summary(), "total") {
		t.Fatalf("summary = %q", tm.Summary())
	}
}

func TestTimerMergeSumsByName(t *testing.T) {
	a, b := NewTimer(), NewTimer()
	a.Add("phase4", 2*time.Millisecond)
	b.Add("phase4", 3*time.Millisecond)
	b.Add("phase6", time.Millisecond)
	a.Merge(b)

	phases := a.Phases()
	if len(phases) != 2 {
		t.Fatalf("phases = %+v", phases)
	}
	if phases[0].Dur != 5*time.Millisecond {
		t.Errorf("phase4 = %v, want 5ms", phases[0].Dur)
	}
	if rep := a.Report(); rep.TotalMS != 6 {
		t.Errorf("total = %v, want 6", rep.TotalMS)
	}
}

func TestEmptyReport(t *testing.T) {
	if rep := NewTimer().Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Fatalf("report = %+v", rep)
	}
}

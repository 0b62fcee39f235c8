package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTotalsSumsByName(t *testing.T) {
	a := NewTotals()
	for range 2 {
		tm := NewTimer()
		tm.phases = append(tm.phases,
			Phase{Name: PhaseTokenize, Dur: 2 * time.Millisecond},
			Phase{Name: PhaseDispatch, Dur: 3 * time.Millisecond},
		)
		a.Add(tm)
	}

	r := a.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != PhaseTokenize || r.Phases[0].DurationMS != 4 {
		t.Fatalf("unexpected first phase: %+v", r.Phases[0])
	}
	if r.TotalMS != 10 {
		t.Fatalf("expected total 10ms, got %v", r.TotalMS)
	}
	if s := a.Summary(); !strings.Contains(s, "timings (2 files)") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	idx := tm.Begin(PhaseRead)
	tm.End(idx, "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("expected empty report, got %+v", r)
	}
}

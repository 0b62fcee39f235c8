// Package observ measures analysis phases.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase names used by the analyzer.
const (
	PhaseRead     = "read"
	PhaseTokenize = "tokenize"
	PhaseResolve  = "resolve"
	PhaseDispatch = "dispatch"
)

// Phase records the duration of one step of a file's analysis.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the phases of one file. Not safe for concurrent use.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a phase and returns its index. A nil timer ignores it.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport is the serializable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the serializable form of a timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Totals sums phase durations over many files. Safe for concurrent use.
type Totals struct {
	mu     sync.Mutex
	order  []string
	byName map[string]time.Duration
	files  int
}

// NewTotals creates an empty accumulator.
func NewTotals() *Totals {
	return &Totals{byName: make(map[string]time.Duration)}
}

// Add folds the phases of t in.
func (a *Totals) Add(t *Timer) {
	if a == nil || t == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files++
	for _, p := range t.phases {
		if _, seen := a.byName[p.Name]; !seen {
			a.order = append(a.order, p.Name)
		}
		a.byName[p.Name] += p.Dur
	}
}

// Report returns the summed phases in first-seen order.
func (a *Totals) Report() Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	report := Report{Phases: make([]PhaseReport, 0, len(a.order))}
	var total time.Duration
	for _, name := range a.order {
		d := a.byName[name]
		total += d
		report.Phases = append(report.Phases, PhaseReport{Name: name, DurationMS: durationToMillis(d)})
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary renders the totals as an aligned table.
func (a *Totals) Summary() string {
	report := a.Report()
	a.mu.Lock()
	files := a.files
	a.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "timings (%d files):\n", files)
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-12s %9.2f ms\n", p.Name, p.DurationMS)
	}
	fmt.Fprintf(&b, "  %-12s %9.2f ms\n", "total", report.TotalMS)
	return b.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

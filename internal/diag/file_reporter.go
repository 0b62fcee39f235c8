package diag

import (
	"cmp"

	"github.com/emirpasic/gods/v2/trees/redblacktree"
)

// EngineOrder is the rule order used for engine diagnostics; they sort
// before rule diagnostics at the same position.
const EngineOrder = -1

// Locator maps a token index to a 1-based line and column.
type Locator interface {
	Location(i int) (line, col int)
}

// Suppressor decides whether a code is hidden at a line.
type Suppressor interface {
	Suppressed(line int, code string) bool
}

type entryKey struct {
	line, col int
	order     int // порядок регистрации правила
	seq       int // порядок поступления
}

func compareEntries(a, b entryKey) int {
	if c := cmp.Compare(a.line, b.line); c != 0 {
		return c
	}
	if c := cmp.Compare(a.col, b.col); c != 0 {
		return c
	}
	if c := cmp.Compare(a.order, b.order); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// FileReporter collects the diagnostics of one file in deterministic
// order: line, column, rule registration order, then arrival.
// Suppressed diagnostics are counted and never stored.
type FileReporter struct {
	path   string
	loc    Locator
	sup    Suppressor
	max    int
	seq    int
	items  *redblacktree.Tree[entryKey, Diagnostic]
	counts Counts
}

// NewFileReporter creates a reporter for path. max caps the number of
// stored diagnostics (0 means no cap); the rest are counted as dropped.
func NewFileReporter(path string, loc Locator, sup Suppressor, max int) *FileReporter {
	return &FileReporter{
		path:  path,
		loc:   loc,
		sup:   sup,
		max:   max,
		items: redblacktree.NewWith[entryKey, Diagnostic](compareEntries),
	}
}

// Report implements Reporter for engine diagnostics.
func (r *FileReporter) Report(i int, sev Severity, code Code, msg string, fixable bool) {
	r.Record(EngineRule, EngineOrder, i, sev, code, msg, fixable)
}

// Record positions and stores a diagnostic attributed to rule. It reports
// whether the diagnostic is visible.
func (r *FileReporter) Record(rule string, order, i int, sev Severity, code Code, msg string, fixable bool) bool {
	line, col := 1, 1
	if r.loc != nil {
		line, col = r.loc.Location(i)
	}
	return r.Add(Diagnostic{
		File:     r.path,
		Line:     line,
		Column:   col,
		Code:     code,
		Message:  msg,
		Severity: sev,
		Fixable:  fixable,
		Rule:     rule,
	}, order)
}

// Add stores an already positioned diagnostic.
func (r *FileReporter) Add(d Diagnostic, order int) bool {
	if d.File == "" {
		d.File = r.path
	}
	if !d.Code.Internal() && r.sup != nil && r.sup.Suppressed(d.Line, string(d.Code)) {
		r.counts.Suppressed++
		return false
	}
	r.counts.count(d.Severity, d.Fixable)
	if r.max > 0 && r.items.Size() >= r.max {
		r.counts.Dropped++
		return false
	}
	r.seq++
	r.items.Put(entryKey{line: d.Line, col: d.Column, order: order, seq: r.seq}, d)
	return true
}

// Drain returns the stored diagnostics in order and empties the reporter.
// Counts are kept.
func (r *FileReporter) Drain() []Diagnostic {
	out := r.items.Values()
	r.items.Clear()
	return out
}

// Len returns the number of stored diagnostics.
func (r *FileReporter) Len() int {
	return r.items.Size()
}

// Counts returns the tallies so far.
func (r *FileReporter) Counts() Counts {
	return r.counts
}

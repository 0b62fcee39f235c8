package diag

// Bag collects the diagnostics one report shows, up to a limit. Entries
// keep the order they were added in; FileReporter.Drain already sorts.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag creates a bag holding at most max diagnostics (0: unlimited).
func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 1024)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddVisible adds the diagnostics of ds; warnings are skipped when
// hideWarnings is set and do not count as dropped.
func (b *Bag) AddVisible(ds []Diagnostic, hideWarnings bool) {
	for _, d := range ds {
		if hideWarnings && d.Severity == SevWarning {
			continue
		}
		b.Add(d)
	}
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Dropped is the number of diagnostics rejected by the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

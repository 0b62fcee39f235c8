package diag

import (
	"fmt"
	"sort"
)

// LineCounts maps a 1-based line to the number of diagnostics on it.
type LineCounts map[int]int

// Expectation is the per-severity line table of one file.
type Expectation struct {
	Errors   LineCounts `yaml:"errors,omitempty" json:"errors,omitempty"`
	Warnings LineCounts `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// Tally builds the line tables of ds.
func Tally(ds []Diagnostic) Expectation {
	e := Expectation{Errors: LineCounts{}, Warnings: LineCounts{}}
	for _, d := range ds {
		switch d.Severity {
		case SevError:
			e.Errors[d.Line]++
		case SevWarning:
			e.Warnings[d.Line]++
		}
	}
	return e
}

// Diff lists the differences between want and got, one line each, in
// line order. An empty result means the tables match.
func Diff(want, got Expectation) []string {
	var out []string
	out = append(out, diffCounts("errors", want.Errors, got.Errors)...)
	out = append(out, diffCounts("warnings", want.Warnings, got.Warnings)...)
	return out
}

func diffCounts(label string, want, got LineCounts) []string {
	lines := make(map[int]struct{}, len(want)+len(got))
	for l, n := range want {
		if n != 0 {
			lines[l] = struct{}{}
		}
	}
	for l, n := range got {
		if n != 0 {
			lines[l] = struct{}{}
		}
	}
	sorted := make([]int, 0, len(lines))
	for l := range lines {
		sorted = append(sorted, l)
	}
	sort.Ints(sorted)

	var out []string
	for _, l := range sorted {
		if want[l] != got[l] {
			out = append(out, fmt.Sprintf("%s on line %d: want %d, got %d", label, l, want[l], got[l]))
		}
	}
	return out
}

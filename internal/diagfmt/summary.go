package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tokensniff/internal/driver"
)

// Summary writes the one-line run summary, followed by the phase timings
// when they were collected.
func Summary(w io.Writer, sum driver.Summary, colorize bool) error {
	p := newPalette(colorize)
	var b strings.Builder
	fmt.Fprintf(&b, "checked %s in %.1f ms: ", plural(sum.Files, "file"), toMillis(sum.Elapsed))
	b.WriteString(p.err.Sprint(plural(sum.Counts.Errors, "error")))
	b.WriteString(", ")
	b.WriteString(p.warn.Sprint(plural(sum.Counts.Warnings, "warning")))

	var extra []string
	if sum.Counts.Fixable > 0 {
		extra = append(extra, fmt.Sprintf("%d fixable", sum.Counts.Fixable))
	}
	if sum.Counts.Suppressed > 0 {
		extra = append(extra, fmt.Sprintf("%d suppressed", sum.Counts.Suppressed))
	}
	if sum.Counts.Dropped > 0 {
		extra = append(extra, fmt.Sprintf("%d over limit", sum.Counts.Dropped))
	}
	if len(extra) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(extra, ", "))
	}
	if sum.Fatal > 0 {
		b.WriteString("; ")
		b.WriteString(p.err.Sprintf("%d not analyzed", sum.Fatal))
	}
	if sum.Cached > 0 {
		fmt.Fprintf(&b, "; %d from cache", sum.Cached)
	}
	b.WriteByte('\n')
	if sum.Timings != nil {
		b.WriteString(sum.Timings.Summary())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

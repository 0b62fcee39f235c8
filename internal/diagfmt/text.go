package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tokensniff/internal/diag"
	"tokensniff/internal/driver"
	"tokensniff/internal/source"
)

type palette struct {
	err     *color.Color
	warn    *color.Color
	path    *color.Color
	code    *color.Color
	gutter  *color.Color
	caret   *color.Color
	fixable *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		path:    color.New(color.Bold),
		code:    color.New(color.FgCyan),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		fixable: color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.path, p.code, p.gutter, p.caret, p.fixable} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if s == diag.SevError {
		return p.err
	}
	return p.warn
}

// Text writes every diagnostic of results as a header line followed by
// the quoted source line and a caret under the reported column.
func Text(w io.Writer, results []driver.FileResult, opts TextOpts) error {
	p := newPalette(opts.Color)
	tab := opts.TabWidth
	if tab <= 0 {
		tab = 4
	}
	for _, res := range results {
		shown := visible(res.Diagnostics, opts.HideWarnings, 0)
		if shown.Len() == 0 {
			continue
		}
		ds := shown.Items()
		var file *source.File
		if opts.Files != nil {
			file, _ = opts.Files.GetByPath(res.Path)
		}
		path := formatPath(res.Path, opts.PathMode, opts.BaseDir)
		for _, d := range ds {
			if err := writeTextDiagnostic(w, p, path, file, d, tab, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTextDiagnostic(w io.Writer, p palette, path string, file *source.File, d diag.Diagnostic, tab int, opts TextOpts) error {
	var b strings.Builder
	b.WriteString(p.path.Sprintf("%s:%d:%d:", path, d.Line, d.Column))
	b.WriteByte(' ')
	b.WriteString(p.severity(d.Severity).Sprint(d.Severity.String()))
	b.WriteByte(' ')
	b.WriteString(p.code.Sprintf("[%s]", d.Code))
	b.WriteByte(' ')
	b.WriteString(d.Message)
	if d.Fixable {
		b.WriteByte(' ')
		b.WriteString(p.fixable.Sprint("(fixable)"))
	}
	b.WriteByte('\n')

	if file != nil && d.Line > 0 && d.Line <= file.LineCount() {
		gw := len(fmt.Sprint(d.Line))
		from := max(1, d.Line-opts.Context)
		var line string
		for ln := from; ln <= d.Line; ln++ {
			line = sourceLine(file, ln, tab)
			b.WriteString(p.gutter.Sprintf("%*d | ", gw, ln))
			b.WriteString(truncateLine(line, opts.Width))
			b.WriteByte('\n')
		}
		b.WriteString(p.gutter.Sprintf("%*s | ", gw, ""))
		b.WriteString(strings.Repeat(" ", caretOffset(line, d.Column)))
		b.WriteString(p.caret.Sprint("^"))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func sourceLine(file *source.File, ln, tab int) string {
	n, err := safecast.Conv[uint32](ln)
	if err != nil {
		return ""
	}
	return expandTabs(file.GetLine(n), tab)
}

// expandTabs replaces tabs with spaces up to the next tab stop, matching
// how diagnostic columns are counted.
func expandTabs(line string, tab int) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := tab - col%tab
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// caretOffset is the display width of the first column-1 runes of line.
func caretOffset(line string, column int) int {
	if column <= 1 {
		return 0
	}
	runes := []rune(line)
	n := min(column-1, len(runes))
	return runewidth.StringWidth(string(runes[:n])) + (column - 1 - n)
}

func truncateLine(line string, width int) string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return line
	}
	if width <= 3 {
		return runewidth.Truncate(line, width, "")
	}
	return runewidth.Truncate(line, width, "...")
}

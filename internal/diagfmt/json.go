package diagfmt

import (
	"encoding/json"
	"io"

	"tokensniff/internal/diag"
	"tokensniff/internal/driver"
	"tokensniff/internal/observ"
)

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Fixable  bool   `json:"fixable"`
}

// FileJSON is one file of the report.
type FileJSON struct {
	Path        string           `json:"path"`
	Grammar     string           `json:"grammar"`
	Status      string           `json:"status"`
	Cached      bool             `json:"cached,omitempty"`
	Counts      diag.Counts      `json:"counts"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Truncated   int              `json:"truncated,omitempty"`
}

// TotalsJSON aggregates the run.
type TotalsJSON struct {
	Files     int            `json:"files"`
	Fatal     int            `json:"fatal"`
	Cached    int            `json:"cached"`
	Counts    diag.Counts    `json:"counts"`
	ElapsedMS float64        `json:"elapsed_ms"`
	Timings   *observ.Report `json:"timings,omitempty"`
}

// ReportJSON представляет корневую структуру JSON вывода
type ReportJSON struct {
	Files  []FileJSON `json:"files"`
	Totals TotalsJSON `json:"totals"`
}

// BuildReport формирует структуру JSON-вывода без сериализации.
func BuildReport(results []driver.FileResult, sum driver.Summary, opts JSONOpts) ReportJSON {
	out := ReportJSON{
		Files: make([]FileJSON, 0, len(results)),
		Totals: TotalsJSON{
			Files:     sum.Files,
			Fatal:     sum.Fatal,
			Cached:    sum.Cached,
			Counts:    sum.Counts,
			ElapsedMS: toMillis(sum.Elapsed),
		},
	}
	if sum.Timings != nil {
		report := sum.Timings.Report()
		out.Totals.Timings = &report
	}
	for _, res := range results {
		shown := visible(res.Diagnostics, opts.HideWarnings, opts.Max)
		ds := shown.Items()
		f := FileJSON{
			Path:        formatPath(res.Path, opts.PathMode, opts.BaseDir),
			Grammar:     res.Grammar.String(),
			Status:      res.Status.String(),
			Cached:      res.Cached,
			Counts:      res.Counts,
			Diagnostics: make([]DiagnosticJSON, 0, len(ds)),
			Truncated:   shown.Dropped(),
		}
		for _, d := range ds {
			f.Diagnostics = append(f.Diagnostics, DiagnosticJSON{
				Line:     d.Line,
				Column:   d.Column,
				Severity: d.Severity.Label(),
				Code:     string(d.Code),
				Rule:     d.Rule,
				Message:  d.Message,
				Fixable:  d.Fixable,
			})
		}
		out.Files = append(out.Files, f)
	}
	return out
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, results []driver.FileResult, sum driver.Summary, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(results, sum, opts))
}

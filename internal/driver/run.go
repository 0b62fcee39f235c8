package driver

import (
	"context"
	"runtime"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"tokensniff/internal/diag"
	"tokensniff/internal/observ"
)

// Exit codes of a check run.
const (
	ExitClean  = 0
	ExitIssues = 1
	ExitFatal  = 2
	ExitUsage  = 3
)

// Summary aggregates a run.
type Summary struct {
	Files    int
	Fatal    int
	Canceled int
	Cached   int
	Counts   diag.Counts
	Elapsed  time.Duration
	Timings  *observ.Totals
}

// ExitCode maps the summary to a process exit code. Warnings count as
// issues only when showWarnings is set.
func (s Summary) ExitCode(showWarnings bool) int {
	switch {
	case s.Fatal > 0:
		return ExitFatal
	case s.Counts.Errors > 0, showWarnings && s.Counts.Warnings > 0:
		return ExitIssues
	default:
		return ExitClean
	}
}

// Run analyzes inputs on up to Options.Jobs workers. Results keep the
// order of inputs. Canceled files are marked StatusCanceled and left out
// of the summary; the returned error is ctx.Err() in that case.
func (a *Analyzer) Run(ctx context.Context, inputs []Input) ([]FileResult, Summary, error) {
	started := time.Now()
	log := logr.FromContextOrDiscard(ctx)
	results := make([]FileResult, len(inputs))
	sum := Summary{}
	if a.opts.Timings {
		sum.Timings = observ.NewTotals()
	}
	if len(inputs) == 0 {
		return results, sum, nil
	}

	for _, in := range inputs {
		emit(a.opts.Progress, Event{File: in.Path, Progress: ProgressQueued})
	}

	jobs := a.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// ошибки файлов живут в результатах, группа не отменяется
	var g errgroup.Group
	g.SetLimit(min(jobs, len(inputs)))
	for i, in := range inputs {
		if ctx.Err() != nil {
			results[i] = FileResult{Path: in.Path, Grammar: in.Grammar, Status: StatusCanceled}
			continue
		}
		g.Go(func() error {
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = a.AnalyzeFile(ctx, in)
			return nil
		})
	}
	_ = g.Wait()

	for i := range results {
		r := &results[i]
		switch r.Status {
		case StatusCanceled:
			sum.Canceled++
			continue
		case StatusFatal:
			sum.Fatal++
			log.Info("file could not be analyzed", "file", r.Path, "code", string(r.Diagnostics[0].Code))
		}
		sum.Files++
		if r.Cached {
			sum.Cached++
		}
		sum.Counts.Add(r.Counts)
		sum.Timings.Add(r.Timer)
	}
	sum.Elapsed = time.Since(started)
	log.V(1).Info("run finished", "files", sum.Files, "fatal", sum.Fatal, "errors", sum.Counts.Errors,
		"warnings", sum.Counts.Warnings, "elapsed", sum.Elapsed)

	if err := ctx.Err(); err != nil {
		return results, sum, err
	}
	return results, sum, nil
}

// Reported returns the results that belong in output: canceled files are
// dropped.
func Reported(results []FileResult) []FileResult {
	out := make([]FileResult, 0, len(results))
	for _, r := range results {
		if r.Status != StatusCanceled {
			out = append(out, r)
		}
	}
	return out
}

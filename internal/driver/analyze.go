// Package driver turns paths into analysis results: it reads files, runs
// the tokenizer, the resolver and the dispatcher, and aggregates the
// outcome of a run.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"tokensniff/internal/cache"
	"tokensniff/internal/diag"
	"tokensniff/internal/lexer"
	"tokensniff/internal/metrics"
	"tokensniff/internal/observ"
	"tokensniff/internal/resolve"
	"tokensniff/internal/sniff"
	"tokensniff/internal/source"
	"tokensniff/internal/token"
)

// Status is the outcome of one file.
type Status uint8

const (
	// StatusOK means the rules ran; the file may still have diagnostics.
	StatusOK Status = iota
	// StatusFatal means the file could not be analyzed. Its result carries
	// exactly one diagnostic and no style findings.
	StatusFatal
	// StatusCanceled means the run stopped before the file finished. Such
	// results are never reported.
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFatal:
		return "fatal"
	case StatusCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// FileResult is the outcome of analyzing one input.
type FileResult struct {
	Path        string
	Grammar     token.Grammar
	Status      Status
	Diagnostics []diag.Diagnostic
	Counts      diag.Counts
	Cached      bool
	Faults      map[string]int
	Elapsed     time.Duration
	Timer       *observ.Timer
}

// Options configure an Analyzer.
type Options struct {
	TabWidth       int
	MaxDiagnostics int
	MaxTokenLength int
	RuleBudget     time.Duration
	Jobs           int
	// Cache, when set, serves and stores results.
	Cache *cache.Store
	// Progress receives per-file events.
	Progress ProgressSink
	// Timings enables per-phase timing of every file.
	Timings bool
	// Files, when set, keeps every loaded file so reports can quote lines.
	Files *source.FileSet
}

// Analyzer runs one registry over files. It is safe for concurrent use.
type Analyzer struct {
	reg  *sniff.Registry
	disp *sniff.Dispatcher
	opts Options
	// fingerprint covers everything besides the file that shapes a result
	fingerprint string
}

// NewAnalyzer binds a built registry to options.
func NewAnalyzer(reg *sniff.Registry, opts Options) *Analyzer {
	return &Analyzer{
		reg:         reg,
		disp:        sniff.NewDispatcher(reg, sniff.Options{RuleBudget: opts.RuleBudget}),
		opts:        opts,
		fingerprint: fmt.Sprintf("%s/max=%d/tok=%d", reg.Fingerprint(), opts.MaxDiagnostics, opts.MaxTokenLength),
	}
}

// Registry returns the registry the analyzer runs.
func (a *Analyzer) Registry() *sniff.Registry { return a.reg }

// WithProgress returns a copy of the analyzer that reports to sink.
func (a *Analyzer) WithProgress(sink ProgressSink) *Analyzer {
	c := *a
	c.opts.Progress = sink
	return &c
}

// AnalyzeFile analyzes one input. Failures to read, tokenize or resolve
// produce a StatusFatal result rather than an error; ctx cancellation
// produces StatusCanceled.
func (a *Analyzer) AnalyzeFile(ctx context.Context, in Input) FileResult {
	log := logr.FromContextOrDiscard(ctx).WithValues("file", in.Path)
	started := time.Now()
	res := a.analyze(ctx, log, in)
	res.Elapsed = time.Since(started)

	if res.Status != StatusCanceled {
		metrics.File(res.Status.String(), res.Elapsed)
		metrics.Diagnostics(res.Counts.Errors, res.Counts.Warnings, res.Counts.Suppressed)
		for rule, n := range res.Faults {
			metrics.RuleFault(rule, n)
		}
	}
	return res
}

func (a *Analyzer) analyze(ctx context.Context, log logr.Logger, in Input) FileResult {
	res := FileResult{Path: in.Path, Grammar: in.Grammar}
	if a.opts.Timings {
		res.Timer = observ.NewTimer()
	}
	if err := ctx.Err(); err != nil {
		res.Status = StatusCanceled
		return res
	}

	emit(a.opts.Progress, Event{File: in.Path, Stage: StageRead, Progress: ProgressWorking})
	idx := res.Timer.Begin(observ.PhaseRead)
	f, err := a.load(in)
	res.Timer.End(idx, "")
	if err != nil {
		log.Error(err, "cannot read file")
		return a.fatal(res, diag.Diagnostic{
			File:     in.Path,
			Code:     diag.FileUnreadable,
			Message:  fmt.Sprintf("File could not be read: %v", err),
			Severity: diag.SevError,
			Rule:     diag.EngineRule,
		}, err)
	}

	if a.opts.Files != nil {
		a.opts.Files.Add(f)
	}

	var key cache.Key
	if a.opts.Cache != nil {
		key = cache.KeyFor(f.Path, f.Content, in.Grammar.String(), a.opts.TabWidth, a.fingerprint)
		entry, ok, err := a.opts.Cache.Get(key)
		if err != nil {
			log.V(1).Info("cache read failed", "error", err.Error())
		}
		metrics.CacheLookup(ok)
		if ok {
			res.Cached = true
			res.Diagnostics = entry.Diagnostics
			res.Counts = entry.Counts
			if entry.Fatal {
				res.Status = StatusFatal
			}
			emit(a.opts.Progress, Event{File: in.Path, Stage: StageCache, Progress: progressOf(res.Status)})
			return res
		}
	}

	emit(a.opts.Progress, Event{File: in.Path, Stage: StageTokenize, Progress: ProgressWorking})
	idx = res.Timer.Begin(observ.PhaseTokenize)
	stream, err := lexer.Tokenize(f, in.Grammar, lexer.Options{
		TabWidth:       a.opts.TabWidth,
		MaxTokenLength: a.opts.MaxTokenLength,
	})
	res.Timer.End(idx, "")
	if err != nil {
		var lerr *lexer.Error
		if !errors.As(err, &lerr) {
			lerr = &lexer.Error{Code: diag.TokUnknownGrammar, Path: in.Path, Line: 1, Column: 1, Msg: err.Error()}
		}
		log.V(1).Info("tokenizer failed", "code", string(lerr.Code), "line", lerr.Line)
		return a.store(log, key, a.fatal(res, lerr.Diagnostic(), err))
	}

	emit(a.opts.Progress, Event{File: in.Path, Stage: StageResolve, Progress: ProgressWorking})
	idx = res.Timer.Begin(observ.PhaseResolve)
	err = resolve.Resolve(stream)
	res.Timer.End(idx, fmt.Sprintf("%d scopes", len(stream.Scopes)))
	if err != nil {
		var rerr *resolve.Error
		if !errors.As(err, &rerr) {
			log.Error(err, "resolver failed")
			return a.fatal(res, diag.Diagnostic{
				File: in.Path, Line: 1, Column: 1, Code: diag.ResUnmatchedCloser,
				Message: err.Error(), Severity: diag.SevError, Rule: diag.EngineRule,
			}, err)
		}
		log.V(1).Info("resolver failed", "code", string(rerr.Code), "line", rerr.Line)
		return a.store(log, key, a.fatal(res, rerr.Diagnostic(), err))
	}

	emit(a.opts.Progress, Event{File: in.Path, Stage: StageSniff, Progress: ProgressWorking})
	idx = res.Timer.Begin(observ.PhaseDispatch)
	rep := diag.NewFileReporter(f.Path, stream, stream.Suppress, a.opts.MaxDiagnostics)
	stats, err := a.disp.Run(ctx, stream, rep)
	res.Timer.End(idx, fmt.Sprintf("%d calls", stats.Calls))
	if err != nil {
		res.Status = StatusCanceled
		return res
	}

	res.Diagnostics = rep.Drain()
	res.Counts = rep.Counts()
	res.Faults = stats.Faults
	emit(a.opts.Progress, Event{File: in.Path, Stage: StageSniff, Progress: ProgressDone})

	// результат с отключёнными по бюджету правилами зависит от машины
	if len(stats.Disabled) == 0 {
		a.store(log, key, res)
	}
	return res
}

func (a *Analyzer) load(in Input) (*source.File, error) {
	if in.Content != nil {
		content, flags := source.Normalize(in.Content)
		return source.NewFile(in.Path, content, flags|source.FileVirtual), nil
	}
	return source.ReadFile(in.Path)
}

func (a *Analyzer) fatal(res FileResult, d diag.Diagnostic, err error) FileResult {
	res.Status = StatusFatal
	res.Diagnostics = []diag.Diagnostic{d}
	res.Counts = diag.Counts{Errors: 1}
	emit(a.opts.Progress, Event{File: res.Path, Progress: ProgressError, Err: err})
	return res
}

func (a *Analyzer) store(log logr.Logger, key cache.Key, res FileResult) FileResult {
	if a.opts.Cache == nil || res.Status == StatusCanceled {
		return res
	}
	entry := &cache.Entry{
		Path:        res.Path,
		Diagnostics: res.Diagnostics,
		Counts:      res.Counts,
		Fatal:       res.Status == StatusFatal,
	}
	// ошибка кэша не должна ломать анализ
	if err := a.opts.Cache.Put(key, entry); err != nil {
		log.Error(err, "cache write failed")
	}
	return res
}

func progressOf(s Status) Progress {
	if s == StatusFatal {
		return ProgressError
	}
	return ProgressDone
}

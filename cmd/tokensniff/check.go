package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tokensniff/internal/cache"
	"tokensniff/internal/config"
	"tokensniff/internal/diagfmt"
	"tokensniff/internal/driver"
	"tokensniff/internal/metrics"
	"tokensniff/internal/prof"
	"tokensniff/internal/rules"
	"tokensniff/internal/source"
	"tokensniff/internal/testkit"
	"tokensniff/internal/token"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path|pattern|-]...",
	Short: "Check files against a coding standard",
	Long: `Check tokenizes every file, resolves its structure and runs the selected rules.
Arguments are files, directories (walked recursively) or doublestar patterns
such as "src/**/*.php". A single "-" reads one file from standard input.

Exit codes: 0 clean, 1 issues found, 2 some files could not be analyzed,
3 usage or configuration error.`,
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.String("standard", "", "standard to apply (Default|All|None|PSR1|Generic|Squiz)")
	f.StringSlice("rules", nil, "additional rule ids")
	f.StringSlice("exclude", nil, "rule ids or prefixes to skip")
	f.Int("jobs", 0, "number of parallel workers (default from config)")
	f.Int("tab-width", 0, "tab width for columns and indentation (default from config)")
	f.Int("max-diagnostics", 0, "maximum diagnostics kept per file, 0 means unlimited")
	f.Duration("rule-budget", 0, "per-file time budget of a single rule, 0 disables")
	f.Bool("no-warnings", false, "hide warnings and do not fail on them")
	f.String("format", "text", "output format (text|json|expect|summary)")
	f.String("path-mode", "relative", "how paths are printed (auto|absolute|relative|basename)")
	f.Int("context", 0, "source lines shown before each diagnostic")
	f.String("ui", "off", "show progress UI (auto|on|off)")
	f.Bool("cache", false, "reuse results of unchanged files")
	f.String("cache-dir", "", "directory of the result cache")
	f.String("metrics-file", "", "write Prometheus metrics of the run to this file")
	f.Bool("timings", false, "print per-phase timings")
	f.Bool("write-expect", false, "write <file>"+testkit.ExpectSuffix+" tables next to every checked file")
	f.String("grammar", "", "force the grammar of every file (php|js|css)")
	f.String("stdin-path", "stdin", "file name reported for standard input")
	f.String("cpuprofile", "", "write a CPU profile to this file")
	f.String("memprofile", "", "write a heap profile to this file")
	f.String("trace", "", "write a runtime execution trace to this file")
}

type checkFlags struct {
	format      diagfmt.Format
	pathMode    diagfmt.PathMode
	context     int
	ui          uiMode
	metricsFile string
	timings     bool
	writeExpect bool
	grammar     token.Grammar
	stdinPath   string
	profiles    prof.Options
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return usageError(err)
	}
	cf, err := applyCheckFlags(cmd, cfg)
	if err != nil {
		return usageError(err)
	}
	ctx, log, err := withLogger(cmd, cfg)
	if err != nil {
		return usageError(err)
	}

	reg, err := rules.Build(rules.Selection{
		Standard: cfg.Standard.Name,
		Include:  cfg.Standard.Rules,
		Exclude:  cfg.Standard.Exclude,
	}, cfg.Overrides())
	if err != nil {
		return usageError(err)
	}
	session, err := prof.Start(cf.profiles)
	if err != nil {
		return usageError(err)
	}
	defer func() {
		if err := session.Stop(); err != nil {
			log.Error(err, "cannot write profiles")
		}
	}()

	log.V(1).Info("registry built", "rules", reg.Len(), "fingerprint", reg.Fingerprint())

	inputs, err := checkInputs(cmd, cfg, cf, args)
	if err != nil {
		return usageError(err)
	}
	if len(inputs) == 0 {
		return usageError(errors.New("no files to check"))
	}

	store, err := openCache(cfg)
	if err != nil {
		return usageError(err)
	}

	files := source.NewFileSet()
	analyzer := driver.NewAnalyzer(reg, driver.Options{
		TabWidth:       cfg.Run.TabWidth,
		MaxDiagnostics: cfg.Run.MaxDiagnostics,
		RuleBudget:     cfg.Run.RuleBudget.Duration,
		Jobs:           cfg.Run.Jobs,
		Cache:          store,
		Timings:        cf.timings,
		Files:          files,
	})

	var (
		results []driver.FileResult
		sum     driver.Summary
		runErr  error
	)
	if shouldUseTUI(cf.ui) {
		results, sum, runErr = runCheckWithUI(ctx, analyzer, inputs)
	} else {
		results, sum, runErr = analyzer.Run(ctx, inputs)
	}
	reported := driver.Reported(results)

	if cf.writeExpect {
		for _, res := range reported {
			if res.Status == driver.StatusFatal || res.Path == cf.stdinPath {
				continue
			}
			if err := testkit.WriteExpectation(res.Path, res.Diagnostics); err != nil {
				log.Error(err, "cannot write expectation", "file", res.Path)
			}
		}
	}

	if err := writeReport(cmd, cfg, cf, files, reported, sum); err != nil {
		return &exitError{code: driver.ExitFatal, err: err}
	}
	if cf.metricsFile != "" {
		if err := metrics.WriteFile(cf.metricsFile); err != nil {
			log.Error(err, "cannot write metrics", "path", cf.metricsFile)
		}
	}
	if runErr != nil {
		return &exitError{code: driver.ExitFatal, err: fmt.Errorf("check interrupted: %w", runErr)}
	}
	if code := sum.ExitCode(cfg.Run.ShowWarnings); code != driver.ExitClean {
		return &exitError{code: code}
	}
	return nil
}

// applyCheckFlags lets explicitly set flags override the configuration.
func applyCheckFlags(cmd *cobra.Command, cfg *config.Config) (checkFlags, error) {
	f := cmd.Flags()
	var cf checkFlags
	var err error

	if f.Changed("standard") {
		cfg.Standard.Name, _ = f.GetString("standard")
	}
	if f.Changed("rules") {
		ids, _ := f.GetStringSlice("rules")
		cfg.Standard.Rules = append(cfg.Standard.Rules, ids...)
	}
	if f.Changed("exclude") {
		ids, _ := f.GetStringSlice("exclude")
		cfg.Standard.Exclude = append(cfg.Standard.Exclude, ids...)
	}
	if f.Changed("jobs") {
		if cfg.Run.Jobs, _ = f.GetInt("jobs"); cfg.Run.Jobs <= 0 {
			return cf, fmt.Errorf("--jobs must be positive")
		}
	}
	if f.Changed("tab-width") {
		cfg.Run.TabWidth, _ = f.GetInt("tab-width")
	}
	if f.Changed("max-diagnostics") {
		cfg.Run.MaxDiagnostics, _ = f.GetInt("max-diagnostics")
	}
	if f.Changed("rule-budget") {
		cfg.Run.RuleBudget.Duration, _ = f.GetDuration("rule-budget")
	}
	if noWarn, _ := f.GetBool("no-warnings"); noWarn {
		cfg.Run.ShowWarnings = false
	}
	if f.Changed("cache") {
		cfg.Run.Cache, _ = f.GetBool("cache")
	}
	if f.Changed("cache-dir") {
		cfg.Run.CacheDir, _ = f.GetString("cache-dir")
		cfg.Run.Cache = true
	}
	if err := cfg.Validate(); err != nil {
		return cf, err
	}

	v, _ := f.GetString("format")
	if cf.format, err = diagfmt.ParseFormat(v); err != nil {
		return cf, err
	}
	v, _ = f.GetString("path-mode")
	if cf.pathMode, err = diagfmt.ParsePathMode(v); err != nil {
		return cf, err
	}
	v, _ = f.GetString("ui")
	if cf.ui, err = readUIMode(v); err != nil {
		return cf, err
	}
	if v, _ = f.GetString("grammar"); v != "" {
		if cf.grammar, err = token.ParseGrammar(v); err != nil {
			return cf, err
		}
	}
	cf.context, _ = f.GetInt("context")
	cf.metricsFile, _ = f.GetString("metrics-file")
	cf.timings, _ = f.GetBool("timings")
	cf.writeExpect, _ = f.GetBool("write-expect")
	cf.stdinPath, _ = f.GetString("stdin-path")
	cf.profiles.CPU, _ = f.GetString("cpuprofile")
	cf.profiles.Mem, _ = f.GetString("memprofile")
	cf.profiles.Trace, _ = f.GetString("trace")
	return cf, nil
}

func checkInputs(cmd *cobra.Command, cfg *config.Config, cf checkFlags, args []string) ([]driver.Input, error) {
	if len(args) == 1 && args[0] == "-" {
		g := cf.grammar
		if g == 0 {
			var ok bool
			if g, ok = cfg.Grammar(cf.stdinPath); !ok {
				return nil, fmt.Errorf("reading standard input needs --grammar or a --stdin-path with a known extension")
			}
		}
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return []driver.Input{{Path: cf.stdinPath, Grammar: g, Content: content}}, nil
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	return driver.Discover(cfg, args, driver.DiscoverOptions{Grammar: cf.grammar})
}

func openCache(cfg *config.Config) (*cache.Store, error) {
	if !cfg.Run.Cache {
		return nil, nil
	}
	dir := cfg.Run.CacheDir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir("tokensniff"); err != nil {
			return nil, fmt.Errorf("cache directory: %w", err)
		}
	}
	disk, err := cache.OpenDisk(dir)
	if err != nil {
		return nil, fmt.Errorf("cache directory: %w", err)
	}
	return cache.New(cache.DefaultMemoryEntries, disk)
}

func writeReport(cmd *cobra.Command, cfg *config.Config, cf checkFlags, files *source.FileSet, results []driver.FileResult, sum driver.Summary) error {
	out := cmd.OutOrStdout()
	baseDir, _ := os.Getwd()
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	hideWarnings := !cfg.Run.ShowWarnings

	switch cf.format {
	case diagfmt.FormatJSON:
		return diagfmt.JSON(out, results, sum, diagfmt.JSONOpts{
			PathMode: cf.pathMode, BaseDir: baseDir, HideWarnings: hideWarnings,
		})
	case diagfmt.FormatExpect:
		return diagfmt.Expect(out, results, cf.pathMode, baseDir)
	case diagfmt.FormatSummary:
		return diagfmt.Summary(out, sum, colored)
	default:
		err := diagfmt.Text(out, results, diagfmt.TextOpts{
			Color:        colored,
			Context:      cf.context,
			PathMode:     cf.pathMode,
			BaseDir:      baseDir,
			TabWidth:     cfg.Run.TabWidth,
			HideWarnings: hideWarnings,
			Files:        files,
		})
		if err != nil {
			return err
		}
		errColored, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		return diagfmt.Summary(cmd.ErrOrStderr(), sum, errColored)
	}
}

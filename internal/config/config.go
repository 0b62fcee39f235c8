// Package config loads tokensniff.toml, .env files and environment
// overrides into one run configuration.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"tokensniff/internal/diag"
	"tokensniff/internal/sniff"
	"tokensniff/internal/token"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "tokensniff.toml"

// DefaultStandard is used when no standard is configured.
const DefaultStandard = "Default"

// Config is the effective configuration of a run.
type Config struct {
	// Path is the file the configuration came from; empty for defaults.
	Path string `toml:"-"`

	Standard StandardConfig        `toml:"standard"`
	Files    FilesConfig           `toml:"files"`
	Run      RunConfig             `toml:"run"`
	Log      LogConfig             `toml:"log"`
	Rules    map[string]RuleConfig `toml:"rules"`

	excludes []glob.Glob
}

// StandardConfig selects rules.
type StandardConfig struct {
	Name    string   `toml:"name"`
	Rules   []string `toml:"rules"`   // added after the standard's rules
	Exclude []string `toml:"exclude"` // rule ids or prefixes removed
}

// FilesConfig maps files to grammars.
type FilesConfig struct {
	Extensions map[string]string `toml:"extensions"`
	Exclude    []string          `toml:"exclude"`
}

// RunConfig tunes the analysis.
type RunConfig struct {
	Jobs           int      `toml:"jobs"`
	TabWidth       int      `toml:"tab_width"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	RuleBudget     Duration `toml:"rule_budget"`
	ShowWarnings   bool     `toml:"show_warnings"`
	Cache          bool     `toml:"cache"`
	CacheDir       string   `toml:"cache_dir"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// RuleConfig adjusts one rule.
type RuleConfig struct {
	Type       string         `toml:"type"` // error or warning
	Properties map[string]any `toml:"properties"`
}

// Duration decodes "250ms"-style strings.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Standard: StandardConfig{Name: DefaultStandard},
		Files: FilesConfig{
			Extensions: map[string]string{
				"php":   "php",
				"phtml": "php",
				"inc":   "php",
				"js":    "js",
				"mjs":   "js",
				"cjs":   "js",
				"css":   "css",
			},
		},
		Run: RunConfig{
			Jobs:           runtime.GOMAXPROCS(0),
			TabWidth:       4,
			MaxDiagnostics: 0,
			ShowWarnings:   true,
		},
		Log:   LogConfig{Level: "error", Format: "console"},
		Rules: map[string]RuleConfig{},
	}
}

// Validate checks values and compiles exclude globs.
func (c *Config) Validate() error {
	if c.Run.Jobs <= 0 {
		c.Run.Jobs = runtime.GOMAXPROCS(0)
	}
	if c.Run.TabWidth < 0 {
		return fmt.Errorf("%s: [run].tab_width must not be negative", c.source())
	}
	if c.Run.MaxDiagnostics < 0 {
		return fmt.Errorf("%s: [run].max_diagnostics must not be negative", c.source())
	}
	if c.Run.RuleBudget.Duration < 0 {
		return fmt.Errorf("%s: [run].rule_budget must not be negative", c.source())
	}
	for ext, g := range c.Files.Extensions {
		if _, err := token.ParseGrammar(g); err != nil {
			return fmt.Errorf("%s: [files.extensions].%s: %w", c.source(), ext, err)
		}
	}
	for id, rc := range c.Rules {
		if rc.Type == "" {
			continue
		}
		if _, err := diag.ParseSeverity(rc.Type); err != nil {
			return fmt.Errorf("%s: [rules.%q].type: %w", c.source(), id, err)
		}
	}
	c.excludes = c.excludes[:0]
	for _, p := range c.Files.Exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return fmt.Errorf("%s: [files].exclude %q: %w", c.source(), p, err)
		}
		c.excludes = append(c.excludes, g)
	}
	return nil
}

func (c *Config) source() string {
	if c.Path == "" {
		return "config"
	}
	return c.Path
}

// Grammar returns the grammar for path by extension.
func (c *Config) Grammar(path string) (token.Grammar, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	name, ok := c.Files.Extensions[ext]
	if !ok {
		return 0, false
	}
	g, err := token.ParseGrammar(name)
	if err != nil {
		return 0, false
	}
	return g, true
}

// Excluded reports whether a slash-separated path matches an exclude glob.
// Both the path and each of its trailing sub-paths are tried so that
// "vendor/**" also excludes "./app/vendor/x.php".
func (c *Config) Excluded(path string) bool {
	if len(c.excludes) == 0 {
		return false
	}
	p := strings.TrimPrefix(filepath.ToSlash(path), "./")
	for {
		for _, g := range c.excludes {
			if g.Match(p) {
				return true
			}
		}
		i := strings.IndexByte(p, '/')
		if i < 0 {
			return false
		}
		p = p[i+1:]
	}
}

// Overrides converts [rules] into registry overrides.
func (c *Config) Overrides() map[string]sniff.Override {
	out := make(map[string]sniff.Override, len(c.Rules))
	for id, rc := range c.Rules {
		o := sniff.Override{Properties: rc.Properties}
		if rc.Type != "" {
			o.Severity, _ = diag.ParseSeverity(rc.Type)
		}
		out[id] = o
	}
	return out
}

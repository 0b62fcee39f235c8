// Package testkit runs fixture files through the analyzer and checks
// structural invariants of resolved streams.
//
// A fixture is a source file next to "<file>.expect.yml":
//
//	errors:
//	  2: 1
//	  3: 2
//	warnings:
//	  7: 1
//
// Lines not listed must have no diagnostics of that severity.
package testkit

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"tokensniff/internal/config"
	"tokensniff/internal/diag"
	"tokensniff/internal/driver"
	"tokensniff/internal/token"
)

// ExpectSuffix is appended to a fixture's file name to find its table.
const ExpectSuffix = ".expect.yml"

// Fixture is one source file with its expected line tables.
type Fixture struct {
	Name    string
	Path    string
	Grammar token.Grammar
	Expect  diag.Expectation
}

// LoadFixtures finds every fixture under dir, sorted by path. Source files
// without an expectation file are ignored.
func LoadFixtures(dir string) ([]Fixture, error) {
	cfg := config.Default()
	var out []Fixture
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ExpectSuffix) {
			return nil
		}
		g, ok := cfg.Grammar(path)
		if !ok {
			return nil
		}
		exp, ok, err := ReadExpectation(path + ExpectSuffix)
		if err != nil || !ok {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		out = append(out, Fixture{Name: filepath.ToSlash(rel), Path: path, Grammar: g, Expect: exp})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// ReadExpectation reads an expectation file; ok is false when it does not
// exist.
func ReadExpectation(path string) (diag.Expectation, bool, error) {
	// #nosec G304 -- fixture paths come from the test tree
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return diag.Expectation{}, false, nil
		}
		return diag.Expectation{}, false, err
	}
	var exp diag.Expectation
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return diag.Expectation{}, false, fmt.Errorf("%s: %w", path, err)
	}
	return exp, true, nil
}

// WriteExpectation stores the tally of ds as path's expectation file.
func WriteExpectation(path string, ds []diag.Diagnostic) error {
	data, err := yaml.Marshal(diag.Tally(ds))
	if err != nil {
		return err
	}
	return os.WriteFile(path+ExpectSuffix, data, 0o600)
}

// Check analyzes the fixture and returns the differences from its table.
func (f Fixture) Check(ctx context.Context, a *driver.Analyzer) (driver.FileResult, []string) {
	res := a.AnalyzeFile(ctx, driver.Input{Path: f.Path, Grammar: f.Grammar})
	return res, diag.Diff(f.Expect, diag.Tally(res.Diagnostics))
}

// Run checks every fixture under dir as a subtest.
func Run(t *testing.T, a *driver.Analyzer, dir string) {
	t.Helper()
	fixtures, err := LoadFixtures(dir)
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	if len(fixtures) == 0 {
		t.Fatalf("no fixtures under %s", dir)
	}
	for _, f := range fixtures {
		t.Run(f.Name, func(t *testing.T) {
			res, diffs := f.Check(context.Background(), a)
			if len(diffs) == 0 {
				return
			}
			t.Errorf("%s: %d mismatches\n%s\ngot:\n%s", f.Path, len(diffs),
				strings.Join(diffs, "\n"), diag.FormatGoldenDiagnostics(res.Diagnostics))
		})
	}
}

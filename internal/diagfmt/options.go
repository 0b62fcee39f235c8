// Package diagfmt renders analysis results and token streams for humans
// and machines.
package diagfmt

import (
	"fmt"
	"strings"

	"tokensniff/internal/diag"
	"tokensniff/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths and shortens long absolute ones.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// ParsePathMode converts a flag value into a PathMode.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	default:
		return 0, fmt.Errorf("unknown path mode %q (expected auto|absolute|relative|basename)", s)
	}
}

// Format selects the report renderer.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatExpect  Format = "expect"
	FormatSummary Format = "summary"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatExpect, FormatSummary:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text|json|expect|summary)", s)
	}
}

// TextOpts configures the text report.
type TextOpts struct {
	Color    bool
	Context  int // строк исходника перед строкой диагностики
	PathMode PathMode
	BaseDir  string
	TabWidth int
	Width    int // максимальная ширина строки исходника, 0 - не ограничено
	// HideWarnings drops warnings from the report; counts are kept.
	HideWarnings bool
	// Files provides source lines; without it only headers are printed.
	Files *source.FileSet
}

// JSONOpts configures JSON output of results.
type JSONOpts struct {
	PathMode     PathMode
	BaseDir      string
	Max          int // обрезка вывода на файл, не Reporter
	HideWarnings bool
}

func formatPath(p string, mode PathMode, baseDir string) string {
	return source.FormatPath(p, mode.String(), baseDir)
}

// visible collects what a report shows of one file; max caps the list
// (0: all).
func visible(ds []diag.Diagnostic, hideWarnings bool, max int) *diag.Bag {
	b := diag.NewBag(max)
	b.AddVisible(ds, hideWarnings)
	return b
}

package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"tokensniff/internal/config"
	"tokensniff/internal/token"
)

// Input is one file to analyze.
type Input struct {
	Path    string
	Grammar token.Grammar
	// Content, when non-nil, is used instead of reading Path.
	Content []byte
}

// DiscoverOptions controls argument expansion.
type DiscoverOptions struct {
	// Grammar forces a grammar for every file; zero picks by extension.
	Grammar token.Grammar
}

// Discover expands command-line arguments into inputs. An argument is a
// file, a directory (walked recursively) or a doublestar pattern such as
// "src/**/*.php". Files named explicitly are always analyzed; files found
// by walking or globbing are filtered by extension and [files].exclude.
// The result is deduplicated and sorted by path.
func Discover(cfg *config.Config, args []string, opts DiscoverOptions) ([]Input, error) {
	seen := make(map[string]bool)
	var out []Input

	add := func(path string, explicit bool) error {
		path = filepath.Clean(path)
		if seen[path] {
			return nil
		}
		if !explicit && cfg.Excluded(path) {
			return nil
		}
		g := opts.Grammar
		if g == 0 {
			var ok bool
			if g, ok = cfg.Grammar(path); !ok {
				if explicit {
					return fmt.Errorf("%s: cannot determine grammar from extension", path)
				}
				return nil
			}
		}
		seen[path] = true
		out = append(out, Input{Path: path, Grammar: g})
		return nil
	}

	for _, arg := range args {
		if hasMeta(arg) {
			matches, err := expandPattern(arg)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				if err := add(m, false); err != nil {
					return nil, err
				}
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if !info.IsDir() {
			if err := add(arg, true); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && (strings.HasPrefix(d.Name(), ".") || cfg.Excluded(path+"/")) {
					return filepath.SkipDir
				}
				return nil
			}
			return add(path, false)
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}

	slices.SortFunc(out, func(a, b Input) int { return strings.Compare(a.Path, b.Path) })
	return out, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func expandPattern(arg string) ([]string, error) {
	pattern := filepath.ToSlash(arg)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", arg)
	}
	base, rest := doublestar.SplitPattern(pattern)
	matches, err := doublestar.Glob(os.DirFS(base), rest, doublestar.WithFilesOnly())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("expand %q: %w", arg, err)
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Join(filepath.FromSlash(base), filepath.FromSlash(m)))
	}
	return out, nil
}

package diagfmt

import (
	"io"

	"gopkg.in/yaml.v3"

	"tokensniff/internal/diag"
	"tokensniff/internal/driver"
)

// Expect writes the per-file line tables of results as YAML, keyed by the
// formatted path. Files without findings are listed with empty tables.
func Expect(w io.Writer, results []driver.FileResult, mode PathMode, baseDir string) error {
	out := make(map[string]diag.Expectation, len(results))
	for _, res := range results {
		out[formatPath(res.Path, mode, baseDir)] = diag.Tally(res.Diagnostics)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

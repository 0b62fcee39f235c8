package diag

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files and test assertions. Input order
// is kept; callers sort when they need to.
func FormatGoldenDiagnostics(diags []Diagnostic) string {
	var b strings.Builder
	for i, d := range diags {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity.Label(), d.Code, normalizePath(d.File), d.Line, d.Column, sanitizeMessage(d.Message))
		if i < len(diags)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

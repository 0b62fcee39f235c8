package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"tokensniff/internal/diag"
	"tokensniff/internal/driver"
	"tokensniff/internal/lexer"
	"tokensniff/internal/resolve"
	"tokensniff/internal/source"
	"tokensniff/internal/token"
)

func sampleResults(fs *source.FileSet) []driver.FileResult {
	fs.AddVirtual("/home/user/project/src/a.php", []byte("<?php\n\t$x = @foo();\n$y = array(1);\n"))
	return []driver.FileResult{
		{
			Path:    "/home/user/project/src/a.php",
			Grammar: token.PHP,
			Diagnostics: []diag.Diagnostic{
				{File: "/home/user/project/src/a.php", Line: 2, Column: 10, Code: "Generic.PHP.NoSilencedErrors.Discouraged",
					Message: `Silencing errors is discouraged; found "@foo"`, Severity: diag.SevWarning, Rule: "Generic.PHP.NoSilencedErrors"},
				{File: "/home/user/project/src/a.php", Line: 3, Column: 6, Code: "Generic.Arrays.DisallowLongArraySyntax.Found",
					Message: "Short array syntax must be used to define arrays", Severity: diag.SevError, Fixable: true,
					Rule: "Generic.Arrays.DisallowLongArraySyntax"},
			},
			Counts: diag.Counts{Errors: 1, Warnings: 1, Fixable: 1},
		},
		{Path: "/home/user/project/src/b.php", Grammar: token.PHP},
	}
}

func TestTextQuotesSourceWithCaret(t *testing.T) {
	fs := source.NewFileSet()
	results := sampleResults(fs)

	var buf bytes.Buffer
	err := Text(&buf, results, TextOpts{PathMode: PathModeRelative, BaseDir: "/home/user/project", TabWidth: 4, Files: fs})
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	out := buf.String()
	want := []string{
		"src/a.php:2:10: WARNING [Generic.PHP.NoSilencedErrors.Discouraged] Silencing errors",
		"2 |     $x = @foo();\n  |          ^\n",
		"src/a.php:3:6: ERROR [Generic.Arrays.DisallowLongArraySyntax.Found] Short array syntax must be used to define arrays (fixable)",
		"3 | $y = array(1);\n  |      ^\n",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n%s", w, out)
		}
	}
	if strings.Contains(out, "b.php") {
		t.Errorf("clean file must not be printed:\n%s", out)
	}
}

func TestTextHideWarningsAndContext(t *testing.T) {
	fs := source.NewFileSet()
	results := sampleResults(fs)

	var buf bytes.Buffer
	err := Text(&buf, results, TextOpts{PathMode: PathModeBasename, Context: 1, HideWarnings: true, Files: fs})
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "WARNING") {
		t.Errorf("warnings should be hidden:\n%s", out)
	}
	if !strings.Contains(out, "a.php:3:6:") || !strings.Contains(out, "2 |     $x = @foo();\n3 | $y = array(1);") {
		t.Errorf("expected one line of context:\n%s", out)
	}
}

func TestTextWithoutSource(t *testing.T) {
	results := sampleResults(source.NewFileSet())
	var buf bytes.Buffer
	if err := Text(&buf, results, TextOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if strings.Contains(buf.String(), "|") {
		t.Errorf("no source lines expected without a file set:\n%s", buf.String())
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("got %d lines, want 2", got)
	}
}

func TestCaretOffsetWideRunes(t *testing.T) {
	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"日本x", 3, 4},
		{"ab", 5, 4},
	}
	for _, tt := range tests {
		if got := caretOffset(tt.line, tt.column); got != tt.want {
			t.Errorf("caretOffset(%q, %d) = %d, want %d", tt.line, tt.column, got, tt.want)
		}
	}
	if got := expandTabs("a\tb", 4); got != "a   b" {
		t.Errorf("expandTabs = %q", got)
	}
}

func TestJSONReport(t *testing.T) {
	results := sampleResults(source.NewFileSet())
	sum := driver.Summary{Files: 2, Counts: diag.Counts{Errors: 1, Warnings: 1, Fixable: 1}, Elapsed: 1500 * time.Microsecond}

	var buf bytes.Buffer
	if err := JSON(&buf, results, sum, JSONOpts{PathMode: PathModeBasename, Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var got ReportJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got.Files) != 2 || got.Files[0].Path != "a.php" {
		t.Fatalf("unexpected files: %+v", got.Files)
	}
	a := got.Files[0]
	if len(a.Diagnostics) != 1 || a.Truncated != 1 {
		t.Errorf("Max should truncate: %+v", a)
	}
	if a.Diagnostics[0].Severity != "warning" || a.Diagnostics[0].Line != 2 {
		t.Errorf("unexpected first diagnostic: %+v", a.Diagnostics[0])
	}
	if got.Totals.Files != 2 || got.Totals.Counts.Errors != 1 || got.Totals.ElapsedMS != 1.5 {
		t.Errorf("unexpected totals: %+v", got.Totals)
	}
	if !strings.Contains(buf.String(), `"diagnostics": []`) {
		t.Errorf("clean file should carry an empty list:\n%s", buf.String())
	}
}

func TestJSONHiddenWarningsAreNotTruncated(t *testing.T) {
	results := sampleResults(source.NewFileSet())
	report := BuildReport(results, driver.Summary{}, JSONOpts{PathMode: PathModeBasename, Max: 1, HideWarnings: true})
	a := report.Files[0]
	if len(a.Diagnostics) != 1 || a.Diagnostics[0].Severity != "error" {
		t.Fatalf("expected only the error: %+v", a.Diagnostics)
	}
	if a.Truncated != 0 {
		t.Errorf("hidden warnings counted as truncated: %d", a.Truncated)
	}
}

func TestExpectYAML(t *testing.T) {
	results := sampleResults(source.NewFileSet())
	var buf bytes.Buffer
	if err := Expect(&buf, results, PathModeBasename, ""); err != nil {
		t.Fatalf("Expect: %v", err)
	}
	var got map[string]diag.Expectation
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v\n%s", err, buf.String())
	}
	if got["a.php"].Errors[3] != 1 || got["a.php"].Warnings[2] != 1 {
		t.Errorf("unexpected tables: %+v", got["a.php"])
	}
	if _, ok := got["b.php"]; !ok {
		t.Errorf("clean file missing:\n%s", buf.String())
	}
}

func TestSummaryLine(t *testing.T) {
	sum := driver.Summary{
		Files:   3,
		Fatal:   1,
		Cached:  2,
		Counts:  diag.Counts{Errors: 1, Warnings: 2, Suppressed: 1},
		Elapsed: 12 * time.Millisecond,
	}
	var buf bytes.Buffer
	if err := Summary(&buf, sum, false); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := "checked 3 files in 12.0 ms: 1 error, 2 warnings (1 suppressed); 1 not analyzed; 2 from cache\n"
	if buf.String() != want {
		t.Errorf("got %q\nwant %q", buf.String(), want)
	}
}

func TestParseOptions(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if _, err := ParseFormat("sarif"); err == nil {
		t.Error("expected error for unknown format")
	}
	if m, err := ParsePathMode("relative"); err != nil || m != PathModeRelative {
		t.Errorf("ParsePathMode(relative) = %v, %v", m, err)
	}
	if _, err := ParsePathMode("weird"); err == nil {
		t.Error("expected error for unknown path mode")
	}
}

func resolvedStream(t *testing.T, src string) *token.Stream {
	t.Helper()
	f := source.NewFile("t.php", []byte(src), source.FileVirtual)
	s, err := lexer.Tokenize(f, token.PHP, lexer.Options{TabWidth: 4})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if err := resolve.Resolve(s); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return s
}

func TestFormatTokens(t *testing.T) {
	s := resolvedStream(t, "<?php\nif ($a) { $b = [1]; }\n")

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, s); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	out := pretty.String()
	for _, w := range []string{"short-array", "scopes:", "brace", "pair="} {
		if !strings.Contains(out, w) {
			t.Errorf("pretty output missing %q:\n%s", w, out)
		}
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, s); err != nil {
		t.Fatalf("json: %v", err)
	}
	var got StreamOutput
	if err := json.Unmarshal(js.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got.Tokens) != s.Len() || len(got.Scopes) != 1 || got.Grammar != "php" {
		t.Fatalf("unexpected dump: %d tokens, %d scopes, grammar %q", len(got.Tokens), len(got.Scopes), got.Grammar)
	}
	first := got.Tokens[0]
	if first.BracketOpener != nil || first.Scope != nil {
		t.Errorf("absent references must be omitted: %+v", first)
	}
	sc := got.Scopes[0]
	if got.Tokens[sc.Owner].Kind != token.KwIf.String() {
		t.Errorf("scope owner is %s", got.Tokens[sc.Owner].Kind)
	}
}

package testkit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensniff/internal/diag"
	"tokensniff/internal/driver"
	"tokensniff/internal/lexer"
	"tokensniff/internal/resolve"
	"tokensniff/internal/sniff"
	"tokensniff/internal/source"
	"tokensniff/internal/token"
)

func resolved(t *testing.T, g token.Grammar, src string) *token.Stream {
	t.Helper()
	f := source.NewFile("sample", []byte(src), source.FileVirtual)
	s, err := lexer.Tokenize(f, g, lexer.Options{TabWidth: 4})
	require.NoError(t, err)
	require.NoError(t, resolve.Resolve(s))
	return s
}

func TestStreamInvariantsHold(t *testing.T) {
	samples := []struct {
		name    string
		grammar token.Grammar
		src     string
	}{
		{"php braces", token.PHP, "<?php\nclass A {\n    function f($x) { return [$x, array(1)]; }\n}\n"},
		{"php alt syntax", token.PHP, "<?php\nif ($a):\n    foreach ($b as $c):\n        echo $c;\n    endforeach;\nelse:\n    echo 1;\nendif;\n"},
		{"php switch", token.PHP, "<?php\nswitch ($a) {\n    case 1:\n        f();\n        break;\n    default:\n        g();\n}\n"},
		{"php html", token.PHP, "<p><?php echo $a ? 1 : 2; ?></p>\n"},
		{"js", token.JS, "for (let i = 0; i < n; i++) {\n    if (a) b();\n}\n"},
		{"css", token.CSS, "a { color: #FFF; }\n@media print { b { margin: 0 } }\n"},
	}
	for _, tt := range samples {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, CheckStreamInvariants(resolved(t, tt.grammar, tt.src)))
		})
	}
}

func TestStreamInvariantsDetectCorruption(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nf(1);\n")
	open := -1
	for i, tok := range s.Tokens {
		if tok.Kind.IsOpener() {
			open = i
			break
		}
	}
	require.NotEqual(t, -1, open)

	s.Tokens[open].BracketCloser = open + 1
	assert.Error(t, CheckStreamInvariants(s))
	assert.Error(t, CheckStreamInvariants(nil))
}

func TestFixtureRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sub", "a.php")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("<?php\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "no_table.js"), []byte("a();\n"), 0o600))

	ds := []diag.Diagnostic{
		{Line: 2, Severity: diag.SevError},
		{Line: 2, Severity: diag.SevError},
		{Line: 5, Severity: diag.SevWarning},
	}
	require.NoError(t, WriteExpectation(src, ds))

	fixtures, err := LoadFixtures(dir)
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	f := fixtures[0]
	assert.Equal(t, "sub/a.php", f.Name)
	assert.Equal(t, token.PHP, f.Grammar)
	assert.Equal(t, 2, f.Expect.Errors[2])
	assert.Equal(t, 1, f.Expect.Warnings[5])

	reg, err := sniff.NewBuilder().Build()
	require.NoError(t, err)
	a := driver.NewAnalyzer(reg, driver.Options{TabWidth: 4})
	res, diffs := f.Check(context.Background(), a)
	assert.Equal(t, driver.StatusOK, res.Status)
	assert.Equal(t, []string{
		"errors on line 2: want 2, got 0",
		"warnings on line 5: want 1, got 0",
	}, diffs)
}

func TestReadExpectationMissingAndInvalid(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := ReadExpectation(filepath.Join(dir, "none.expect.yml"))
	require.NoError(t, err)
	assert.False(t, ok)

	bad := filepath.Join(dir, "bad.expect.yml")
	require.NoError(t, os.WriteFile(bad, []byte("errors: [1, 2"), 0o600))
	_, _, err = ReadExpectation(bad)
	assert.Error(t, err)
}

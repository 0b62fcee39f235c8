package pattern_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensniff/internal/diag"
	"tokensniff/internal/lexer"
	"tokensniff/internal/pattern"
	"tokensniff/internal/resolve"
	"tokensniff/internal/source"
	"tokensniff/internal/token"
)

type report struct {
	index int
	code  diag.Code
	msg   string
}

type collector struct{ got []report }

func (c *collector) Report(i int, _ diag.Severity, code diag.Code, msg string, _ bool) {
	c.got = append(c.got, report{index: i, code: code, msg: msg})
}

func view(t *testing.T, g token.Grammar, src string) *token.View {
	t.Helper()
	f := source.NewFile("test", []byte(src), source.FileVirtual)
	s, err := lexer.Tokenize(f, g, lexer.Options{})
	require.NoError(t, err)
	require.NoError(t, resolve.Resolve(s))
	return token.NewView(s)
}

func find(t *testing.T, v *token.View, text string, n int) int {
	t.Helper()
	for i := 0; i < v.Len(); i++ {
		if v.Text(i) != text {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	t.Fatalf("token %q not found", text)
	return -1
}

func TestCompile(t *testing.T) {
	p, err := pattern.Compile("if (...) {EOL", token.PHP)
	require.NoError(t, err)

	kinds := make([]pattern.ElemKind, 0, len(p.Elems))
	for _, e := range p.Elems {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []pattern.ElemKind{
		pattern.ElemLiteral, pattern.ElemSpace, pattern.ElemLiteral, pattern.ElemWildcard,
		pattern.ElemLiteral, pattern.ElemSpace, pattern.ElemLiteral, pattern.ElemEOL,
	}, kinds)
	assert.Equal(t, 0, p.Trigger)
	assert.Equal(t, token.KwIf, p.TriggerKind())
	assert.Equal(t, `if (...) {\n`, p.Expected())
}

func TestCompileTriggerSelection(t *testing.T) {
	p := pattern.MustCompile("} else {", token.PHP)
	assert.Equal(t, token.KwElse, p.TriggerKind())
	assert.Equal(t, 2, p.Trigger)

	p = pattern.MustCompile("$x = ...;", token.PHP)
	assert.Equal(t, token.Variable, p.TriggerKind())

	// EOL inside an identifier is not a marker
	p = pattern.MustCompile("EOLX", token.PHP)
	require.Len(t, p.Elems, 1)
	assert.Equal(t, "EOLX", p.Elems[0].Text)
}

func TestCompileErrors(t *testing.T) {
	_, err := pattern.Compile("EOL", token.PHP)
	assert.Error(t, err)

	_, err = pattern.Compile("... else", token.PHP)
	assert.Error(t, err)

	_, err = pattern.Compile("if (......)", token.PHP)
	assert.Error(t, err)

	_, err = pattern.Compile(`if ("x`, token.PHP)
	var lerr *lexer.Error
	assert.True(t, errors.As(err, &lerr))
}

func TestWildcardIsNonGreedy(t *testing.T) {
	v := view(t, token.PHP, "<?php\nif (foo() { bar(); }) {\n}\n")
	p := pattern.MustCompile("if (...) {", token.PHP)

	m, ok := p.Apply(v, find(t, v, "if", 0))
	require.True(t, ok)
	assert.Equal(t, find(t, v, "{", 0), m.End)
	assert.Equal(t, find(t, v, ")", 0), m.Anchors[4])
}

func TestWildcardDoesNotCrossEnclosingCloser(t *testing.T) {
	v := view(t, token.PHP, "<?php\nfoo(if ($a) x());\n")
	p := pattern.MustCompile("if (...) {", token.PHP)

	_, ok := p.Apply(v, find(t, v, "if", 0))
	assert.False(t, ok)
}

func TestConform(t *testing.T) {
	p := pattern.MustCompile("if (...) {EOL", token.PHP)
	tests := []struct {
		name    string
		src     string
		ok      bool
		devText string // text of the deviating token
		devNth  int
	}{
		{"conforming", "<?php\nif ($a) {\n}\n", true, "", 0},
		{"case folded keyword", "<?php\nIF ($a && $b) {\n}\n", true, "", 0},
		{"comment after brace", "<?php\nif ($a) { // note\n}\n", true, "", 0},
		{"missing space before paren", "<?php\nif($a) {\n}\n", false, "(", 0},
		{"missing space before brace", "<?php\nif ($a){\n}\n", false, "{", 0},
		{"two spaces before brace", "<?php\nif ($a)  {\n}\n", false, "  ", 0},
		{"brace on next line", "<?php\nif ($a)\n{\n}\n", false, "\n", 1},
		{"code after brace", "<?php\nif ($a) { x(); }\n", false, " ", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := view(t, token.PHP, tt.src)
			m, ok := p.Apply(v, find(t, v, tt.src[6:8], 0))
			require.True(t, ok)

			at, ok := p.Conform(v, m)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, find(t, v, tt.devText, tt.devNth), at)
			}
		})
	}
}

func TestBackwardElements(t *testing.T) {
	p := pattern.MustCompile("} else {", token.PHP)

	v := view(t, token.PHP, "<?php\nif ($a) {\n} else {\n}\n")
	m, ok := p.Apply(v, find(t, v, "else", 0))
	require.True(t, ok)
	assert.Equal(t, find(t, v, "}", 0), m.Start)
	_, ok = p.Conform(v, m)
	assert.True(t, ok)

	v = view(t, token.PHP, "<?php\nif ($a) {\n}else {\n}\n")
	m, ok = p.Apply(v, find(t, v, "else", 0))
	require.True(t, ok)
	at, ok := p.Conform(v, m)
	assert.False(t, ok)
	assert.Equal(t, find(t, v, "else", 0), at)
}

func TestSetCheckReportsOnce(t *testing.T) {
	set := pattern.NewSet(token.PHP)
	require.NoError(t, set.Add(pattern.MustCompile("if (...) {EOL", token.PHP)))
	assert.True(t, set.Triggers().Has(token.KwIf))

	v := view(t, token.PHP, "<?php\nif($a) {\n}\n")
	c := &collector{}
	for i := 0; i < v.Len(); i++ {
		if set.Triggers().Has(v.Kind(i)) {
			set.Check(v, i, c)
		}
	}
	require.Len(t, c.got, 1)
	assert.Equal(t, pattern.DefaultCode, c.got[0].code)
	assert.Equal(t, find(t, v, "(", 0), c.got[0].index)
	assert.Equal(t, `Expected "if (...) {\n"; found "if(...) {"`, c.got[0].msg)
}

func TestFirstRegisteredPatternDecides(t *testing.T) {
	loose := pattern.MustCompile("if (...) {", token.PHP)
	strict := pattern.MustCompile("if (...) {EOL", token.PHP)
	v := view(t, token.PHP, "<?php\nif ($a) { x(); }\n")
	i := find(t, v, "if", 0)

	set := pattern.NewSet(token.PHP)
	require.NoError(t, set.Add(loose))
	require.NoError(t, set.Add(strict))
	c := &collector{}
	set.Check(v, i, c)
	assert.Empty(t, c.got)

	set = pattern.NewSet(token.PHP)
	require.NoError(t, set.Add(strict))
	require.NoError(t, set.Add(loose))
	set.Check(v, i, c)
	assert.Len(t, c.got, 1)
}

func TestPatternNotApplicableIsSilent(t *testing.T) {
	set := pattern.NewSet(token.PHP)
	require.NoError(t, set.Add(pattern.MustCompile("if (...) {", token.PHP)))

	v := view(t, token.PHP, "<?php\nif ($a):\nendif;\n")
	c := &collector{}
	set.Check(v, find(t, v, "if", 0), c)
	assert.Empty(t, c.got)

	assert.Error(t, set.Add(pattern.MustCompile("if (...) {", token.JS)))
}

func TestJavaScriptPattern(t *testing.T) {
	p := pattern.MustCompile("} while (...);", token.JS)
	assert.Equal(t, token.KwWhile, p.TriggerKind())

	v := view(t, token.JS, "do {\n  x();\n} while (a);\n")
	m, ok := p.Apply(v, find(t, v, "while", 0))
	require.True(t, ok)
	_, ok = p.Conform(v, m)
	assert.True(t, ok)
}

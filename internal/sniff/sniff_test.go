package sniff_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensniff/internal/diag"
	"tokensniff/internal/lexer"
	"tokensniff/internal/resolve"
	"tokensniff/internal/sniff"
	"tokensniff/internal/source"
	"tokensniff/internal/token"
)

type listener struct {
	id    string
	kinds token.KindSet
	fn    func(v *token.View, i int, r diag.Reporter) error
}

func (l *listener) ID() string              { return l.id }
func (l *listener) Interest() token.KindSet { return l.kinds }
func (l *listener) Process(v *token.View, i int, r diag.Reporter) error {
	return l.fn(v, i, r)
}

type cssOnly struct{ listener }

func (cssOnly) Grammars() []token.Grammar { return []token.Grammar{token.CSS} }

type patterns struct {
	id    string
	specs []sniff.PatternSpec
}

func (p *patterns) ID() string                    { return p.id }
func (p *patterns) Patterns() []sniff.PatternSpec { return p.specs }

type configurable struct {
	listener
	props map[string]any
}

func (c *configurable) Configure(props map[string]any) error {
	if _, ok := props["bad"]; ok {
		return errors.New("bad property")
	}
	c.props = props
	return nil
}

func stream(t *testing.T, g token.Grammar, src string) *token.Stream {
	t.Helper()
	f := source.NewFile("test.php", []byte(src), source.FileVirtual)
	s, err := lexer.Tokenize(f, g, lexer.Options{})
	require.NoError(t, err)
	require.NoError(t, resolve.Resolve(s))
	return s
}

func run(t *testing.T, reg *sniff.Registry, opts sniff.Options, s *token.Stream) ([]diag.Diagnostic, sniff.Stats) {
	t.Helper()
	rep := diag.NewFileReporter(s.Path(), s, s.Suppress, 0)
	stats, err := sniff.NewDispatcher(reg, opts).Run(context.Background(), s, rep)
	require.NoError(t, err)
	return rep.Drain(), stats
}

func reportEach(code diag.Code) func(v *token.View, i int, r diag.Reporter) error {
	return func(v *token.View, i int, r diag.Reporter) error {
		diag.ReportError(r, i, code, "found "+v.Text(i)).Emit()
		return nil
	}
}

const src = "<?php\n$a = 1;\n$b = $a;\n"

func TestDispatchInRegistrationOrder(t *testing.T) {
	var calls []string
	record := func(name string) func(*token.View, int, diag.Reporter) error {
		return func(v *token.View, i int, _ diag.Reporter) error {
			calls = append(calls, name+":"+v.Text(i))
			return nil
		}
	}
	reg, err := sniff.NewBuilder().Add(
		&listener{id: "Test.B", kinds: token.NewKindSet(token.Variable), fn: record("B")},
		&listener{id: "Test.A", kinds: token.NewKindSet(token.Variable, token.Number), fn: record("A")},
	).Build()
	require.NoError(t, err)

	_, stats := run(t, reg, sniff.Options{}, stream(t, token.PHP, src))
	assert.Equal(t, []string{"B:$a", "A:$a", "A:1", "B:$b", "A:$b", "B:$a", "A:$a"}, calls)
	assert.Equal(t, 7, stats.Calls)
}

func TestDispatchIsDeterministic(t *testing.T) {
	reg, err := sniff.NewBuilder().Add(
		&listener{id: "Test.Vars", kinds: token.NewKindSet(token.Variable), fn: reportEach("Var")},
		&listener{id: "Test.Semi", kinds: token.NewKindSet(token.Semicolon), fn: reportEach("Semi")},
	).Build()
	require.NoError(t, err)

	first, _ := run(t, reg, sniff.Options{}, stream(t, token.PHP, src))
	second, _ := run(t, reg, sniff.Options{}, stream(t, token.PHP, src))
	require.Len(t, first, 5)
	assert.Equal(t, first, second)
	assert.Equal(t, diag.Code("Test.Vars.Var"), first[0].Code)
	assert.Equal(t, "Test.Vars", first[0].Rule)
}

func TestDuplicateRegistrationIsIgnored(t *testing.T) {
	r := &listener{id: "Test.Vars", kinds: token.NewKindSet(token.Variable), fn: reportEach("Var")}
	reg, err := sniff.NewBuilder().Add(r).Add(r, &listener{id: "Test.Vars"}).Build()
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	got, _ := run(t, reg, sniff.Options{}, stream(t, token.PHP, src))
	assert.Len(t, got, 3)
}

func TestRuleFaultIsIsolated(t *testing.T) {
	reg, err := sniff.NewBuilder().Add(
		&listener{id: "Test.Panics", kinds: token.NewKindSet(token.Variable), fn: func(*token.View, int, diag.Reporter) error {
			panic("boom")
		}},
		&listener{id: "Test.Fails", kinds: token.NewKindSet(token.Number), fn: func(*token.View, int, diag.Reporter) error {
			return errors.New("broken")
		}},
		&listener{id: "Test.Vars", kinds: token.NewKindSet(token.Variable), fn: reportEach("Var")},
	).Build()
	require.NoError(t, err)

	got, stats := run(t, reg, sniff.Options{}, stream(t, token.PHP, src))

	var faults, vars int
	for _, d := range got {
		switch d.Code {
		case diag.RuleFault:
			faults++
			assert.Contains(t, []string{"Test.Panics", "Test.Fails"}, d.Rule)
		case "Test.Vars.Var":
			vars++
		}
	}
	assert.Equal(t, 2, faults)
	assert.Equal(t, 3, vars)
	assert.Equal(t, map[string]int{"Test.Panics": 1, "Test.Fails": 1}, stats.Faults)
}

func TestRuntimePanicIsRecovered(t *testing.T) {
	reg, err := sniff.NewBuilder().Add(
		&listener{id: "Test.Panics", kinds: token.NewKindSet(token.Variable), fn: func(*token.View, int, diag.Reporter) error {
			var m map[string]int
			m["x"]++
			return nil
		}},
	).Build()
	require.NoError(t, err)

	got, _ := run(t, reg, sniff.Options{}, stream(t, token.PHP, src))
	require.Len(t, got, 1)
	assert.Equal(t, diag.RuleFault, got[0].Code)
	assert.Contains(t, got[0].Message, "Test.Panics")
	assert.Contains(t, got[0].Message, "nil map")
}

func TestSkipFileDisablesRule(t *testing.T) {
	calls := 0
	reg, err := sniff.NewBuilder().Add(
		&listener{id: "Test.Once", kinds: token.NewKindSet(token.Variable), fn: func(*token.View, int, diag.Reporter) error {
			calls++
			return sniff.ErrSkipFile
		}},
	).Build()
	require.NoError(t, err)

	got, _ := run(t, reg, sniff.Options{}, stream(t, token.PHP, src))
	assert.Empty(t, got)
	assert.Equal(t, 1, calls)
}

func TestRuleBudget(t *testing.T) {
	calls := 0
	reg, err := sniff.NewBuilder().Add(
		&listener{id: "Test.Slow", kinds: token.NewKindSet(token.Variable), fn: func(*token.View, int, diag.Reporter) error {
			calls++
			time.Sleep(2 * time.Millisecond)
			return nil
		}},
	).Build()
	require.NoError(t, err)

	got, stats := run(t, reg, sniff.Options{RuleBudget: time.Millisecond}, stream(t, token.PHP, src))
	assert.Equal(t, 1, calls)
	require.Len(t, got, 1)
	assert.Equal(t, diag.RuleBudgetExceeded, got[0].Code)
	assert.Equal(t, diag.SevWarning, got[0].Severity)
	assert.Equal(t, []string{"Test.Slow"}, stats.Disabled)
}

func TestCancellation(t *testing.T) {
	reg, err := sniff.NewBuilder().Add(
		&listener{id: "Test.Vars", kinds: token.NewKindSet(token.Variable), fn: reportEach("Var")},
	).Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := stream(t, token.PHP, src)
	_, err = sniff.NewDispatcher(reg, sniff.Options{}).Run(ctx, s, diag.NewFileReporter(s.Path(), s, nil, 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeverityOverride(t *testing.T) {
	reg, err := sniff.NewBuilder().
		Add(&listener{id: "Test.Vars", kinds: token.NewKindSet(token.Variable), fn: reportEach("Var")}).
		Override("Test.Vars", sniff.Override{Severity: diag.SevWarning}).
		Build()
	require.NoError(t, err)

	got, _ := run(t, reg, sniff.Options{}, stream(t, token.PHP, src))
	require.Len(t, got, 3)
	for _, d := range got {
		assert.Equal(t, diag.SevWarning, d.Severity)
	}
}

func TestPatternRule(t *testing.T) {
	reg, err := sniff.NewBuilder().Add(&patterns{
		id:    "Test.Signature",
		specs: []sniff.PatternSpec{{Pattern: "if (...) {"}},
	}).Build()
	require.NoError(t, err)
	require.Equal(t, sniff.KindPattern, reg.Rules()[0].Kind)

	got, _ := run(t, reg, sniff.Options{}, stream(t, token.PHP, "<?php\nif($a) {\n}\nif ($b) {\n}\n"))
	require.Len(t, got, 1)
	assert.Equal(t, diag.Code("Test.Signature.Found"), got[0].Code)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, 3, got[0].Column)
}

func TestGrammarFilter(t *testing.T) {
	calls := 0
	reg, err := sniff.NewBuilder().Add(&cssOnly{listener{
		id:    "Test.CSS",
		kinds: token.NewKindSet(token.Semicolon),
		fn: func(*token.View, int, diag.Reporter) error {
			calls++
			return nil
		},
	}}).Build()
	require.NoError(t, err)

	run(t, reg, sniff.Options{}, stream(t, token.PHP, src))
	assert.Zero(t, calls)
	run(t, reg, sniff.Options{}, stream(t, token.CSS, "a { color: red; }\n"))
	assert.Equal(t, 1, calls)
}

func TestBuildErrors(t *testing.T) {
	noop := func(*token.View, int, diag.Reporter) error { return nil }
	tests := []struct {
		name string
		b    *sniff.Builder
	}{
		{"empty id", sniff.NewBuilder().Add(&listener{fn: noop})},
		{"bad pattern", sniff.NewBuilder().Add(&patterns{id: "Test.P", specs: []sniff.PatternSpec{{Pattern: "EOL"}}})},
		{"no patterns", sniff.NewBuilder().Add(&patterns{id: "Test.P"})},
		{"properties on plain rule", sniff.NewBuilder().
			Add(&listener{id: "Test.L", fn: noop}).
			Override("Test.L", sniff.Override{Properties: map[string]any{"x": 1}})},
		{"rejected property", sniff.NewBuilder().
			Add(&configurable{listener: listener{id: "Test.C", fn: noop}}).
			Override("Test.C", sniff.Override{Properties: map[string]any{"bad": true}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			assert.Error(t, err)
		})
	}
}

func TestConfigureAndFingerprint(t *testing.T) {
	c := &configurable{listener: listener{id: "Test.C", fn: reportEach("X")}}
	plain, err := sniff.NewBuilder().Add(c).Build()
	require.NoError(t, err)

	tuned, err := sniff.NewBuilder().Add(c).
		Override("Test.C", sniff.Override{Properties: map[string]any{"indent": 2}}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"indent": 2}, c.props)
	assert.NotEqual(t, plain.Fingerprint(), tuned.Fingerprint())
	assert.True(t, tuned.Has("Test.C"))
	assert.False(t, tuned.Has("Test.Missing"))
}

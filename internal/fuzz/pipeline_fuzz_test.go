package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"tokensniff/internal/diag"
	"tokensniff/internal/lexer"
	"tokensniff/internal/resolve"
	"tokensniff/internal/rules"
	"tokensniff/internal/sniff"
	"tokensniff/internal/source"
	"tokensniff/internal/testkit"
	"tokensniff/internal/token"
)

// dispatchTimeout is the maximum time allowed for one input. Going over
// points to a loop that never advances.
const dispatchTimeout = 5 * time.Second

func fuzzStream(t *testing.T, g token.Grammar, input []byte, fragment bool) (*token.Stream, bool) {
	content, flags := source.Normalize(clampInput(input))
	f := source.NewFile("fuzz", content, flags|source.FileVirtual)
	s, err := lexer.Tokenize(f, g, lexer.Options{TabWidth: 4, Fragment: fragment})
	if err != nil {
		var lerr *lexer.Error
		if !errors.As(err, &lerr) {
			t.Fatalf("tokenizer returned untyped error: %v", err)
		}
		return nil, false
	}
	if err := resolve.Resolve(s); err != nil {
		var rerr *resolve.Error
		if !errors.As(err, &rerr) {
			t.Fatalf("resolver returned untyped error: %v", err)
		}
		return nil, false
	}
	if err := testkit.CheckStreamInvariants(s); err != nil {
		t.Fatalf("invariant broken: %v", err)
	}
	return s, true
}

func fuzzResolve(f *testing.F, g token.Grammar) {
	addCorpusSeeds(f, g)
	f.Fuzz(func(t *testing.T, input []byte, fragment bool) {
		fuzzStream(t, g, input, fragment)
	})
}

func FuzzResolvePHP(f *testing.F) { fuzzResolve(f, token.PHP) }
func FuzzResolveJS(f *testing.F)  { fuzzResolve(f, token.JS) }
func FuzzResolveCSS(f *testing.F) { fuzzResolve(f, token.CSS) }

// FuzzDispatchNoHang runs every built-in rule on PHP input. Rules must
// neither fault nor hang.
func FuzzDispatchNoHang(f *testing.F) {
	addCorpusSeeds(f, token.PHP)
	reg, err := rules.Build(rules.Selection{Standard: rules.StandardAll}, nil)
	if err != nil {
		f.Fatalf("build registry: %v", err)
	}
	disp := sniff.NewDispatcher(reg, sniff.Options{})

	f.Fuzz(func(t *testing.T, input []byte, fragment bool) {
		s, ok := fuzzStream(t, token.PHP, input, fragment)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		rep := diag.NewFileReporter(s.Path(), s, s.Suppress, 0)
		stats, err := disp.Run(ctx, s, rep)
		if err != nil {
			t.Fatalf("dispatch did not finish in %s", dispatchTimeout)
		}
		for rule, n := range stats.Faults {
			t.Errorf("rule %s faulted %d times", rule, n)
		}
	})
}

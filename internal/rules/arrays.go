package rules

import (
	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// DisallowLongArraySyntax reports array( ... ).
type DisallowLongArraySyntax struct{}

func (DisallowLongArraySyntax) ID() string { return "Generic.Arrays.DisallowLongArraySyntax" }

func (DisallowLongArraySyntax) Description() string {
	return "Short array syntax must be used to define arrays"
}

func (DisallowLongArraySyntax) Grammars() []token.Grammar { return []token.Grammar{token.PHP} }

func (DisallowLongArraySyntax) Interest() token.KindSet { return token.NewKindSet(token.KwArray) }

func (DisallowLongArraySyntax) Process(v *token.View, i int, r diag.Reporter) error {
	n := v.NextNonEmpty(i + 1)
	if n == token.None || v.Kind(n) != token.OpenParen {
		return nil // тип параметра
	}
	r.Report(i, diag.SevError, "Found", "Short array syntax must be used to define arrays", true)
	return nil
}

// DisallowShortArraySyntax reports [ ... ] array literals.
type DisallowShortArraySyntax struct{}

func (DisallowShortArraySyntax) ID() string { return "Generic.Arrays.DisallowShortArraySyntax" }

func (DisallowShortArraySyntax) Description() string { return "Short array syntax is not allowed" }

func (DisallowShortArraySyntax) Grammars() []token.Grammar { return []token.Grammar{token.PHP} }

func (DisallowShortArraySyntax) Interest() token.KindSet {
	return token.NewKindSet(token.OpenBracket)
}

func (DisallowShortArraySyntax) Process(v *token.View, i int, r diag.Reporter) error {
	if !v.At(i).ShortArray || isDestructuring(v, i) {
		return nil
	}
	r.Report(i, diag.SevError, "Found", "Short array syntax is not allowed", true)
	return nil
}

// isDestructuring reports [$a, $b] = ... and foreach (... as [$a, $b]).
func isDestructuring(v *token.View, i int) bool {
	closer := v.At(i).BracketCloser
	if n := v.NextNonEmpty(closer + 1); n != token.None && v.Kind(n) == token.Equal {
		return true
	}
	p := v.PrevNonEmpty(i - 1)
	return p != token.None && v.Kind(p) == token.KwAs
}

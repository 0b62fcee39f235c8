package rules

import (
	"fmt"
	"strings"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// ScopeIndent checks the indentation of lines that start a statement or
// close a block. A line is expected one indent deeper than the line that
// opened its innermost bracket or scope; a closer sits at its opener's
// line indent.
type ScopeIndent struct {
	Indent int
	// Exact rejects over-indented lines too.
	Exact bool
}

// NewScopeIndent returns the rule with a four-space exact indent.
func NewScopeIndent() *ScopeIndent { return &ScopeIndent{Indent: 4, Exact: true} }

func (*ScopeIndent) ID() string { return "Generic.WhiteSpace.ScopeIndent" }

func (*ScopeIndent) Description() string { return "Code must be indented by scope and bracket depth" }

func (*ScopeIndent) Grammars() []token.Grammar { return []token.Grammar{token.PHP, token.JS} }

func (*ScopeIndent) Interest() token.KindSet { return token.NewKindSet(token.Whitespace) }

func (r *ScopeIndent) Configure(props map[string]any) error {
	for key, val := range props {
		switch key {
		case "indent":
			n, err := intProp(key, val)
			if err != nil {
				return err
			}
			if n <= 0 {
				return fmt.Errorf("property indent: must be positive, got %d", n)
			}
			r.Indent = n
		case "exact":
			b, err := boolProp(key, val)
			if err != nil {
				return err
			}
			r.Exact = b
		default:
			return fmt.Errorf("unknown property %q", key)
		}
	}
	return nil
}

// unchecked kinds never start an indented code line.
var unchecked = token.NewKindSet(token.InlineHTML, token.OpenTag, token.CloseTag,
	token.Heredoc, token.EndHeredoc, token.Nowdoc, token.EndNowdoc)

// statementBreaks end the previous line in a way that makes the next line
// a fresh statement, element or argument.
var statementBreaks = token.NewKindSet(token.Semicolon, token.OpenCurly, token.CloseCurly,
	token.OpenParen, token.OpenBracket, token.Comma, token.OpenTag)

func (r *ScopeIndent) Process(v *token.View, i int, rep diag.Reporter) error {
	if !strings.HasSuffix(v.Text(i), "\n") {
		return nil
	}
	f := i + 1
	if f < v.Len() && v.Kind(f) == token.Whitespace {
		if v.At(f).HasNewline() {
			return nil // пустая строка, её обработает следующий вызов
		}
		f++
	}
	if f >= v.Len() || unchecked.Has(v.Kind(f)) {
		return nil
	}
	if !r.startsStatement(v, f) {
		return nil
	}

	open, closing := container(v, f)
	base := 0
	if open != token.None {
		base = lineIndent(v, v.At(open).Line)
	}
	want := base
	if open != token.None && !closing {
		want += r.Indent
	}
	got := v.At(f).Column - 1
	if got == want || (!r.Exact && got > want) {
		return nil
	}

	if r.Exact {
		rep.Report(f, diag.SevError, "IncorrectExact",
			fmt.Sprintf("Line indented incorrectly; expected %d spaces, found %d", want, got), true)
		return nil
	}
	rep.Report(f, diag.SevError, "Incorrect",
		fmt.Sprintf("Line indented incorrectly; expected at least %d spaces, found %d", want, got), true)
	return nil
}

func (r *ScopeIndent) startsStatement(v *token.View, f int) bool {
	if token.CloserKinds.Has(v.Kind(f)) {
		return true
	}
	p := v.PrevNonEmpty(f - 1)
	if p == token.None {
		return true
	}
	return statementBreaks.Has(v.Kind(p)) || v.At(p).ScopeOpener == p
}

// container finds the innermost bracket pair or non-brace scope around f.
// closing is set when f is that container's closer.
func container(v *token.View, f int) (open int, closing bool) {
	t := v.At(f)
	if t.Kind.IsCloser() && t.BracketOpener != token.None {
		return t.BracketOpener, true
	}

	open = token.None
	for j := f - 1; j >= 0; j-- {
		u := v.At(j)
		if u.Kind.IsCloser() && u.BracketOpener != token.None {
			j = u.BracketOpener
			continue
		}
		if u.Kind.IsOpener() && u.BracketCloser > f {
			open = j
			break
		}
	}

	if t.ScopeCloser == f && t.ScopeOpener != token.None && t.ScopeCondition != f &&
		v.Kind(t.ScopeOpener) != token.OpenCurly && t.ScopeOpener > open {
		return t.ScopeOpener, true
	}
	for id := t.Scope; id != token.None; id = v.Scope(id).Parent {
		sc := v.Scope(id)
		if sc.Kind == token.ScopeBrace {
			continue
		}
		if sc.Contains(f) && sc.Opener > open {
			open = sc.Opener
		}
		break
	}
	return open, false
}

// lineIndent is the column of the first token on line, minus one.
func lineIndent(v *token.View, line int) int {
	first, last, ok := v.LineTokens(line)
	if !ok {
		return 0
	}
	for j := first; j <= last; j++ {
		if v.Kind(j) != token.Whitespace {
			return v.At(j).Column - 1
		}
	}
	return 0
}

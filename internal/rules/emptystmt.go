package rules

import (
	"fmt"
	"strings"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// EmptyStatement reports control structures whose body holds nothing but
// whitespace and comments.
type EmptyStatement struct{}

func (EmptyStatement) ID() string { return "Generic.CodeAnalysis.EmptyStatement" }

func (EmptyStatement) Description() string { return "Control structures must not have empty bodies" }

func (EmptyStatement) Grammars() []token.Grammar { return []token.Grammar{token.PHP, token.JS} }

func (EmptyStatement) Interest() token.KindSet {
	return token.NewKindSet(token.KwIf, token.KwElseIf, token.KwElse, token.KwFor, token.KwForeach,
		token.KwWhile, token.KwDo, token.KwSwitch, token.KwTry, token.KwCatch, token.KwFinally)
}

func (EmptyStatement) Process(v *token.View, i int, r diag.Reporter) error {
	t := v.At(i)
	if t.ScopeCondition != i || t.ScopeOpener == token.None || t.ScopeCloser == token.None {
		return nil
	}
	if _, ok := v.FindNext(token.EmptyKinds, t.ScopeOpener+1, t.ScopeCloser, true); ok {
		return nil
	}
	name := strings.ToUpper(v.Text(i))
	code := "Detected" + strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
	r.Report(i, diag.SevError, diag.Code(code), fmt.Sprintf("Empty %s statement detected", name), false)
	return nil
}

package rules

import (
	"fmt"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// ClassDeclaration requires every class-like to live in a namespace and in
// a file of its own.
type ClassDeclaration struct{}

func (ClassDeclaration) ID() string { return "PSR1.Classes.ClassDeclaration" }

func (ClassDeclaration) Description() string {
	return "Each class must be in a namespace and in a file by itself"
}

func (ClassDeclaration) Grammars() []token.Grammar { return []token.Grammar{token.PHP} }

func (ClassDeclaration) Interest() token.KindSet { return token.OOKinds }

func (ClassDeclaration) Process(v *token.View, i int, r diag.Reporter) error {
	if !isDeclaration(v, i) {
		return nil
	}
	kind := v.Text(i)

	for j := i - 1; j >= 0; j-- {
		if token.OOKinds.Has(v.Kind(j)) && isDeclaration(v, j) {
			r.Report(i, diag.SevError, "MultipleClasses",
				fmt.Sprintf("Each %s must be in a file by itself", kind), false)
			break
		}
	}

	// решает первое объявление: namespace или класс
	for j := range v.Len() {
		k := v.Kind(j)
		if k == token.KwNamespace && !isNamespaceOperator(v, j) {
			return nil
		}
		if token.OOKinds.Has(k) && isDeclaration(v, j) {
			break
		}
	}
	r.Report(i, diag.SevError, "MissingNamespace",
		fmt.Sprintf("Each %s must be in a namespace of at least one level (a top-level vendor name)", kind), false)
	return nil
}

// isDeclaration filters out ::class, anonymous classes and keywords used
// as names.
func isDeclaration(v *token.View, i int) bool {
	if p := v.PrevNonEmpty(i - 1); p != token.None {
		switch v.Kind(p) {
		case token.DoubleColon, token.KwNew, token.ObjectOperator, token.NullsafeOperator:
			return false
		}
	}
	n := v.NextNonEmpty(i + 1)
	return n != token.None && v.Kind(n) == token.Ident
}

// isNamespaceOperator reports a relative name such as namespace\foo().
func isNamespaceOperator(v *token.View, i int) bool {
	n := v.NextNonEmpty(i + 1)
	return n != token.None && v.Kind(n) == token.NsSeparator
}

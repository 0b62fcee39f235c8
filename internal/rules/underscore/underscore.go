// Package underscore checks leading underscores in declared names. The
// check is one rule configured by a table; stricter variants are the same
// rule with a different table.
package underscore

import (
	"fmt"
	"strings"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// Context is where a name is declared.
type Context uint8

const (
	// Public class members, including members without a modifier.
	Public Context = iota + 1
	Protected
	Private
	// Function is a function declared outside a class.
	Function
)

func (c Context) String() string {
	switch c {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	case Function:
		return "function"
	default:
		return "unknown"
	}
}

func (c Context) title() string {
	s := c.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseContext accepts the names printed by String.
func ParseContext(s string) (Context, error) {
	for _, c := range []Context{Public, Protected, Private, Function} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown declaration context %q", s)
}

// Table says whether a leading underscore is allowed per context. A
// context missing from the table does not allow one.
type Table map[Context]bool

// Rule reports declared names that start with an underscore where the
// table does not allow it. Magic names starting with "__" are exempt.
type Rule struct {
	id    string
	desc  string
	table Table
}

// New builds a rule from a copy of table.
func New(id, desc string, table Table) *Rule {
	t := make(Table, len(table))
	for c, ok := range table {
		t[c] = ok
	}
	return &Rule{id: id, desc: desc, table: t}
}

func (r *Rule) ID() string          { return r.id }
func (r *Rule) Description() string { return r.desc }

func (r *Rule) Grammars() []token.Grammar { return []token.Grammar{token.PHP} }

func (r *Rule) Interest() token.KindSet {
	return token.NewKindSet(token.Variable, token.KwFunction)
}

// Allowed reports the table entry for c.
func (r *Rule) Allowed(c Context) bool { return r.table[c] }

// Configure accepts {allow = {private = true, ...}}.
func (r *Rule) Configure(props map[string]any) error {
	for key, val := range props {
		if key != "allow" {
			return fmt.Errorf("unknown property %q", key)
		}
		m, ok := val.(map[string]any)
		if !ok {
			return fmt.Errorf("property allow: expected a table, got %T", val)
		}
		for name, raw := range m {
			c, err := ParseContext(name)
			if err != nil {
				return fmt.Errorf("property allow: %w", err)
			}
			b, ok := raw.(bool)
			if !ok {
				return fmt.Errorf("property allow.%s: expected a boolean, got %T", name, raw)
			}
			r.table[c] = b
		}
	}
	return nil
}

func (r *Rule) Process(v *token.View, i int, rep diag.Reporter) error {
	var (
		name string
		at   int
		what string
		ctx  Context
	)
	switch v.Kind(i) {
	case token.Variable:
		if !inClassBody(v, i) {
			return nil
		}
		mods, ok := modifiersBefore(v, i, true)
		if !ok {
			return nil
		}
		name, at, what, ctx = strings.TrimPrefix(v.Text(i), "$"), i, "member variable", visibility(mods)
	case token.KwFunction:
		at = v.NextNonEmpty(i + 1)
		if at != token.None && v.Kind(at) == token.BitAnd {
			at = v.NextNonEmpty(at + 1)
		}
		if at == token.None || v.Kind(at) != token.Ident {
			return nil // замыкание
		}
		name = v.Text(at)
		if inClassBody(v, i) {
			mods, _ := modifiersBefore(v, i, false)
			what, ctx = "method", visibility(mods)
		} else {
			what, ctx = "function", Function
		}
	default:
		return nil
	}

	if !strings.HasPrefix(name, "_") || strings.HasPrefix(name, "__") || r.table[ctx] {
		return nil
	}
	msg := fmt.Sprintf("%s %s name \"%s\" must not be prefixed with an underscore", ctx.title(), what, name)
	if ctx == Function {
		msg = fmt.Sprintf("Function name \"%s\" must not be prefixed with an underscore", name)
	}
	rep.Report(at, diag.SevError, diag.Code(ctx.title()+"HasUnderscore"), msg, false)
	return nil
}

// inClassBody reports whether i sits directly in the braces of a class-like.
func inClassBody(v *token.View, i int) bool {
	id := v.At(i).Scope
	if id == token.None {
		return false
	}
	sc := v.Scope(id)
	return sc.Kind == token.ScopeBrace && token.OOKinds.Has(v.Kind(sc.Owner))
}

var (
	modifierKinds = token.NewKindSet(token.KwPublic, token.KwProtected, token.KwPrivate,
		token.KwStatic, token.KwVar, token.KwAbstract, token.KwFinal)
	typeKinds = token.NewKindSet(token.Ident, token.KwArray, token.NsSeparator, token.Nullable,
		token.BitOr, token.BitAnd, token.OpenParen, token.CloseParen)
)

// modifiersBefore collects the modifier keywords in front of i. With
// typed set, a property type between the modifiers and i is skipped.
// ok is false when no modifier is found.
func modifiersBefore(v *token.View, i int, typed bool) (token.KindSet, bool) {
	var mods token.KindSet
	found := false
	for j := v.PrevNonEmpty(i - 1); j != token.None; j = v.PrevNonEmpty(j - 1) {
		k := v.Kind(j)
		switch {
		case modifierKinds.Has(k):
			mods = mods.With(k)
			found = true
		case typed && !found && typeKinds.Has(k):
		default:
			return mods, found
		}
	}
	return mods, found
}

func visibility(mods token.KindSet) Context {
	switch {
	case mods.Has(token.KwPrivate):
		return Private
	case mods.Has(token.KwProtected):
		return Protected
	default:
		return Public
	}
}

// Package rules is the built-in rule catalog and the standards that
// select from it.
package rules

import (
	"fmt"
	"slices"
	"strings"

	"tokensniff/internal/rules/underscore"
	"tokensniff/internal/sniff"
)

// IDs of the underscore variants.
const (
	LeadingUnderscoreID       = "Squiz.NamingConventions.LeadingUnderscore"
	StrictLeadingUnderscoreID = "Squiz.NamingConventions.StrictLeadingUnderscore"
)

// entry builds a fresh rule; rules carry configuration, so every registry
// gets its own instances.
type entry struct {
	id  string
	new func() sniff.Rule
}

var catalog = []entry{
	{"PSR1.Classes.ClassDeclaration", func() sniff.Rule { return ClassDeclaration{} }},
	{"Generic.ControlStructures.ControlSignature", func() sniff.Rule { return ControlSignature{} }},
	{"Generic.Arrays.DisallowLongArraySyntax", func() sniff.Rule { return DisallowLongArraySyntax{} }},
	{"Generic.Arrays.DisallowShortArraySyntax", func() sniff.Rule { return DisallowShortArraySyntax{} }},
	{"Generic.WhiteSpace.ScopeIndent", func() sniff.Rule { return NewScopeIndent() }},
	{"Generic.PHP.NoSilencedErrors", func() sniff.Rule { return &NoSilencedErrors{} }},
	{"Generic.CodeAnalysis.EmptyStatement", func() sniff.Rule { return EmptyStatement{} }},
	{LeadingUnderscoreID, func() sniff.Rule { return NewLeadingUnderscore() }},
	{StrictLeadingUnderscoreID, func() sniff.Rule { return NewStrictLeadingUnderscore() }},
	{"Squiz.CSS.ColourLowercase", func() sniff.Rule { return ColourLowercase{} }},
}

// NewLeadingUnderscore allows a leading underscore on non-public members
// only.
func NewLeadingUnderscore() *underscore.Rule {
	return underscore.New(LeadingUnderscoreID,
		"Public members and functions must not start with an underscore",
		underscore.Table{
			underscore.Public:    false,
			underscore.Protected: true,
			underscore.Private:   true,
			underscore.Function:  false,
		})
}

// NewStrictLeadingUnderscore allows no leading underscore anywhere.
func NewStrictLeadingUnderscore() *underscore.Rule {
	return underscore.New(StrictLeadingUnderscoreID,
		"Declared names must not start with an underscore",
		underscore.Table{})
}

// IDs lists the catalog in registration order.
func IDs() []string {
	out := make([]string, len(catalog))
	for i, e := range catalog {
		out[i] = e.id
	}
	return out
}

// New builds the rule with id.
func New(id string) (sniff.Rule, bool) {
	for _, e := range catalog {
		if e.id == id {
			return e.new(), true
		}
	}
	return nil, false
}

// Selection names the rules of a run.
type Selection struct {
	Standard string
	Include  []string // ids added after the standard
	Exclude  []string // ids or dotted prefixes
}

// Resolve returns the selected ids in catalog order.
func (s Selection) Resolve() ([]string, error) {
	base, err := Standard(s.Standard)
	if err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(base)+len(s.Include))
	for _, id := range base {
		want[id] = true
	}
	for _, id := range s.Include {
		if _, ok := New(id); !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		want[id] = true
	}

	var out []string
	for _, e := range catalog {
		if want[e.id] && !excluded(e.id, s.Exclude) {
			out = append(out, e.id)
		}
	}
	return out, nil
}

func excluded(id string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(p string) bool {
		return id == p || strings.HasPrefix(id, p+".")
	})
}

// Build resolves sel and builds a registry with overrides applied.
// Overrides for rules outside the selection are ignored.
func Build(sel Selection, overrides map[string]sniff.Override) (*sniff.Registry, error) {
	ids, err := sel.Resolve()
	if err != nil {
		return nil, err
	}
	b := sniff.NewBuilder()
	for _, id := range ids {
		r, _ := New(id)
		b.Add(r)
		if o, ok := overrides[id]; ok {
			b.Override(id, o)
		}
	}
	return b.Build()
}

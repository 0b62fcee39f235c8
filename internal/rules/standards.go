package rules

import (
	"fmt"
	"strings"
)

// Standard names.
const (
	StandardDefault = "Default"
	StandardAll     = "All"
	StandardNone    = "None"
)

// defaultRules is a consistent set: the two array rules contradict each
// other, so only one is on.
var defaultRules = []string{
	"PSR1.Classes.ClassDeclaration",
	"Generic.ControlStructures.ControlSignature",
	"Generic.Arrays.DisallowLongArraySyntax",
	"Generic.WhiteSpace.ScopeIndent",
	"Generic.PHP.NoSilencedErrors",
	"Generic.CodeAnalysis.EmptyStatement",
	LeadingUnderscoreID,
	"Squiz.CSS.ColourLowercase",
}

// prefixStandards select every rule whose id starts with "<name>.".
var prefixStandards = []string{"PSR1", "Generic", "Squiz"}

// Standards lists the known standard names.
func Standards() []string {
	out := []string{StandardDefault, StandardAll, StandardNone}
	return append(out, prefixStandards...)
}

// Standard returns the ids a standard selects, in catalog order.
func Standard(name string) ([]string, error) {
	switch {
	case name == "" || strings.EqualFold(name, StandardDefault):
		return append([]string(nil), defaultRules...), nil
	case strings.EqualFold(name, StandardAll):
		return IDs(), nil
	case strings.EqualFold(name, StandardNone):
		return nil, nil
	}
	for _, p := range prefixStandards {
		if !strings.EqualFold(name, p) {
			continue
		}
		var out []string
		for _, e := range catalog {
			if strings.HasPrefix(e.id, p+".") {
				out = append(out, e.id)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown standard %q (known: %s)", name, strings.Join(Standards(), ", "))
}

package rules

import (
	"fmt"
	"strings"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// ColourLowercase requires hex colours in declarations to be lowercase.
type ColourLowercase struct{}

func (ColourLowercase) ID() string { return "Squiz.CSS.ColourLowercase" }

func (ColourLowercase) Description() string { return "CSS colours must be defined in lowercase" }

func (ColourLowercase) Grammars() []token.Grammar { return []token.Grammar{token.CSS} }

func (ColourLowercase) Interest() token.KindSet { return token.NewKindSet(token.Hash) }

var declarationBounds = token.NewKindSet(token.Colon, token.Semicolon, token.OpenCurly, token.CloseCurly)

func (ColourLowercase) Process(v *token.View, i int, r diag.Reporter) error {
	text := v.Text(i)
	if !isHexColour(text) {
		return nil
	}
	// только значения свойств, не селекторы
	c, ok := v.FindPrevious(declarationBounds, i-1, -1, false)
	if !ok || v.Kind(c) != token.Colon {
		return nil
	}
	if p := v.PrevNonEmpty(c - 1); p == token.None || v.Kind(p) != token.Style {
		return nil
	}
	lower := strings.ToLower(text)
	if lower == text {
		return nil
	}
	r.Report(i, diag.SevError, "NotLower",
		fmt.Sprintf("CSS colours must be defined in lowercase; expected %s but found %s", lower, text), true)
	return nil
}

func isHexColour(s string) bool {
	if len(s) < 2 || s[0] != '#' {
		return false
	}
	switch len(s) - 1 {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 1; i < len(s); i++ {
		b := s[i]
		if !(b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F') {
			return false
		}
	}
	return true
}

package rules

import (
	"fmt"
	"strings"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// NoSilencedErrors reports the @ operator. It warns by default; the
// "error" property makes it an error.
type NoSilencedErrors struct {
	Error bool
}

func (*NoSilencedErrors) ID() string { return "Generic.PHP.NoSilencedErrors" }

func (*NoSilencedErrors) Description() string { return "Silencing errors with @ is discouraged" }

func (*NoSilencedErrors) Grammars() []token.Grammar { return []token.Grammar{token.PHP} }

func (*NoSilencedErrors) Interest() token.KindSet { return token.NewKindSet(token.At) }

func (r *NoSilencedErrors) Configure(props map[string]any) error {
	for key, val := range props {
		if key != "error" {
			return fmt.Errorf("unknown property %q", key)
		}
		b, err := boolProp(key, val)
		if err != nil {
			return err
		}
		r.Error = b
	}
	return nil
}

func (r *NoSilencedErrors) Process(v *token.View, i int, rep diag.Reporter) error {
	found := "@"
	if i+1 < v.Len() {
		found += strings.TrimSpace(v.Text(i + 1))
	}
	if r.Error {
		rep.Report(i, diag.SevError, "Forbidden", fmt.Sprintf("Silencing errors is forbidden; found \"%s\"", found), false)
		return nil
	}
	rep.Report(i, diag.SevWarning, "Discouraged", fmt.Sprintf("Silencing errors is discouraged; found \"%s\"", found), false)
	return nil
}

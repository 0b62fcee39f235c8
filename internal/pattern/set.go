package pattern

import (
	"fmt"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// DefaultCode is the local code of a pattern deviation.
const DefaultCode diag.Code = "Found"

// Set holds the compiled patterns of one rule for one grammar, indexed by
// trigger kind in registration order.
type Set struct {
	grammar   token.Grammar
	byTrigger map[token.Kind][]*Pattern
	triggers  token.KindSet
	n         int
}

// NewSet creates an empty set for g.
func NewSet(g token.Grammar) *Set {
	return &Set{grammar: g, byTrigger: make(map[token.Kind][]*Pattern)}
}

// Add appends p. Patterns compiled for another grammar are rejected.
func (s *Set) Add(p *Pattern) error {
	if p.Grammar != s.grammar {
		return fmt.Errorf("pattern %q compiled for %s, set is %s", p.Source, p.Grammar, s.grammar)
	}
	k := p.TriggerKind()
	s.byTrigger[k] = append(s.byTrigger[k], p)
	s.triggers = s.triggers.With(k)
	s.n++
	return nil
}

// Len returns the number of patterns.
func (s *Set) Len() int { return s.n }

// Triggers returns the kinds that start a match attempt.
func (s *Set) Triggers() token.KindSet { return s.triggers }

// Check tries the patterns registered for the token at i in registration
// order. The first pattern that applies decides: if the source deviates
// from it, one diagnostic is reported at the first deviating token.
func (s *Set) Check(v *token.View, i int, r diag.Reporter) {
	for _, p := range s.byTrigger[v.Kind(i)] {
		m, ok := p.Apply(v, i)
		if !ok {
			continue
		}
		at, ok := p.Conform(v, m)
		if !ok {
			code := p.Code
			if code == "" {
				code = DefaultCode
			}
			msg := fmt.Sprintf("Expected \"%s\"; found \"%s\"", p.Expected(), p.Found(v, m))
			diag.NewReportBuilder(r, at, p.Severity, code, msg).Fixable().Emit()
		}
		return
	}
}

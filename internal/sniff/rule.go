// Package sniff holds the rule registry and the dispatcher that walks a
// resolved token stream once, invoking every interested rule per token.
package sniff

import (
	"errors"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// ErrSkipFile disables the returning rule for the rest of the file.
var ErrSkipFile = errors.New("sniff: skip file")

// Rule identifies a rule. Every rule is also a Listener or a PatternRule.
type Rule interface {
	ID() string
}

// Listener is a procedural rule invoked for every token in its interest set.
// Process must not retain v after returning.
type Listener interface {
	Rule
	Interest() token.KindSet
	Process(v *token.View, i int, r diag.Reporter) error
}

// PatternRule is a declarative rule: the source must look like the
// patterns wherever they apply.
type PatternRule interface {
	Rule
	Patterns() []PatternSpec
}

// PatternSpec describes one pattern of a PatternRule.
type PatternSpec struct {
	Pattern  string
	Code     diag.Code     // rule-local; "Found" when empty
	Severity diag.Severity // error when zero
}

// GrammarFilter restricts a rule to some grammars; rules without it run on
// every grammar.
type GrammarFilter interface {
	Grammars() []token.Grammar
}

// Describer is implemented by rules that document themselves.
type Describer interface {
	Description() string
}

// Configurable rules accept properties from the configuration file.
type Configurable interface {
	Configure(props map[string]any) error
}

// RuleKind reports which capability a registered rule uses.
type RuleKind uint8

const (
	KindListener RuleKind = iota + 1
	KindPattern
)

func (k RuleKind) String() string {
	switch k {
	case KindListener:
		return "listener"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Info describes a registered rule.
type Info struct {
	ID          string          `json:"id"`
	Kind        RuleKind        `json:"-"`
	KindName    string          `json:"kind"`
	Grammars    []token.Grammar `json:"-"`
	Description string          `json:"description,omitempty"`
	Severity    diag.Severity   `json:"severity,omitempty"`
}

package rules

import (
	"tokensniff/internal/sniff"
	"tokensniff/internal/token"
)

// ControlSignature fixes the layout of control structure headers: one
// space around keywords and parentheses, the brace on the same line and
// nothing after it.
type ControlSignature struct{}

func (ControlSignature) ID() string { return "Generic.ControlStructures.ControlSignature" }

func (ControlSignature) Description() string {
	return "Control structure signatures must match the expected layout"
}

func (ControlSignature) Grammars() []token.Grammar {
	return []token.Grammar{token.PHP, token.JS}
}

func (ControlSignature) Patterns() []sniff.PatternSpec {
	return []sniff.PatternSpec{
		{Pattern: "do {EOL...} while (...);EOL"},
		{Pattern: "while (...) {EOL"},
		{Pattern: "for (...) {EOL"},
		{Pattern: "if (...) {EOL"},
		{Pattern: "foreach (...) {EOL"},
		{Pattern: "switch (...) {EOL"},
		{Pattern: "} else if (...) {EOL"},
		{Pattern: "} elseif (...) {EOL"},
		{Pattern: "} else {EOL"},
		{Pattern: "try {EOL"},
		{Pattern: "} catch (...) {EOL"},
		{Pattern: "} finally {EOL"},
	}
}

package token

import (
	"tokensniff/internal/source"
)

// None marks an absent structural reference.
const None = -1

// Token represents a single source token with its location and the
// structural annotations filled in by the resolver.
type Token struct {
	Kind   Kind
	Text   string
	Span   source.Span
	Index  int
	Line   int // 1-based
	Column int // 1-based, tabs expanded

	BracketOpener  int
	BracketCloser  int
	ParenOwner     int
	ScopeCondition int
	ScopeOpener    int
	ScopeCloser    int
	Scope          int // innermost enclosing scope id
	Level          int
	ShortArray     bool
}

// IsEmpty reports whether the token carries no code (whitespace or comment).
func (t Token) IsEmpty() bool {
	return EmptyKinds.Has(t.Kind)
}

// IsLiteral reports whether the token is a number or string-like literal.
func (t Token) IsLiteral() bool {
	return LiteralKinds.Has(t.Kind)
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// HasNewline reports whether the token text contains a line break.
func (t Token) HasNewline() bool {
	for i := 0; i < len(t.Text); i++ {
		if t.Text[i] == '\n' {
			return true
		}
	}
	return false
}

// EndLine returns the line on which the token's last character sits.
func (t Token) EndLine() int {
	n := t.Line
	for i := 0; i < len(t.Text); i++ {
		if t.Text[i] == '\n' && i != len(t.Text)-1 {
			n++
		}
	}
	return n
}

func newToken(k Kind, text string, sp source.Span) Token {
	return Token{
		Kind:           k,
		Text:           text,
		Span:           sp,
		BracketOpener:  None,
		BracketCloser:  None,
		ParenOwner:     None,
		ScopeCondition: None,
		ScopeOpener:    None,
		ScopeCloser:    None,
		Scope:          None,
	}
}

package token

import "strings"

// View is the read-only window rules get onto a Stream. Every accessor
// returns copies.
type View struct {
	s *Stream
}

// NewView wraps s.
func NewView(s *Stream) *View {
	return &View{s: s}
}

// Len returns the number of tokens.
func (v *View) Len() int { return len(v.s.Tokens) }

// At returns a copy of token i.
func (v *View) At(i int) Token { return v.s.Tokens[i] }

// Kind returns the kind of token i, or Invalid when i is out of range.
func (v *View) Kind(i int) Kind {
	if i < 0 || i >= len(v.s.Tokens) {
		return Invalid
	}
	return v.s.Tokens[i].Kind
}

// Text returns the text of token i, or "" when i is out of range.
func (v *View) Text(i int) string {
	if i < 0 || i >= len(v.s.Tokens) {
		return ""
	}
	return v.s.Tokens[i].Text
}

// Grammar returns the grammar of the file.
func (v *View) Grammar() Grammar { return v.s.Grammar }

// Path returns the file path.
func (v *View) Path() string { return v.s.Path() }

// TabWidth returns the tab width columns were computed with.
func (v *View) TabWidth() int { return v.s.TabWidth }

// Scope returns scope id.
func (v *View) Scope(id int) Scope { return v.s.Scopes[id] }

// ScopeCount returns the number of scopes.
func (v *View) ScopeCount() int { return len(v.s.Scopes) }

// Content concatenates token texts in [from, to].
func (v *View) Content(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to >= len(v.s.Tokens) {
		to = len(v.s.Tokens) - 1
	}
	var b strings.Builder
	for i := from; i <= to; i++ {
		b.WriteString(v.s.Tokens[i].Text)
	}
	return b.String()
}

// FindNext returns the first index in [start, end) whose kind is in kinds
// (or not in kinds when exclude is set). end < 0 means the end of the
// stream.
func (v *View) FindNext(kinds KindSet, start, end int, exclude bool) (int, bool) {
	if start < 0 {
		start = 0
	}
	if end < 0 || end > len(v.s.Tokens) {
		end = len(v.s.Tokens)
	}
	for i := start; i < end; i++ {
		if kinds.Has(v.s.Tokens[i].Kind) != exclude {
			return i, true
		}
	}
	return None, false
}

// FindPrevious walks down from start to end (inclusive) and returns the
// first index whose kind is in kinds (or not in kinds when exclude is
// set). end < 0 means the start of the stream.
func (v *View) FindPrevious(kinds KindSet, start, end int, exclude bool) (int, bool) {
	if start >= len(v.s.Tokens) {
		start = len(v.s.Tokens) - 1
	}
	if end < 0 {
		end = 0
	}
	for i := start; i >= end; i-- {
		if kinds.Has(v.s.Tokens[i].Kind) != exclude {
			return i, true
		}
	}
	return None, false
}

// NextNonEmpty returns the first code token at or after start, or None.
func (v *View) NextNonEmpty(start int) int {
	i, _ := v.FindNext(EmptyKinds, start, -1, true)
	return i
}

// PrevNonEmpty returns the last code token at or before start, or None.
func (v *View) PrevNonEmpty(start int) int {
	i, _ := v.FindPrevious(EmptyKinds, start, -1, true)
	return i
}

// FindEndOfStatement returns the index of the token that ends the
// statement containing start: the ';', ',' or close tag, or the last
// code token before a closer that belongs to an enclosing pair.
// Bracket pairs inside the statement are skipped.
func (v *View) FindEndOfStatement(start int) int {
	toks := v.s.Tokens
	last := start
	for i := start; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.Kind == Semicolon || t.Kind == Comma || t.Kind == CloseTag:
			return i
		case t.Kind.IsOpener() && t.BracketCloser != None:
			i = t.BracketCloser
			last = i
			continue
		case t.Kind.IsCloser() && t.BracketOpener < start:
			return last
		}
		if !t.IsEmpty() {
			last = i
		}
	}
	return last
}

// FindStartOfStatement returns the first code token of the statement that
// contains start. Bracket pairs are skipped, except braces closing a named
// scope, which end the previous statement.
func (v *View) FindStartOfStatement(start int) int {
	toks := v.s.Tokens
	first := start
	for i := start; i >= 0; i-- {
		t := toks[i]
		switch {
		case i != start && (t.Kind == Semicolon || t.Kind == Comma || t.Kind == OpenTag):
			return first
		case t.Kind.IsOpener() && t.BracketCloser > start:
			return first
		case t.Kind == CloseCurly && i != start && v.closesBlock(i):
			return first
		case t.Kind.IsCloser() && t.BracketOpener != None && i != start:
			i = t.BracketOpener
			first = i
			continue
		case t.Kind == Colon && t.ScopeCondition != None && i != start:
			return first
		}
		if !t.IsEmpty() {
			first = i
		}
	}
	return first
}

// closesBlock reports whether the '}' at i closes a statement block
// rather than an expression such as a closure or a match body.
func (v *View) closesBlock(i int) bool {
	cond := v.s.Tokens[i].ScopeCondition
	if cond == None || v.s.Tokens[i].ScopeCloser != i {
		return false
	}
	switch v.s.Tokens[cond].Kind {
	case KwMatch:
		return false
	case KwFunction:
		next := v.NextNonEmpty(cond + 1)
		return next != None && v.s.Tokens[next].Kind != OpenParen
	}
	return true
}

// Conditions returns the owners of the scopes around token i, outermost first.
func (v *View) Conditions(i int) []Condition {
	return v.s.Conditions(i)
}

// HasCondition reports whether one of the scopes around token i is owned
// by a keyword in kinds.
func (v *View) HasCondition(i int, kinds KindSet) bool {
	if i < 0 || i >= len(v.s.Tokens) {
		return false
	}
	for id := v.s.Tokens[i].Scope; id != None; id = v.s.Scopes[id].Parent {
		if kinds.Has(v.s.Tokens[v.s.Scopes[id].Owner].Kind) {
			return true
		}
	}
	return false
}

// LineTokens returns the first and last index of the tokens that start on
// line.
func (v *View) LineTokens(line int) (first, last int, ok bool) {
	return v.s.lineRange(line)
}

package token

import (
	"sort"

	"tokensniff/internal/source"
	"tokensniff/internal/suppress"
)

// ScopeKind distinguishes how a scope is delimited.
type ScopeKind uint8

const (
	// ScopeBrace is delimited by a { } pair.
	ScopeBrace ScopeKind = iota + 1
	// ScopeAlt is PHP alternative syntax: ':' up to endif/endwhile/....
	ScopeAlt
	// ScopeStatement is a brace-less single statement body.
	ScopeStatement
	// ScopeCase is a case/default body inside a switch.
	ScopeCase
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeBrace:
		return "brace"
	case ScopeAlt:
		return "alt"
	case ScopeStatement:
		return "statement"
	case ScopeCase:
		return "case"
	default:
		return "none"
	}
}

// Scope is a region owned by a keyword.
type Scope struct {
	ID     int
	Owner  int
	Opener int
	Closer int
	Kind   ScopeKind
	Parent int // None for top level scopes
}

// Contains reports whether index i lies strictly between opener and closer.
func (s Scope) Contains(i int) bool {
	return i > s.Opener && i < s.Closer
}

// Condition is one entry of the chain of scopes around a token.
type Condition struct {
	Owner int
	Kind  Kind
	Scope int
}

// Stream is the ordered token sequence of one file plus everything the
// resolver derived from it. Rules never touch a Stream directly; they get
// a *View.
type Stream struct {
	File     *source.File
	Grammar  Grammar
	TabWidth int
	Tokens   []Token
	Scopes   []Scope
	Suppress *suppress.Set
}

// NewStream prepares an empty stream for f.
func NewStream(f *source.File, g Grammar, tabWidth int) *Stream {
	return &Stream{
		File:     f,
		Grammar:  g,
		TabWidth: tabWidth,
		Suppress: suppress.New(),
	}
}

// Path returns the file path or "" for a stream without a file.
func (s *Stream) Path() string {
	if s.File == nil {
		return ""
	}
	return s.File.Path
}

// Len returns the number of tokens.
func (s *Stream) Len() int { return len(s.Tokens) }

// Append adds a token, filling Index and the structural defaults.
func (s *Stream) Append(k Kind, text string, sp source.Span, line, col int) int {
	t := newToken(k, text, sp)
	t.Index = len(s.Tokens)
	t.Line = line
	t.Column = col
	s.Tokens = append(s.Tokens, t)
	return t.Index
}

// AddScope records a scope and returns its id.
func (s *Stream) AddScope(sc Scope) int {
	sc.ID = len(s.Scopes)
	s.Scopes = append(s.Scopes, sc)
	return sc.ID
}

// Location returns the line/column of token i; i == Len() maps to the end
// of the file.
func (s *Stream) Location(i int) (line, col int) {
	if i >= 0 && i < len(s.Tokens) {
		return s.Tokens[i].Line, s.Tokens[i].Column
	}
	if len(s.Tokens) == 0 {
		return 1, 1
	}
	last := s.Tokens[len(s.Tokens)-1]
	line, col = last.Line, last.Column
	for j := 0; j < len(last.Text); j++ {
		if last.Text[j] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// Conditions returns the owners of every scope strictly enclosing token i,
// outermost first.
func (s *Stream) Conditions(i int) []Condition {
	if i < 0 || i >= len(s.Tokens) {
		return nil
	}
	var out []Condition
	for id := s.Tokens[i].Scope; id != None; id = s.Scopes[id].Parent {
		sc := s.Scopes[id]
		out = append(out, Condition{Owner: sc.Owner, Kind: s.Tokens[sc.Owner].Kind, Scope: id})
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// lineRange returns the first and last token index starting on line.
func (s *Stream) lineRange(line int) (first, last int, ok bool) {
	first = sort.Search(len(s.Tokens), func(i int) bool { return s.Tokens[i].Line >= line })
	if first == len(s.Tokens) || s.Tokens[first].Line != line {
		return 0, 0, false
	}
	last = sort.Search(len(s.Tokens), func(i int) bool { return s.Tokens[i].Line > line }) - 1
	return first, last, true
}

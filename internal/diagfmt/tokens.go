package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tokensniff/internal/token"
)

// TokenOutput is one token with its structural annotations. Absent
// references are omitted.
type TokenOutput struct {
	Index          int    `json:"index"`
	Kind           string `json:"kind"`
	Text           string `json:"text"`
	Line           int    `json:"line"`
	Column         int    `json:"column"`
	Level          int    `json:"level"`
	BracketOpener  *int   `json:"bracket_opener,omitempty"`
	BracketCloser  *int   `json:"bracket_closer,omitempty"`
	ParenOwner     *int   `json:"paren_owner,omitempty"`
	ScopeCondition *int   `json:"scope_condition,omitempty"`
	ScopeOpener    *int   `json:"scope_opener,omitempty"`
	ScopeCloser    *int   `json:"scope_closer,omitempty"`
	Scope          *int   `json:"scope,omitempty"`
	ShortArray     bool   `json:"short_array,omitempty"`
}

// ScopeOutput is one entry of the scope table.
type ScopeOutput struct {
	ID     int    `json:"id"`
	Kind   string `json:"kind"`
	Owner  int    `json:"owner"`
	Opener int    `json:"opener"`
	Closer int    `json:"closer"`
	Parent *int   `json:"parent,omitempty"`
}

// StreamOutput is the JSON form of a resolved stream.
type StreamOutput struct {
	Path    string        `json:"path"`
	Grammar string        `json:"grammar"`
	Tokens  []TokenOutput `json:"tokens"`
	Scopes  []ScopeOutput `json:"scopes"`
}

func ref(i int) *int {
	if i == token.None {
		return nil
	}
	return &i
}

// FormatTokensJSON выводит токены и таблицу областей в JSON формате
func FormatTokensJSON(w io.Writer, s *token.Stream) error {
	out := StreamOutput{
		Path:    s.Path(),
		Grammar: s.Grammar.String(),
		Tokens:  make([]TokenOutput, 0, len(s.Tokens)),
		Scopes:  make([]ScopeOutput, 0, len(s.Scopes)),
	}
	for _, t := range s.Tokens {
		out.Tokens = append(out.Tokens, TokenOutput{
			Index:          t.Index,
			Kind:           t.Kind.String(),
			Text:           t.Text,
			Line:           t.Line,
			Column:         t.Column,
			Level:          t.Level,
			BracketOpener:  ref(t.BracketOpener),
			BracketCloser:  ref(t.BracketCloser),
			ParenOwner:     ref(t.ParenOwner),
			ScopeCondition: ref(t.ScopeCondition),
			ScopeOpener:    ref(t.ScopeOpener),
			ScopeCloser:    ref(t.ScopeCloser),
			Scope:          ref(t.Scope),
			ShortArray:     t.ShortArray,
		})
	}
	for _, sc := range s.Scopes {
		out.Scopes = append(out.Scopes, ScopeOutput{
			ID:     sc.ID,
			Kind:   sc.Kind.String(),
			Owner:  sc.Owner,
			Opener: sc.Opener,
			Closer: sc.Closer,
			Parent: ref(sc.Parent),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FormatTokensPretty выводит токены в человекочитаемом формате, по одному
// на строку, с аннотациями резолвера.
func FormatTokensPretty(w io.Writer, s *token.Stream) error {
	var b strings.Builder
	for _, t := range s.Tokens {
		fmt.Fprintf(&b, "%4d %4d:%-3d %-18s %-24q lvl=%d", t.Index, t.Line, t.Column, t.Kind, t.Text, t.Level)
		if t.BracketOpener != token.None {
			fmt.Fprintf(&b, " pair=%d..%d", t.BracketOpener, t.BracketCloser)
		}
		if t.ParenOwner != token.None {
			fmt.Fprintf(&b, " owner=%d", t.ParenOwner)
		}
		if t.ScopeCondition != token.None {
			fmt.Fprintf(&b, " scope=%d{%d..%d}", t.ScopeCondition, t.ScopeOpener, t.ScopeCloser)
		}
		if t.Scope != token.None {
			fmt.Fprintf(&b, " in=%d", t.Scope)
		}
		if t.ShortArray {
			b.WriteString(" short-array")
		}
		b.WriteByte('\n')
	}
	if len(s.Scopes) > 0 {
		b.WriteString("scopes:\n")
		for _, sc := range s.Scopes {
			fmt.Fprintf(&b, "  #%d %-9s owner=%d %d..%d", sc.ID, sc.Kind, sc.Owner, sc.Opener, sc.Closer)
			if sc.Parent != token.None {
				fmt.Fprintf(&b, " parent=%d", sc.Parent)
			}
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

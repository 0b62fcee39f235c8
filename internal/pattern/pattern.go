// Package pattern implements declarative token patterns: literal tokens,
// "..." wildcards and EOL markers, matched around a trigger token.
package pattern

import (
	"errors"
	"fmt"
	"strings"

	"tokensniff/internal/diag"
	"tokensniff/internal/lexer"
	"tokensniff/internal/source"
	"tokensniff/internal/token"
)

const (
	// WildcardMarker matches zero or more tokens.
	WildcardMarker = "..."
	// EOLMarker matches the end of a line.
	EOLMarker = "EOL"
)

// ElemKind classifies pattern elements.
type ElemKind uint8

const (
	// ElemLiteral matches one token by kind and normalized text.
	ElemLiteral ElemKind = iota + 1
	// ElemSpace is literal whitespace; it only matters in strict matching.
	ElemSpace
	// ElemWildcard matches any run of tokens.
	ElemWildcard
	// ElemEOL requires a line break in strict matching.
	ElemEOL
)

// Element is one compiled pattern element.
type Element struct {
	Kind ElemKind
	Tok  token.Kind
	Text string // normalized for literals, exact for whitespace
}

func (e Element) String() string {
	switch e.Kind {
	case ElemWildcard:
		return WildcardMarker
	case ElemEOL:
		return EOLMarker
	default:
		return e.Text
	}
}

// Pattern is a compiled pattern for one grammar.
type Pattern struct {
	Source   string
	Grammar  token.Grammar
	Elems    []Element
	Trigger  int // index into Elems
	Code     diag.Code
	Severity diag.Severity
}

var (
	errEmpty            = errors.New("pattern has no literal token")
	errWildcardTrigger  = errors.New("wildcard before the trigger token")
	errAdjacentWildcard = errors.New("adjacent wildcards")
)

// Compile tokenizes src with the grammar's lexer in fragment mode and
// selects the trigger: the first keyword literal, else the first literal.
func Compile(src string, g token.Grammar) (*Pattern, error) {
	p := &Pattern{Source: src, Grammar: g, Trigger: -1, Severity: diag.SevError}
	rest := src
	for rest != "" {
		at, marker := nextMarker(rest)
		if at < 0 {
			at = len(rest)
		}
		if at > 0 {
			elems, err := literals(rest[:at], g)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", src, err)
			}
			p.Elems = append(p.Elems, elems...)
		}
		if marker == "" {
			break
		}
		switch marker {
		case WildcardMarker:
			if n := len(p.Elems); n > 0 && p.Elems[n-1].Kind == ElemWildcard {
				return nil, fmt.Errorf("pattern %q: %w", src, errAdjacentWildcard)
			}
			p.Elems = append(p.Elems, Element{Kind: ElemWildcard})
		case EOLMarker:
			p.Elems = append(p.Elems, Element{Kind: ElemEOL})
		}
		rest = rest[at+len(marker):]
	}

	for i, e := range p.Elems {
		if e.Kind == ElemLiteral && e.Tok.IsKeyword() {
			p.Trigger = i
			break
		}
	}
	if p.Trigger < 0 {
		for i, e := range p.Elems {
			if e.Kind == ElemLiteral {
				p.Trigger = i
				break
			}
		}
	}
	if p.Trigger < 0 {
		return nil, fmt.Errorf("pattern %q: %w", src, errEmpty)
	}
	for _, e := range p.Elems[:p.Trigger] {
		if e.Kind == ElemWildcard {
			return nil, fmt.Errorf("pattern %q: %w", src, errWildcardTrigger)
		}
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string, g token.Grammar) *Pattern {
	p, err := Compile(src, g)
	if err != nil {
		panic(err)
	}
	return p
}

// TriggerKind returns the token kind that starts a match attempt.
func (p *Pattern) TriggerKind() token.Kind {
	return p.Elems[p.Trigger].Tok
}

// Expected renders the pattern for messages; EOL shows as \n.
func (p *Pattern) Expected() string {
	var sb strings.Builder
	for _, e := range p.Elems {
		if e.Kind == ElemEOL {
			sb.WriteString(`\n`)
			continue
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}

// nextMarker finds the earliest wildcard or EOL marker in s.
func nextMarker(s string) (int, string) {
	w := strings.Index(s, WildcardMarker)
	e := -1
	for from := 0; from < len(s); {
		j := strings.Index(s[from:], EOLMarker)
		if j < 0 {
			break
		}
		j += from
		end := j + len(EOLMarker)
		if (j == 0 || !isWordByte(s[j-1])) && (end == len(s) || !isWordByte(s[end])) {
			e = j
			break
		}
		from = end
	}
	switch {
	case w < 0 && e < 0:
		return -1, ""
	case e < 0 || (w >= 0 && w < e):
		return w, WildcardMarker
	default:
		return e, EOLMarker
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// literals tokenizes one literal run of the pattern.
func literals(text string, g token.Grammar) ([]Element, error) {
	f := source.NewFile("pattern", []byte(text), source.FileVirtual)
	s, err := lexer.Tokenize(f, g, lexer.Options{Fragment: true, TabWidth: -1})
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		switch t.Kind {
		case token.Whitespace:
			out = append(out, Element{Kind: ElemSpace, Tok: t.Kind, Text: t.Text})
		case token.Comment, token.DocComment:
			// комментарии в шаблоне не участвуют в сравнении
		default:
			out = append(out, Element{Kind: ElemLiteral, Tok: t.Kind, Text: normalize(g, t.Kind, t.Text)})
		}
	}
	return out, nil
}

// normalize folds keyword case; identifiers and literals compare exactly.
func normalize(g token.Grammar, k token.Kind, text string) string {
	if k.IsKeyword() {
		return token.Normalize(g, text)
	}
	return text
}

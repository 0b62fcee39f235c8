package pattern

import (
	"strings"

	"tokensniff/internal/token"
)

// Match is the alignment of a pattern against the stream.
type Match struct {
	Start, End int   // first and last matched token
	Anchors    []int // stream index per element; -1 for wildcards, spaces and EOL
	Wild       [][2]int
}

type matcher struct {
	p       *Pattern
	v       *token.View
	anchors []int
	wild    [][2]int
	end     int
}

// Apply reports whether the pattern applies at trigger index i, ignoring
// whitespace and comments.
func (p *Pattern) Apply(v *token.View, i int) (Match, bool) {
	if i < 0 || i >= v.Len() || !p.literalAt(p.Trigger, v, i) {
		return Match{}, false
	}
	m := &matcher{p: p, v: v, anchors: make([]int, len(p.Elems)), wild: make([][2]int, len(p.Elems))}
	for k := range m.anchors {
		m.anchors[k] = -1
	}
	m.anchors[p.Trigger] = i

	start := i
	pos := i - 1
	for e := p.Trigger - 1; e >= 0; e-- {
		el := p.Elems[e]
		if el.Kind != ElemLiteral {
			continue
		}
		q := prevCode(v, pos)
		if q < 0 || !p.literalAt(e, v, q) {
			return Match{}, false
		}
		m.anchors[e] = q
		start = q
		pos = q - 1
	}
	if !m.forward(p.Trigger+1, i+1) {
		return Match{}, false
	}
	return Match{Start: start, End: m.end, Anchors: m.anchors, Wild: m.wild}, true
}

// forward matches elements from e onward starting at raw position pos.
// Wildcards extend one code token at a time, shortest first.
func (m *matcher) forward(e, pos int) bool {
	if e == len(m.p.Elems) {
		m.end = pos - 1
		return true
	}
	el := m.p.Elems[e]
	switch el.Kind {
	case ElemSpace, ElemEOL:
		return m.forward(e+1, pos)
	case ElemLiteral:
		q := nextCode(m.v, pos)
		if q >= m.v.Len() || !m.p.literalAt(e, m.v, q) {
			return false
		}
		m.anchors[e] = q
		if m.forward(e+1, q+1) {
			return true
		}
		m.anchors[e] = -1
		return false
	default:
		floor := pos
		q := pos
		for {
			m.wild[e] = [2]int{floor, q}
			if m.forward(e+1, q) {
				return true
			}
			c := nextCode(m.v, q)
			if c >= m.v.Len() {
				return false
			}
			t := m.v.At(c)
			if t.Kind.IsCloser() && t.BracketOpener != token.None && t.BracketOpener < floor {
				return false
			}
			q = c + 1
		}
	}
}

func (p *Pattern) literalAt(e int, v *token.View, i int) bool {
	el := p.Elems[e]
	t := v.At(i)
	return t.Kind == el.Tok && normalize(p.Grammar, t.Kind, t.Text) == el.Text
}

// Conform checks whitespace and line breaks between anchored literals.
// Whitespace next to a wildcard belongs to the wildcard; only EOL is
// checked across one. It returns the index of the first deviating token.
func (p *Pattern) Conform(v *token.View, m Match) (int, bool) {
	last, lastWild := -1, -1
	for e, el := range p.Elems {
		switch el.Kind {
		case ElemWildcard:
			if last >= 0 && lastWild < last {
				a := m.Anchors[last]
				if at, ok := p.gap(v, last, e, a, nextCode(v, a+1), false); !ok {
					return at, false
				}
			}
			lastWild = e
		case ElemLiteral:
			b := m.Anchors[e]
			switch {
			case lastWild > last:
				if at, ok := p.gap(v, lastWild, e, prevCode(v, b-1), b, false); !ok {
					return at, false
				}
			case last >= 0:
				if at, ok := p.gap(v, last, e, m.Anchors[last], b, true); !ok {
					return at, false
				}
			}
			last = e
		}
	}
	// хвост после последнего литерала: только EOL и пробелы
	if last >= 0 && lastWild < last && last < len(p.Elems)-1 {
		a := m.Anchors[last]
		if at, ok := p.gap(v, last, len(p.Elems), a, nextCode(v, a+1), true); !ok {
			return at, false
		}
	}
	return 0, true
}

// gap compares the pattern elements strictly between ea and eb with the
// stream tokens strictly between a and b. Without spaces only EOL counts.
func (p *Pattern) gap(v *token.View, ea, eb, a, b int, spaces bool) (int, bool) {
	var want strings.Builder
	eol := false
	for _, el := range p.Elems[ea+1 : eb] {
		switch el.Kind {
		case ElemSpace:
			if !eol {
				want.WriteString(el.Text)
			}
		case ElemEOL:
			eol = true
		}
	}
	if !spaces && !eol {
		return 0, true
	}

	var got strings.Builder
	first := b
	newline := b >= v.Len()
	for j := a + 1; j < b && j < v.Len(); j++ {
		t := v.At(j)
		if t.Kind != token.Whitespace {
			continue
		}
		if first == b {
			first = j
		}
		if newline {
			continue
		}
		if i := strings.IndexByte(t.Text, '\n'); i >= 0 {
			newline = true
			got.WriteString(t.Text[:i])
			continue
		}
		got.WriteString(t.Text)
	}

	switch {
	case eol && !newline:
		return nextDeviation(a, b, v), false
	case eol || !spaces:
		return 0, true
	case newline:
		return first, false
	case got.String() != want.String():
		return first, false
	}
	return 0, true
}

func nextDeviation(a, b int, v *token.View) int {
	if a+1 < b {
		return a + 1
	}
	if b < v.Len() {
		return b
	}
	return a
}

// Found renders the matched stream region, with wildcard content elided.
func (p *Pattern) Found(v *token.View, m Match) string {
	var sb strings.Builder
	i := m.Start
	for i <= m.End && i < v.Len() {
		elided := false
		for e, w := range m.Wild {
			if p.Elems[e].Kind == ElemWildcard && w[1] > w[0] && i == w[0] {
				sb.WriteString(WildcardMarker)
				i = w[1]
				elided = true
				break
			}
		}
		if elided {
			continue
		}
		sb.WriteString(v.Text(i))
		i++
	}
	return strings.ReplaceAll(sb.String(), "\n", `\n`)
}

func nextCode(v *token.View, i int) int {
	for ; i < v.Len(); i++ {
		if !v.At(i).IsEmpty() {
			return i
		}
	}
	return v.Len()
}

func prevCode(v *token.View, i int) int {
	for ; i >= 0; i-- {
		if !v.At(i).IsEmpty() {
			return i
		}
	}
	return -1
}

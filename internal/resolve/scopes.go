package resolve

import (
	"sort"

	"tokensniff/internal/token"
)

// controlKinds may use PHP alternative syntax and brace-less bodies.
var controlKinds = token.NewKindSet(token.KwIf, token.KwElseIf, token.KwElse,
	token.KwFor, token.KwForeach, token.KwWhile, token.KwDo, token.KwSwitch, token.KwDeclare)

// statementKinds accept a brace-less single statement body.
var statementKinds = token.NewKindSet(token.KwIf, token.KwElseIf, token.KwElse,
	token.KwFor, token.KwForeach, token.KwWhile, token.KwDo)

// altEnd maps an alt-syntax owner to the keywords that close its scope.
var altEnd = map[token.Kind]token.KindSet{
	token.KwIf:      token.NewKindSet(token.KwElseIf, token.KwElse, token.KwEndIf),
	token.KwElseIf:  token.NewKindSet(token.KwElseIf, token.KwElse, token.KwEndIf),
	token.KwElse:    token.NewKindSet(token.KwEndIf),
	token.KwFor:     token.NewKindSet(token.KwEndFor),
	token.KwForeach: token.NewKindSet(token.KwEndForeach),
	token.KwWhile:   token.NewKindSet(token.KwEndWhile),
	token.KwSwitch:  token.NewKindSet(token.KwEndSwitch),
	token.KwDeclare: token.NewKindSet(token.KwEndDeclare),
}

// altOpenFamily maps an end keyword to the owners that nest against it.
var altOpenFamily = map[token.Kind]token.Kind{
	token.KwEndIf:      token.KwIf,
	token.KwEndFor:     token.KwFor,
	token.KwEndForeach: token.KwForeach,
	token.KwEndWhile:   token.KwWhile,
	token.KwEndSwitch:  token.KwSwitch,
	token.KwEndDeclare: token.KwDeclare,
}

type scopeFinder struct {
	s         *token.Stream
	toks      []token.Token
	enclosing []int
	memo      map[int]token.Scope
}

// find returns the scope owned by the keyword at i.
func (f *scopeFinder) find(i int) (token.Scope, bool) {
	if sc, ok := f.memo[i]; ok {
		return sc, sc.Kind != 0
	}
	sc, ok := f.compute(i)
	if !ok {
		sc = token.Scope{}
	}
	f.memo[i] = sc
	return sc, ok
}

func (f *scopeFinder) compute(i int) (token.Scope, bool) {
	k := f.toks[i].Kind
	switch k {
	case token.KwCase, token.KwDefault:
		return f.caseScope(i)
	case token.KwWhile:
		if f.isDoWhileTail(i) {
			return token.Scope{}, false
		}
	}

	opener, kind, ok := f.findOpener(i)
	if !ok {
		return token.Scope{}, false
	}
	sc := token.Scope{Owner: i, Opener: opener, Kind: kind, Parent: token.None}
	switch kind {
	case token.ScopeBrace:
		sc.Closer = f.toks[opener].BracketCloser
	case token.ScopeAlt:
		sc.Closer, ok = f.altCloser(i, opener)
	case token.ScopeStatement:
		sc.Closer, ok = f.statementCloser(opener)
	}
	return sc, ok
}

// findOpener walks from the owner to the start of its body, jumping over
// parenthesis and bracket pairs.
func (f *scopeFinder) findOpener(owner int) (int, token.ScopeKind, bool) {
	k := f.toks[owner].Kind
	control := controlKinds.Has(k)
	needsCondition := statementKinds.Has(k) && k != token.KwElse && k != token.KwDo
	conditionSeen := !needsCondition
	last := owner

	for j := owner + 1; j < len(f.toks); j++ {
		t := f.toks[j]
		switch {
		case t.IsEmpty():
			continue
		case t.Kind == token.OpenParen || t.Kind == token.OpenBracket || t.Kind == token.OpenAttribute:
			if t.Kind == token.OpenParen {
				conditionSeen = true
			}
			j = t.BracketCloser
			last = j
			continue
		case t.Kind == token.OpenCurly:
			return j, token.ScopeBrace, true
		case t.Kind == token.Colon && control && f.s.Grammar == token.PHP:
			return j, token.ScopeAlt, true
		case t.Kind == token.Semicolon || t.Kind == token.CloseTag:
			if statementKinds.Has(k) && conditionSeen {
				// пустое тело: "while ($x);"
				return last, token.ScopeStatement, true
			}
			return token.None, 0, false
		case t.Kind.IsCloser() || t.Kind == token.DoubleArrow:
			return token.None, 0, false
		case statementKinds.Has(k) && conditionSeen:
			return last, token.ScopeStatement, true
		}
		last = j
	}
	return token.None, 0, false
}

// statementCloser finds the end of a brace-less body: the terminating ';',
// or the closer of a control structure that forms the body.
func (f *scopeFinder) statementCloser(opener int) (int, bool) {
	first := nextCode(f.toks, opener)
	if first == token.None {
		return token.None, false
	}
	if controlKinds.Has(f.toks[first].Kind) || f.toks[first].Kind == token.KwTry {
		if sc, ok := f.find(first); ok {
			return f.chainEnd(sc), true
		}
	}
	for j := first; j < len(f.toks); j++ {
		t := f.toks[j]
		switch {
		case t.Kind == token.Semicolon || t.Kind == token.CloseTag:
			return j, true
		case t.Kind.IsOpener():
			j = t.BracketCloser
		case t.Kind.IsCloser():
			return token.None, false
		}
	}
	return token.None, false
}

// chainEnd extends a nested if/try body over its else/catch branches so an
// enclosing brace-less scope ends after the whole chain. A plain else or a
// finally ends the chain; a following else belongs to the enclosing if.
func (f *scopeFinder) chainEnd(sc token.Scope) int {
	end := sc.Closer
	if sc.Kind == token.ScopeAlt {
		return end
	}
	prev := f.toks[sc.Owner].Kind
	for {
		n := nextCode(f.toks, end)
		if n == token.None {
			return end
		}
		k := f.toks[n].Kind
		if !chainContinues(prev, k) {
			return end
		}
		next, ok := f.find(n)
		if !ok {
			return end
		}
		end, prev = next.Closer, k
	}
}

func chainContinues(prev, next token.Kind) bool {
	switch prev {
	case token.KwIf, token.KwElseIf:
		return next == token.KwElse || next == token.KwElseIf
	case token.KwTry, token.KwCatch:
		return next == token.KwCatch || next == token.KwFinally
	}
	return false
}

// altCloser finds the keyword that ends an alternative-syntax body,
// skipping nested alternative-syntax structures of the same family.
func (f *scopeFinder) altCloser(owner, opener int) (int, bool) {
	ends := altEnd[f.toks[owner].Kind]
	fam := f.family(owner)
	depth := 0
	for j := opener + 1; j < len(f.toks); j++ {
		t := f.toks[j]
		switch {
		case t.Kind.IsOpener():
			j = t.BracketCloser
		case t.Kind.IsCloser():
			return token.None, false
		case t.Kind == fam && f.isAlt(j):
			depth++
		case depth > 0 && altOpenFamily[t.Kind] == fam:
			depth--
		case depth == 0 && ends.Has(t.Kind) && !f.belongsToBraceChain(j):
			return j, true
		}
	}
	return token.None, false
}

func (f *scopeFinder) isAlt(i int) bool {
	_, kind, ok := f.findOpener(i)
	return ok && kind == token.ScopeAlt
}

// family returns the keyword whose nesting matters for owner's alt body.
func (f *scopeFinder) family(owner int) token.Kind {
	switch k := f.toks[owner].Kind; k {
	case token.KwElseIf, token.KwElse:
		return token.KwIf
	default:
		return k
	}
}

// belongsToBraceChain reports whether an else/elseif at j continues a
// brace-delimited if rather than an alternative-syntax one.
func (f *scopeFinder) belongsToBraceChain(j int) bool {
	k := f.toks[j].Kind
	if k != token.KwElse && k != token.KwElseIf {
		return false
	}
	p := prevCode(f.toks, j)
	if p == token.None || f.toks[p].Kind != token.CloseCurly {
		return false
	}
	o := f.toks[p].BracketOpener
	owner := f.braceOwner(o)
	if owner == token.None {
		return false
	}
	switch f.toks[owner].Kind {
	case token.KwIf, token.KwElseIf:
		return true
	}
	return false
}

// braceOwner returns the keyword owning the '{' at o, if any.
func (f *scopeFinder) braceOwner(o int) int {
	p := prevCode(f.toks, o)
	for p != token.None {
		t := f.toks[p]
		switch {
		case t.Kind == token.CloseParen && t.BracketOpener != token.None:
			if t.ParenOwner != token.None {
				return t.ParenOwner
			}
			p = prevCode(f.toks, t.BracketOpener)
			continue
		case token.ScopeOwners.Has(t.Kind):
			return p
		}
		return token.None
	}
	return token.None
}

// isDoWhileTail reports whether the while at i ends a do-while loop.
func (f *scopeFinder) isDoWhileTail(i int) bool {
	p := prevCode(f.toks, i)
	if p == token.None {
		return false
	}
	switch f.toks[p].Kind {
	case token.CloseCurly:
		return f.braceOwnerKind(f.toks[p].BracketOpener) == token.KwDo
	case token.Semicolon:
	default:
		return false
	}
	// do x(); while (...);
	for j := p - 1; j >= 0; j-- {
		t := f.toks[j]
		switch {
		case t.Kind == token.KwDo:
			return true
		case t.Kind == token.CloseParen || t.Kind == token.CloseBracket:
			j = t.BracketOpener
		case t.Kind == token.Semicolon || t.Kind == token.CloseCurly || t.Kind.IsOpener() ||
			t.Kind == token.OpenTag || t.Kind == token.CloseTag:
			return false
		}
	}
	return false
}

func (f *scopeFinder) braceOwnerKind(o int) token.Kind {
	if owner := f.braceOwner(o); owner != token.None {
		return f.toks[owner].Kind
	}
	return token.Invalid
}

// caseScope resolves a case/default body: from its ':' (or ';') to the
// next case/default of the same switch or the end of the switch.
func (f *scopeFinder) caseScope(i int) (token.Scope, bool) {
	if !f.inSwitch(i) {
		return token.Scope{}, false
	}
	opener := token.None
	for j := i + 1; j < len(f.toks) && opener == token.None; j++ {
		t := f.toks[j]
		switch {
		case t.Kind == token.Colon || t.Kind == token.Semicolon:
			opener = j
		case t.Kind.IsOpener():
			j = t.BracketCloser
		case t.Kind.IsCloser() || t.Kind == token.DoubleArrow:
			return token.Scope{}, false
		}
	}
	if opener == token.None {
		return token.Scope{}, false
	}
	for j := opener + 1; j < len(f.toks); j++ {
		t := f.toks[j]
		switch {
		case t.Kind == token.KwCase || t.Kind == token.KwDefault:
			if f.inSwitch(j) {
				return token.Scope{Owner: i, Opener: opener, Closer: j, Kind: token.ScopeCase, Parent: token.None}, true
			}
		case t.Kind == token.KwEndSwitch:
			return token.Scope{Owner: i, Opener: opener, Closer: j, Kind: token.ScopeCase, Parent: token.None}, true
		case t.Kind.IsOpener():
			j = t.BracketCloser
		case t.Kind.IsCloser():
			return token.Scope{Owner: i, Opener: opener, Closer: j, Kind: token.ScopeCase, Parent: token.None}, true
		}
	}
	return token.Scope{}, false
}

// inSwitch reports whether a case/default at i sits directly in a switch
// body (brace or alternative syntax).
func (f *scopeFinder) inSwitch(i int) bool {
	o := f.enclosing[i]
	if o != token.None && f.toks[o].Kind == token.OpenCurly && f.braceOwnerKind(o) == token.KwSwitch {
		return true
	}
	if f.s.Grammar != token.PHP {
		return false
	}
	// switch (...): case ...: endswitch;
	stop := 0
	if o != token.None {
		stop = o + 1
	}
	for j := i - 1; j >= stop; j-- {
		t := f.toks[j]
		switch {
		case t.Kind.IsCloser():
			j = t.BracketOpener
		case t.Kind == token.KwEndSwitch:
			return false
		case t.Kind == token.KwSwitch:
			return f.isAlt(j)
		}
	}
	return false
}

// buildScopes finds every owned scope and records it in the stream,
// ordered by owner.
func buildScopes(s *token.Stream, enclosing []int) {
	f := &scopeFinder{s: s, toks: s.Tokens, enclosing: enclosing, memo: map[int]token.Scope{}}
	for i, t := range s.Tokens {
		if !token.ScopeOwners.Has(t.Kind) {
			continue
		}
		if sc, ok := f.find(i); ok && sc.Closer != token.None && sc.Closer > sc.Opener {
			s.AddScope(sc)
		}
	}
	linkParents(s)
}

// linkParents sets Scope.Parent: the innermost scope whose body contains
// the scope's opener.
func linkParents(s *token.Stream) {
	order := make([]int, len(s.Scopes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := s.Scopes[order[a]], s.Scopes[order[b]]
		if sa.Opener != sb.Opener {
			return sa.Opener < sb.Opener
		}
		return sa.Closer > sb.Closer
	})
	var stack []int
	for _, id := range order {
		sc := &s.Scopes[id]
		for len(stack) > 0 && s.Scopes[stack[len(stack)-1]].Closer <= sc.Opener {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			sc.Parent = stack[len(stack)-1]
		}
		stack = append(stack, id)
	}
}

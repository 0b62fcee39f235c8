package resolve

import (
	"github.com/emirpasic/gods/v2/stacks/arraystack"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// pairBrackets links every opener with its closer. It also records, for
// every token, the innermost bracket opener enclosing it.
func pairBrackets(s *token.Stream) ([]int, error) {
	toks := s.Tokens
	enclosing := make([]int, len(toks))
	open := arraystack.New[int]()

	for i := range toks {
		top, ok := open.Peek()
		if !ok {
			top = token.None
		}
		enclosing[i] = top

		k := toks[i].Kind
		switch {
		case k.IsOpener():
			open.Push(i)
		case k.IsCloser():
			o, ok := open.Pop()
			if !ok {
				return nil, newError(s, diag.ResUnmatchedCloser, i, "unmatched closing %q", toks[i].Text)
			}
			if token.CloserFor(toks[o].Kind) != k {
				return nil, newError(s, diag.ResMismatchedCloser, i,
					"closing %q does not match %q opened on line %d", toks[i].Text, toks[o].Text, toks[o].Line)
			}
			toks[o].BracketOpener, toks[o].BracketCloser = o, i
			toks[i].BracketOpener, toks[i].BracketCloser = o, i
			// закрывающая скобка принадлежит внешнему уровню
			enclosing[i] = enclosing[o]
		}
	}
	if o, ok := open.Peek(); ok {
		return nil, newError(s, diag.ResUnclosedOpener, o, "%q is never closed", toks[o].Text)
	}
	return enclosing, nil
}

var parenOwners = token.NewKindSet(token.KwIf, token.KwElseIf, token.KwFor, token.KwForeach,
	token.KwWhile, token.KwSwitch, token.KwCatch, token.KwFunction, token.KwFn, token.KwMatch,
	token.KwDeclare, token.KwArray, token.KwList)

// assignParenOwners marks the keyword owning each parenthesis pair.
// A named function owns its parameter list through the name.
func assignParenOwners(s *token.Stream) {
	toks := s.Tokens
	for i := range toks {
		if toks[i].Kind != token.OpenParen {
			continue
		}
		p := prevCode(toks, i)
		if p == token.None {
			continue
		}
		owner := token.None
		switch {
		case parenOwners.Has(toks[p].Kind):
			owner = p
		case toks[p].Kind == token.Ident:
			if pp := prevCode(toks, p); pp != token.None && toks[pp].Kind == token.KwFunction {
				owner = pp
			}
		}
		if owner == token.None {
			continue
		}
		toks[i].ParenOwner = owner
		if c := toks[i].BracketCloser; c != token.None {
			toks[c].ParenOwner = owner
		}
	}
}

func prevCode(toks []token.Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if !toks[j].IsEmpty() {
			return j
		}
	}
	return token.None
}

func nextCode(toks []token.Token, i int) int {
	for j := i + 1; j < len(toks); j++ {
		if !toks[j].IsEmpty() {
			return j
		}
	}
	return token.None
}

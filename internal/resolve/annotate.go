package resolve

import (
	"sort"

	"tokensniff/internal/token"
)

// annotateScopes copies the scope table onto the tokens.
//
// Tokens inside a scope get the innermost enclosing scope. An opener or
// closer gets the scope it delimits (the first one by owner wins when a
// token delimits two). An owner always gets the scope it owns.
func annotateScopes(s *token.Stream) {
	toks := s.Tokens
	if len(s.Scopes) == 0 {
		return
	}

	byOpener := make([]int, len(s.Scopes))
	for i := range byOpener {
		byOpener[i] = i
	}
	sort.SliceStable(byOpener, func(a, b int) bool {
		sa, sb := s.Scopes[byOpener[a]], s.Scopes[byOpener[b]]
		if sa.Opener != sb.Opener {
			return sa.Opener < sb.Opener
		}
		return sa.Closer > sb.Closer
	})

	var stack []int
	next := 0
	for i := range toks {
		for len(stack) > 0 && s.Scopes[stack[len(stack)-1]].Closer <= i {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			setScope(&toks[i], s.Scopes[stack[len(stack)-1]])
		}
		for next < len(byOpener) && s.Scopes[byOpener[next]].Opener == i {
			stack = append(stack, byOpener[next])
			next++
		}
	}

	claimed := make(map[int]bool, 2*len(s.Scopes))
	for _, sc := range s.Scopes {
		for _, i := range [...]int{sc.Opener, sc.Closer} {
			if claimed[i] || i == sc.Owner {
				continue
			}
			claimed[i] = true
			delimit(&toks[i], sc)
		}
	}
	for _, sc := range s.Scopes {
		delimit(&toks[sc.Owner], sc)
	}
}

func setScope(t *token.Token, sc token.Scope) {
	t.Scope = sc.ID
	delimit(t, sc)
}

func delimit(t *token.Token, sc token.Scope) {
	t.ScopeCondition = sc.Owner
	t.ScopeOpener = sc.Opener
	t.ScopeCloser = sc.Closer
}

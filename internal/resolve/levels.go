package resolve

import "tokensniff/internal/token"

// assignLevels sets Token.Level: the number of bracket pairs and non-brace
// scopes strictly enclosing each token. A brace scope is already counted
// through its { } pair.
func assignLevels(s *token.Stream) {
	toks := s.Tokens
	diff := make([]int, len(toks)+1)
	for i, t := range toks {
		if t.Kind.IsOpener() && t.BracketCloser > i {
			diff[i+1]++
			diff[t.BracketCloser]--
		}
	}
	for _, sc := range s.Scopes {
		if sc.Kind == token.ScopeBrace {
			continue
		}
		diff[sc.Opener+1]++
		diff[sc.Closer]--
	}
	level := 0
	for i := range toks {
		level += diff[i]
		toks[i].Level = level
	}
}

// notShortBefore are tokens after which '[' indexes a value rather than
// opening an array literal.
var notShortBefore = token.NewKindSet(token.Variable, token.Ident, token.String,
	token.InterpolatedString, token.Template, token.EndHeredoc, token.EndNowdoc,
	token.CloseParen, token.CloseBracket, token.CloseCurly)

// markShortArrays flags '[' ']' pairs that open array literals.
func markShortArrays(s *token.Stream) {
	if s.Grammar == token.CSS {
		return
	}
	toks := s.Tokens
	for i, t := range toks {
		if t.Kind != token.OpenBracket || t.BracketCloser == token.None {
			continue
		}
		if p := prevCode(toks, i); p != token.None && notShortBefore.Has(toks[p].Kind) {
			continue
		}
		toks[i].ShortArray = true
		toks[t.BracketCloser].ShortArray = true
	}
}

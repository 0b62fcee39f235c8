package lexer

import (
	"tokensniff/internal/suppress"
	"tokensniff/internal/token"
)

// collectSuppressions turns marker comments into the stream's suppression
// set. A marker is trailing when code precedes it on the same line.
func collectSuppressions(s *token.Stream) {
	for i, t := range s.Tokens {
		if !token.CommentKinds.Has(t.Kind) {
			continue
		}
		d, ok := suppress.Parse(t.Text)
		if !ok {
			continue
		}
		trailing := trailingComment(s.Tokens, i)
		line := t.Line
		if !trailing {
			line = t.EndLine()
		}
		s.Suppress.Apply(d, line, trailing)
	}
}

func trailingComment(toks []token.Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		t := toks[j]
		if t.Line != toks[i].Line || t.HasNewline() {
			return false
		}
		if t.Kind == token.Whitespace || t.Kind == token.OpenTag {
			continue
		}
		return true
	}
	return false
}

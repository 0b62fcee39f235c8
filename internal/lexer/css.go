package lexer

import (
	"tokensniff/internal/token"
)

func (lx *Lexer) nextCSS() error {
	b, next := lx.cursor.Peek(), lx.cursor.PeekAt(1)
	switch {
	case isSpace(b):
		return lx.scanWhitespace()

	case b == '/' && next == '*':
		return lx.scanBlockComment()

	case b == '\'' || b == '"':
		return lx.scanQuoted(b, false)

	case b == '#' && isIdentContinue(token.CSS, next):
		return lx.scanPrefixed(token.Hash)

	case b == '@' && isIdentStart(token.CSS, next):
		return lx.scanPrefixed(token.AtRule)

	case b == '!' && lx.importantAhead():
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		for isSpace(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.cursor.BumpN(len("important"))
		_, err := lx.emit(token.Important, start)
		return err

	case lx.cursor.HasPrefixFold("url("):
		return lx.scanURL()

	case lx.numberAhead():
		return lx.scanNumber()

	case b == '-' && (isDec(next) || (next == '.' && isDec(lx.cursor.PeekAt(2)))):
		// -5px: знак остаётся отдельным токеном
		return lx.scanOperatorOrPunct()

	case isIdentStart(token.CSS, b):
		return lx.scanIdentOrKeyword()

	default:
		return lx.scanOperatorOrPunct()
	}
}

// scanPrefixed reads '#name' or '@name'.
func (lx *Lexer) scanPrefixed(k token.Kind) error {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinue(token.CSS, lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	_, err := lx.emit(k, start)
	return err
}

func (lx *Lexer) importantAhead() bool {
	n := uint32(1)
	for isSpace(lx.cursor.PeekAt(n)) && lx.cursor.PeekAt(n) != '\n' {
		n++
	}
	m := lx.cursor.Mark()
	defer lx.cursor.Reset(m)
	lx.cursor.Off += n
	if !lx.cursor.HasPrefixFold("important") {
		return false
	}
	return !isIdentContinue(token.CSS, lx.cursor.PeekAt(uint32(len("important"))))
}

// retypeStyles marks property names: an identifier that starts a
// declaration ('{' or ';' before it), is followed by ':' and whose
// declaration ends before any '{' (so "a:hover {" stays a selector).
func retypeStyles(s *token.Stream) {
	toks := s.Tokens
	for i := range toks {
		if toks[i].Kind != token.Ident {
			continue
		}
		p := prevCode(toks, i)
		if p == token.None || (toks[p].Kind != token.OpenCurly && toks[p].Kind != token.Semicolon) {
			continue
		}
		n := nextCode(toks, i)
		if n == token.None || toks[n].Kind != token.Colon {
			continue
		}
		if declarationEnds(toks, n) {
			toks[i].Kind = token.Style
		}
	}
}

func declarationEnds(toks []token.Token, from int) bool {
	for j := from + 1; j < len(toks); j++ {
		switch toks[j].Kind {
		case token.Semicolon, token.CloseCurly:
			return true
		case token.OpenCurly:
			return false
		}
	}
	return true
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

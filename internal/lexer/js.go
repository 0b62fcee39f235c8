package lexer

import (
	"tokensniff/internal/token"
)

func (lx *Lexer) nextJS() error {
	b, next := lx.cursor.Peek(), lx.cursor.PeekAt(1)
	switch {
	case isSpace(b):
		return lx.scanWhitespace()

	case b == '/' && next == '/':
		return lx.scanLineComment(2)

	case b == '/' && next == '*':
		return lx.scanBlockComment()

	case b == '/' && lx.regexAllowed():
		ok, err := lx.scanRegex()
		if err != nil || ok {
			return err
		}
		return lx.scanOperatorOrPunct()

	case b == '\'' || b == '"':
		return lx.scanQuoted(b, false)

	case b == '`':
		return lx.scanTemplate()

	case lx.numberAhead():
		return lx.scanNumber()

	case b == '#' && isIdentStart(token.JS, next):
		// приватные поля классов: #name
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		for isIdentContinue(token.JS, lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		_, err := lx.emit(token.Ident, start)
		return err

	case isIdentStart(token.JS, b):
		return lx.scanIdentOrKeyword()

	default:
		return lx.scanOperatorOrPunct()
	}
}

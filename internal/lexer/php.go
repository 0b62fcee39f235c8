package lexer

import (
	"tokensniff/internal/token"
)

func (lx *Lexer) nextPHP() error {
	if !lx.inCode {
		return lx.scanInlineHTML()
	}

	b, next := lx.cursor.Peek(), lx.cursor.PeekAt(1)
	switch {
	case isSpace(b):
		return lx.scanWhitespace()

	case b == '?' && next == '>':
		start := lx.cursor.Mark()
		lx.cursor.BumpN(2)
		lx.inCode = false
		_, err := lx.emit(token.CloseTag, start)
		return err

	case b == '#' && next == '[':
		start := lx.cursor.Mark()
		lx.cursor.BumpN(2)
		_, err := lx.emit(token.OpenAttribute, start)
		return err

	case b == '#':
		return lx.scanLineComment(1)

	case b == '/' && next == '/':
		return lx.scanLineComment(2)

	case b == '/' && next == '*':
		return lx.scanBlockComment()

	case b == '$' && isIdentStart(token.PHP, next):
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		for isIdentContinue(token.PHP, lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		_, err := lx.emit(token.Variable, start)
		return err

	case b == '$':
		// $$name и ${expr}: одиночный доллар
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		_, err := lx.emit(token.Variable, start)
		return err

	case b == '\'':
		return lx.scanQuoted('\'', true)

	case b == '"' || b == '`':
		return lx.scanDoubleQuoted(b)

	case b == '<' && next == '<':
		if label, nowdoc, ok := lx.heredocLabel(); ok {
			return lx.scanHeredoc(label, nowdoc)
		}
		return lx.scanOperatorOrPunct()

	case lx.numberAhead():
		return lx.scanNumber()

	case isIdentStart(token.PHP, b):
		return lx.scanIdentOrKeyword()

	default:
		return lx.scanOperatorOrPunct()
	}
}

package lexer

import (
	"tokensniff/internal/token"
)

func isIdentStart(g token.Grammar, b byte) bool {
	switch {
	case b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b >= 0x80:
		return true
	case b == '$':
		return g == token.JS
	case b == '-':
		return g == token.CSS
	default:
		return false
	}
}

func isIdentContinue(g token.Grammar, b byte) bool {
	return isIdentStart(g, b) || isDec(b)
}

// scanIdentOrKeyword reads an identifier and resolves keywords. A keyword
// used as a member name (after ->, ?->, :: or a JS '.') or as a PHP
// function name stays an identifier.
func (lx *Lexer) scanIdentOrKeyword() error {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinue(lx.g, lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	kind := token.Ident
	if kw, ok := token.LookupKeyword(lx.g, text); ok && !lx.memberNamePosition() {
		kind = kw
	}
	_, err := lx.emit(kind, start)
	return err
}

func (lx *Lexer) memberNamePosition() bool {
	switch lx.prevKind() {
	case token.ObjectOperator, token.NullsafeOperator, token.DoubleColon:
		return true
	case token.KwFunction:
		return lx.g == token.PHP
	default:
		return false
	}
}

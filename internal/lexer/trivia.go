package lexer

import (
	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// scanWhitespace emits one whitespace token. The token ends right after a
// newline, so a whitespace token holds at most one '\n', at its end.
func (lx *Lexer) scanWhitespace() error {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if !isSpace(b) {
			break
		}
		lx.cursor.Bump()
		if b == '\n' {
			break
		}
	}
	_, err := lx.emit(token.Whitespace, start)
	return err
}

// scanLineComment consumes a //... or #... comment up to (not including)
// the newline. In PHP a close tag also ends the comment.
func (lx *Lexer) scanLineComment(prefixLen int) error {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(prefixLen)
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || (b == '\r' && lx.cursor.PeekAt(1) == '\n') {
			break
		}
		if lx.g == token.PHP && lx.cursor.HasPrefix("?>") {
			break
		}
		lx.cursor.Bump()
	}
	_, err := lx.emit(token.Comment, start)
	return err
}

// scanBlockComment consumes /* ... */; /** ... */ is a doc comment.
func (lx *Lexer) scanBlockComment() error {
	start := lx.cursor.Mark()
	kind := token.Comment
	if lx.cursor.HasPrefix("/**") && !lx.cursor.HasPrefix("/**/") {
		kind = token.DocComment
	}
	lx.cursor.BumpN(2)
	for {
		if lx.cursor.EOF() {
			return lx.fail(diag.TokUnterminatedComment, start, "unterminated comment")
		}
		if lx.cursor.HasPrefix("*/") {
			lx.cursor.BumpN(2)
			break
		}
		lx.cursor.Bump()
	}
	_, err := lx.emit(kind, start)
	return err
}

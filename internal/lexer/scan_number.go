package lexer

import (
	"tokensniff/internal/token"
)

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// numberAhead reports whether a number starts at the cursor, including ".5".
func (lx *Lexer) numberAhead() bool {
	b := lx.cursor.Peek()
	return isDec(b) || (b == '.' && isDec(lx.cursor.PeekAt(1)))
}

// scanNumber reads integers (dec/hex/bin/oct, '_' separators), floats with
// exponent, a JS BigInt suffix and a CSS unit or percent suffix.
func (lx *Lexer) scanNumber() error {
	start := lx.cursor.Mark()

	switch p := lx.cursor.PeekAt(1); {
	case lx.cursor.Peek() == '0' && (p == 'x' || p == 'X' || p == 'b' || p == 'B' || p == 'o' || p == 'O'):
		lx.cursor.BumpN(2)
		for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	default:
		lx.digits()
		if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			lx.digits()
		}
		if e := lx.cursor.Peek(); e == 'e' || e == 'E' {
			next := lx.cursor.PeekAt(1)
			switch {
			case isDec(next):
				lx.cursor.Bump()
				lx.digits()
			case (next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2)):
				lx.cursor.BumpN(2)
				lx.digits()
			}
		}
	}

	switch lx.g {
	case token.JS:
		lx.cursor.Eat('n')
	case token.CSS:
		if !lx.cursor.Eat('%') {
			for isLetter(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}
	_, err := lx.emit(token.Number, start)
	return err
}

func (lx *Lexer) digits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

package lexer

import (
	"strings"
	"unicode/utf8"

	"tokensniff/internal/token"
)

type op struct {
	text string
	kind token.Kind
}

// Жадность: таблицы упорядочены от длинных операторов к коротким.
var phpOps = []op{
	{"<=>", token.Spaceship}, {"===", token.IsIdentical}, {"!==", token.IsNotIdentical},
	{"**=", token.PowEqual}, {"<<=", token.ShiftLeftEqual}, {">>=", token.ShiftRightEqual},
	{"??=", token.CoalesceEqual}, {"?->", token.NullsafeOperator}, {"...", token.Ellipsis},
	{"==", token.IsEqual}, {"!=", token.IsNotEqual}, {"<>", token.IsNotEqual},
	{"<=", token.LessEqual}, {">=", token.GreaterEqual}, {"&&", token.BooleanAnd},
	{"||", token.BooleanOr}, {"++", token.Inc}, {"--", token.Dec}, {"+=", token.PlusEqual},
	{"-=", token.MinusEqual}, {"*=", token.MulEqual}, {"/=", token.DivEqual},
	{"%=", token.ModEqual}, {".=", token.ConcatEqual}, {"&=", token.AndEqual},
	{"|=", token.OrEqual}, {"^=", token.XorEqual}, {"**", token.Pow}, {"<<", token.ShiftLeft},
	{">>", token.ShiftRight}, {"->", token.ObjectOperator}, {"=>", token.DoubleArrow},
	{"::", token.DoubleColon}, {"??", token.Coalesce}, {"?:", token.Elvis},
	{"(", token.OpenParen}, {")", token.CloseParen}, {"[", token.OpenBracket},
	{"]", token.CloseBracket}, {"{", token.OpenCurly}, {"}", token.CloseCurly},
	{";", token.Semicolon}, {",", token.Comma}, {":", token.Colon}, {".", token.Concat},
	{"?", token.InlineThen}, {"=", token.Equal}, {"<", token.Less}, {">", token.Greater},
	{"+", token.Plus}, {"-", token.Minus}, {"*", token.Multiply}, {"/", token.Divide},
	{"%", token.Modulus}, {"!", token.BooleanNot}, {"&", token.BitAnd}, {"|", token.BitOr},
	{"^", token.BitXor}, {"~", token.BitNot}, {"@", token.At}, {"\\", token.NsSeparator},
}

var jsOps = []op{
	{">>>=", token.ShiftRightEqual},
	{"===", token.IsIdentical}, {"!==", token.IsNotIdentical}, {"**=", token.PowEqual},
	{"<<=", token.ShiftLeftEqual}, {">>=", token.ShiftRightEqual}, {"??=", token.CoalesceEqual},
	{">>>", token.ShiftRight}, {"...", token.Ellipsis},
	{"==", token.IsEqual}, {"!=", token.IsNotEqual}, {"<=", token.LessEqual},
	{">=", token.GreaterEqual}, {"&&", token.BooleanAnd}, {"||", token.BooleanOr},
	{"++", token.Inc}, {"--", token.Dec}, {"+=", token.PlusEqual}, {"-=", token.MinusEqual},
	{"*=", token.MulEqual}, {"/=", token.DivEqual}, {"%=", token.ModEqual},
	{"&=", token.AndEqual}, {"|=", token.OrEqual}, {"^=", token.XorEqual},
	{"**", token.Pow}, {"<<", token.ShiftLeft}, {">>", token.ShiftRight},
	{"=>", token.DoubleArrow}, {"?.", token.NullsafeOperator}, {"??", token.Coalesce},
	{"(", token.OpenParen}, {")", token.CloseParen}, {"[", token.OpenBracket},
	{"]", token.CloseBracket}, {"{", token.OpenCurly}, {"}", token.CloseCurly},
	{";", token.Semicolon}, {",", token.Comma}, {":", token.Colon}, {".", token.ObjectOperator},
	{"?", token.InlineThen}, {"=", token.Equal}, {"<", token.Less}, {">", token.Greater},
	{"+", token.Plus}, {"-", token.Minus}, {"*", token.Multiply}, {"/", token.Divide},
	{"%", token.Modulus}, {"!", token.BooleanNot}, {"&", token.BitAnd}, {"|", token.BitOr},
	{"^", token.BitXor}, {"~", token.BitNot}, {"@", token.At},
}

var cssOps = []op{
	{"::", token.DoubleColon}, {"^=", token.XorEqual}, {"|=", token.OrEqual}, {"*=", token.MulEqual},
	{"(", token.OpenParen}, {")", token.CloseParen}, {"[", token.OpenBracket},
	{"]", token.CloseBracket}, {"{", token.OpenCurly}, {"}", token.CloseCurly},
	{";", token.Semicolon}, {",", token.Comma}, {":", token.Colon}, {".", token.Concat},
	{"=", token.Equal}, {">", token.Greater}, {"+", token.Plus}, {"-", token.Minus}, {"~", token.BitNot},
	{"*", token.Multiply}, {"/", token.Divide}, {"%", token.Modulus}, {"!", token.BooleanNot},
	{"&", token.BitAnd}, {"|", token.BitOr},
}

func (lx *Lexer) ops() []op {
	switch lx.g {
	case token.PHP:
		return phpOps
	case token.JS:
		return jsOps
	default:
		return cssOps
	}
}

// scanOperatorOrPunct emits the longest operator at the cursor. Unknown
// characters become a one-rune Invalid token; they are not fatal.
func (lx *Lexer) scanOperatorOrPunct() error {
	start := lx.cursor.Mark()
	kind := token.Invalid
	for _, o := range lx.ops() {
		if !lx.cursor.HasPrefix(o.text) {
			continue
		}
		// "?.5" в JS: это тернарный оператор перед числом
		if o.kind == token.NullsafeOperator && lx.g == token.JS && isDec(lx.cursor.PeekAt(2)) {
			continue
		}
		lx.cursor.BumpN(len(o.text))
		kind = o.kind
		break
	}
	if kind == token.Invalid {
		_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		lx.cursor.BumpN(max(size, 1))
	}

	switch kind {
	case token.InlineThen:
		if lx.nullablePosition() {
			kind = token.Nullable
		}
	case token.Colon:
		if n := len(lx.ternary); n > 0 && lx.ternary[n-1] == lx.depth {
			lx.ternary = lx.ternary[:n-1]
			kind = token.InlineElse
		}
	}
	_, err := lx.emit(kind, start)
	return err
}

// nullablePosition reports whether a PHP '?' just consumed marks a
// nullable type: it follows '(' ',' ':' or a modifier and precedes a type
// name.
func (lx *Lexer) nullablePosition() bool {
	if lx.g != token.PHP {
		return false
	}
	switch lx.prevKind() {
	case token.OpenParen, token.Comma, token.Colon,
		token.KwPublic, token.KwPrivate, token.KwProtected, token.KwStatic, token.KwVar, token.KwConst:
	case token.Ident:
		if !strings.EqualFold(lx.s.Tokens[lx.prev].Text, "readonly") {
			return false
		}
	default:
		return false
	}
	var n uint32
	for isSpace(lx.cursor.PeekAt(n)) {
		n++
	}
	b := lx.cursor.PeekAt(n)
	return b == '\\' || isIdentStart(token.PHP, b)
}

package token

import "strings"

// KindSet is a fixed-size bit set of token kinds.
type KindSet [4]uint64

// NewKindSet returns a set containing kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// With returns a copy of s with k added.
func (s KindSet) With(k Kind) KindSet {
	s[k>>6] |= 1 << (k & 63)
	return s
}

// Has reports whether k is in s.
func (s KindSet) Has(k Kind) bool {
	return s[k>>6]&(1<<(k&63)) != 0
}

// Union returns s ∪ o.
func (s KindSet) Union(o KindSet) KindSet {
	for i := range s {
		s[i] |= o[i]
	}
	return s
}

// Empty reports whether the set holds no kinds.
func (s KindSet) Empty() bool {
	return s == KindSet{}
}

// Kinds lists the members in ascending order.
func (s KindSet) Kinds() []Kind {
	var out []Kind
	for k := 0; k < KindCount; k++ {
		if s.Has(Kind(k)) {
			out = append(out, Kind(k))
		}
	}
	return out
}

func (s KindSet) String() string {
	names := make([]string, 0, 8)
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

var (
	// EmptyKinds are tokens without code: whitespace and comments.
	EmptyKinds = NewKindSet(Whitespace, Comment, DocComment)

	// CommentKinds are comments of any style.
	CommentKinds = NewKindSet(Comment, DocComment)

	// LiteralKinds are number and string-like literals.
	LiteralKinds = NewKindSet(Number, String, InterpolatedString, Template, Regex,
		StartHeredoc, Heredoc, EndHeredoc, StartNowdoc, Nowdoc, EndNowdoc)

	// OOKinds declare classes and class-likes.
	OOKinds = NewKindSet(KwClass, KwInterface, KwTrait, KwEnum)

	// ScopeOwners are keywords that may own a scope.
	ScopeOwners = NewKindSet(KwIf, KwElseIf, KwElse, KwFor, KwForeach, KwWhile, KwDo,
		KwSwitch, KwCase, KwDefault, KwFunction, KwClass, KwInterface, KwTrait, KwEnum,
		KwNamespace, KwTry, KwCatch, KwFinally, KwMatch, KwDeclare)

	// OpenerKinds open a bracket pair.
	OpenerKinds = NewKindSet(OpenParen, OpenBracket, OpenCurly, OpenAttribute)

	// CloserKinds close a bracket pair.
	CloserKinds = NewKindSet(CloseParen, CloseBracket, CloseCurly)

	// StatementEnds terminate a statement.
	StatementEnds = NewKindSet(Semicolon, CloseTag)
)

// AssignmentKinds are the assignment operators.
var AssignmentKinds = NewKindSet(Equal, PlusEqual, MinusEqual, MulEqual, DivEqual, ModEqual,
	ConcatEqual, AndEqual, OrEqual, XorEqual, CoalesceEqual, PowEqual, ShiftLeftEqual, ShiftRightEqual)

package token

// Kind represents the category of a source token.
// Kinds are shared by all grammars; a grammar simply never produces some of them.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota

	// Whitespace holds spaces, tabs and at most one trailing newline.
	Whitespace
	// Comment is a line or block comment.
	Comment
	// DocComment is a /** ... */ block.
	DocComment
	// OpenTag is the PHP <?php or <?= tag.
	OpenTag
	// CloseTag is the PHP ?> tag.
	CloseTag
	// InlineHTML is text outside PHP tags.
	InlineHTML

	// Ident is an identifier (T_STRING in PHP terms).
	Ident
	// Variable is a PHP $variable.
	Variable

	// Number is an integer or float literal (CSS dimensions included).
	Number
	// String is a quoted string without interpolation.
	String
	// InterpolatedString is a double quoted PHP string containing variables.
	InterpolatedString
	// Template is a JS template literal.
	Template
	// Regex is a JS regular expression literal.
	Regex
	// StartHeredoc is the <<<ID line opener.
	StartHeredoc
	// Heredoc is one body line of a heredoc.
	Heredoc
	// EndHeredoc is the closing heredoc identifier.
	EndHeredoc
	// StartNowdoc is the <<<'ID' line opener.
	StartNowdoc
	// Nowdoc is one body line of a nowdoc.
	Nowdoc
	// EndNowdoc is the closing nowdoc identifier.
	EndNowdoc

	// KwAbstract represents the 'abstract' keyword.
	KwAbstract
	// KwArray represents the PHP 'array' keyword.
	KwArray
	// KwAs represents the 'as' keyword.
	KwAs
	// KwBreak represents the 'break' keyword.
	KwBreak
	// KwCase represents the 'case' keyword.
	KwCase
	// KwCatch represents the 'catch' keyword.
	KwCatch
	// KwClass represents the 'class' keyword.
	KwClass
	// KwConst represents the 'const' keyword.
	KwConst
	// KwContinue represents the 'continue' keyword.
	KwContinue
	// KwDeclare represents the PHP 'declare' keyword.
	KwDeclare
	// KwDefault represents the 'default' keyword.
	KwDefault
	// KwDo represents the 'do' keyword.
	KwDo
	// KwEcho represents the PHP 'echo' keyword.
	KwEcho
	// KwElse represents the 'else' keyword.
	KwElse
	// KwElseIf represents the PHP 'elseif' keyword.
	KwElseIf
	// KwEndDeclare represents the PHP 'enddeclare' keyword.
	KwEndDeclare
	// KwEndFor represents the PHP 'endfor' keyword.
	KwEndFor
	// KwEndForeach represents the PHP 'endforeach' keyword.
	KwEndForeach
	// KwEndIf represents the PHP 'endif' keyword.
	KwEndIf
	// KwEndSwitch represents the PHP 'endswitch' keyword.
	KwEndSwitch
	// KwEndWhile represents the PHP 'endwhile' keyword.
	KwEndWhile
	// KwEnum represents the PHP 'enum' keyword.
	KwEnum
	// KwExtends represents the 'extends' keyword.
	KwExtends
	// KwFinal represents the PHP 'final' keyword.
	KwFinal
	// KwFinally represents the 'finally' keyword.
	KwFinally
	// KwFn represents the PHP arrow function 'fn' keyword.
	KwFn
	// KwFor represents the 'for' keyword.
	KwFor
	// KwForeach represents the PHP 'foreach' keyword.
	KwForeach
	// KwFunction represents the 'function' keyword.
	KwFunction
	// KwIf represents the 'if' keyword.
	KwIf
	// KwImplements represents the 'implements' keyword.
	KwImplements
	// KwInstanceof represents the 'instanceof' keyword.
	KwInstanceof
	// KwInterface represents the 'interface' keyword.
	KwInterface
	// KwLet represents the JS 'let' keyword.
	KwLet
	// KwList represents the PHP 'list' keyword.
	KwList
	// KwMatch represents the PHP 'match' keyword.
	KwMatch
	// KwNamespace represents the PHP 'namespace' keyword.
	KwNamespace
	// KwNew represents the 'new' keyword.
	KwNew
	// KwPrivate represents the 'private' keyword.
	KwPrivate
	// KwProtected represents the 'protected' keyword.
	KwProtected
	// KwPublic represents the 'public' keyword.
	KwPublic
	// KwReturn represents the 'return' keyword.
	KwReturn
	// KwStatic represents the 'static' keyword.
	KwStatic
	// KwSwitch represents the 'switch' keyword.
	KwSwitch
	// KwThrow represents the 'throw' keyword.
	KwThrow
	// KwTrait represents the PHP 'trait' keyword.
	KwTrait
	// KwTry represents the 'try' keyword.
	KwTry
	// KwTypeof represents the JS 'typeof' keyword.
	KwTypeof
	// KwUse represents the PHP 'use' keyword.
	KwUse
	// KwVar represents the 'var' keyword.
	KwVar
	// KwWhile represents the 'while' keyword.
	KwWhile

	OpenParen        // (
	CloseParen       // )
	OpenBracket      // [
	CloseBracket     // ]
	OpenCurly        // {
	CloseCurly       // }
	OpenAttribute    // #[
	Semicolon        // ;
	Comma            // ,
	Colon            // :
	DoubleColon      // ::
	ObjectOperator   // -> (PHP), . (JS)
	NullsafeOperator // ?->, ?.
	DoubleArrow      // =>
	Equal            // =
	PlusEqual        // +=
	MinusEqual       // -=
	MulEqual         // *=
	DivEqual         // /=
	ModEqual         // %=
	ConcatEqual      // .=
	AndEqual         // &=
	OrEqual          // |=
	XorEqual         // ^=
	CoalesceEqual    // ??=
	PowEqual         // **=
	ShiftLeftEqual   // <<=
	ShiftRightEqual  // >>=
	IsEqual          // ==
	IsIdentical      // ===
	IsNotEqual       // != or <>
	IsNotIdentical   // !==
	Less             // <
	Greater          // >
	LessEqual        // <=
	GreaterEqual     // >=
	Spaceship        // <=>
	BooleanAnd       // &&
	BooleanOr        // ||
	BooleanNot       // !
	Plus             // +
	Minus            // -
	Multiply         // *
	Divide           // /
	Modulus          // %
	Pow              // **
	Concat           // . (PHP)
	Inc              // ++
	Dec              // --
	BitAnd           // &
	BitOr            // |
	BitXor           // ^
	BitNot           // ~
	ShiftLeft        // <<
	ShiftRight       // >>
	InlineThen       // ? of a ternary
	InlineElse       // : of a ternary
	Elvis            // ?:
	Coalesce         // ??
	Nullable         // ? before a PHP type
	At               // @
	NsSeparator      // \
	Ellipsis         // ...

	// Style is a CSS property name.
	Style
	// Hash is a CSS #token (colour or id selector).
	Hash
	// AtRule is a CSS @keyword.
	AtRule
	// URL is a CSS url(...) value.
	URL
	// Important is the CSS !important marker.
	Important

	kindCount
)

// KindCount is the number of declared kinds.
const KindCount = int(kindCount)

var kindNames = [...]string{
	Invalid:            "Invalid",
	Whitespace:         "Whitespace",
	Comment:            "Comment",
	DocComment:         "DocComment",
	OpenTag:            "OpenTag",
	CloseTag:           "CloseTag",
	InlineHTML:         "InlineHTML",
	Ident:              "Ident",
	Variable:           "Variable",
	Number:             "Number",
	String:             "String",
	InterpolatedString: "InterpolatedString",
	Template:           "Template",
	Regex:              "Regex",
	StartHeredoc:       "StartHeredoc",
	Heredoc:            "Heredoc",
	EndHeredoc:         "EndHeredoc",
	StartNowdoc:        "StartNowdoc",
	Nowdoc:             "Nowdoc",
	EndNowdoc:          "EndNowdoc",
	KwAbstract:         "KwAbstract",
	KwArray:            "KwArray",
	KwAs:               "KwAs",
	KwBreak:            "KwBreak",
	KwCase:             "KwCase",
	KwCatch:            "KwCatch",
	KwClass:            "KwClass",
	KwConst:            "KwConst",
	KwContinue:         "KwContinue",
	KwDeclare:          "KwDeclare",
	KwDefault:          "KwDefault",
	KwDo:               "KwDo",
	KwEcho:             "KwEcho",
	KwElse:             "KwElse",
	KwElseIf:           "KwElseIf",
	KwEndDeclare:       "KwEndDeclare",
	KwEndFor:           "KwEndFor",
	KwEndForeach:       "KwEndForeach",
	KwEndIf:            "KwEndIf",
	KwEndSwitch:        "KwEndSwitch",
	KwEndWhile:         "KwEndWhile",
	KwEnum:             "KwEnum",
	KwExtends:          "KwExtends",
	KwFinal:            "KwFinal",
	KwFinally:          "KwFinally",
	KwFn:               "KwFn",
	KwFor:              "KwFor",
	KwForeach:          "KwForeach",
	KwFunction:         "KwFunction",
	KwIf:               "KwIf",
	KwImplements:       "KwImplements",
	KwInstanceof:       "KwInstanceof",
	KwInterface:        "KwInterface",
	KwLet:              "KwLet",
	KwList:             "KwList",
	KwMatch:            "KwMatch",
	KwNamespace:        "KwNamespace",
	KwNew:              "KwNew",
	KwPrivate:          "KwPrivate",
	KwProtected:        "KwProtected",
	KwPublic:           "KwPublic",
	KwReturn:           "KwReturn",
	KwStatic:           "KwStatic",
	KwSwitch:           "KwSwitch",
	KwThrow:            "KwThrow",
	KwTrait:            "KwTrait",
	KwTry:              "KwTry",
	KwTypeof:           "KwTypeof",
	KwUse:              "KwUse",
	KwVar:              "KwVar",
	KwWhile:            "KwWhile",
	OpenParen:          "OpenParen",
	CloseParen:         "CloseParen",
	OpenBracket:        "OpenBracket",
	CloseBracket:       "CloseBracket",
	OpenCurly:          "OpenCurly",
	CloseCurly:         "CloseCurly",
	OpenAttribute:      "OpenAttribute",
	Semicolon:          "Semicolon",
	Comma:              "Comma",
	Colon:              "Colon",
	DoubleColon:        "DoubleColon",
	ObjectOperator:     "ObjectOperator",
	NullsafeOperator:   "NullsafeOperator",
	DoubleArrow:        "DoubleArrow",
	Equal:              "Equal",
	PlusEqual:          "PlusEqual",
	MinusEqual:         "MinusEqual",
	MulEqual:           "MulEqual",
	DivEqual:           "DivEqual",
	ModEqual:           "ModEqual",
	ConcatEqual:        "ConcatEqual",
	AndEqual:           "AndEqual",
	OrEqual:            "OrEqual",
	XorEqual:           "XorEqual",
	CoalesceEqual:      "CoalesceEqual",
	PowEqual:           "PowEqual",
	ShiftLeftEqual:     "ShiftLeftEqual",
	ShiftRightEqual:    "ShiftRightEqual",
	IsEqual:            "IsEqual",
	IsIdentical:        "IsIdentical",
	IsNotEqual:         "IsNotEqual",
	IsNotIdentical:     "IsNotIdentical",
	Less:               "Less",
	Greater:            "Greater",
	LessEqual:          "LessEqual",
	GreaterEqual:       "GreaterEqual",
	Spaceship:          "Spaceship",
	BooleanAnd:         "BooleanAnd",
	BooleanOr:          "BooleanOr",
	BooleanNot:         "BooleanNot",
	Plus:               "Plus",
	Minus:              "Minus",
	Multiply:           "Multiply",
	Divide:             "Divide",
	Modulus:            "Modulus",
	Pow:                "Pow",
	Concat:             "Concat",
	Inc:                "Inc",
	Dec:                "Dec",
	BitAnd:             "BitAnd",
	BitOr:              "BitOr",
	BitXor:             "BitXor",
	BitNot:             "BitNot",
	ShiftLeft:          "ShiftLeft",
	ShiftRight:         "ShiftRight",
	InlineThen:         "InlineThen",
	InlineElse:         "InlineElse",
	Elvis:              "Elvis",
	Coalesce:           "Coalesce",
	Nullable:           "Nullable",
	At:                 "At",
	NsSeparator:        "NsSeparator",
	Ellipsis:           "Ellipsis",
	Style:              "Style",
	Hash:               "Hash",
	AtRule:             "AtRule",
	URL:                "URL",
	Important:          "Important",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// KindByName resolves a kind from its String() form.
func KindByName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return Invalid, false
}

// IsKeyword reports whether the kind is a language keyword.
func (k Kind) IsKeyword() bool {
	return k >= KwAbstract && k <= KwWhile
}

// IsOpener reports whether the kind opens a bracket pair.
func (k Kind) IsOpener() bool {
	switch k {
	case OpenParen, OpenBracket, OpenCurly, OpenAttribute:
		return true
	default:
		return false
	}
}

// IsCloser reports whether the kind closes a bracket pair.
func (k Kind) IsCloser() bool {
	switch k {
	case CloseParen, CloseBracket, CloseCurly:
		return true
	default:
		return false
	}
}

// CloserFor returns the closing kind expected for an opener.
func CloserFor(opener Kind) Kind {
	switch opener {
	case OpenParen:
		return CloseParen
	case OpenBracket, OpenAttribute:
		return CloseBracket
	case OpenCurly:
		return CloseCurly
	default:
		return Invalid
	}
}

package token

import (
	"golang.org/x/text/cases"
)

var phpKeywords = map[string]Kind{
	"abstract":   KwAbstract,
	"array":      KwArray,
	"as":         KwAs,
	"break":      KwBreak,
	"case":       KwCase,
	"catch":      KwCatch,
	"class":      KwClass,
	"const":      KwConst,
	"continue":   KwContinue,
	"declare":    KwDeclare,
	"default":    KwDefault,
	"do":         KwDo,
	"echo":       KwEcho,
	"else":       KwElse,
	"elseif":     KwElseIf,
	"enddeclare": KwEndDeclare,
	"endfor":     KwEndFor,
	"endforeach": KwEndForeach,
	"endif":      KwEndIf,
	"endswitch":  KwEndSwitch,
	"endwhile":   KwEndWhile,
	"enum":       KwEnum,
	"extends":    KwExtends,
	"final":      KwFinal,
	"finally":    KwFinally,
	"fn":         KwFn,
	"for":        KwFor,
	"foreach":    KwForeach,
	"function":   KwFunction,
	"if":         KwIf,
	"implements": KwImplements,
	"instanceof": KwInstanceof,
	"interface":  KwInterface,
	"list":       KwList,
	"match":      KwMatch,
	"namespace":  KwNamespace,
	"new":        KwNew,
	"private":    KwPrivate,
	"protected":  KwProtected,
	"public":     KwPublic,
	"return":     KwReturn,
	"static":     KwStatic,
	"switch":     KwSwitch,
	"throw":      KwThrow,
	"trait":      KwTrait,
	"try":        KwTry,
	"use":        KwUse,
	"var":        KwVar,
	"while":      KwWhile,
}

var jsKeywords = map[string]Kind{
	"break":      KwBreak,
	"case":       KwCase,
	"catch":      KwCatch,
	"class":      KwClass,
	"const":      KwConst,
	"continue":   KwContinue,
	"default":    KwDefault,
	"do":         KwDo,
	"else":       KwElse,
	"extends":    KwExtends,
	"finally":    KwFinally,
	"for":        KwFor,
	"function":   KwFunction,
	"if":         KwIf,
	"instanceof": KwInstanceof,
	"let":        KwLet,
	"new":        KwNew,
	"return":     KwReturn,
	"static":     KwStatic,
	"switch":     KwSwitch,
	"throw":      KwThrow,
	"try":        KwTry,
	"typeof":     KwTypeof,
	"var":        KwVar,
	"while":      KwWhile,
}

// LookupKeyword returns the keyword kind for ident in grammar g.
// PHP keywords are case-insensitive, JS keywords are not, CSS has none.
func LookupKeyword(g Grammar, ident string) (Kind, bool) {
	switch g {
	case PHP:
		k, ok := phpKeywords[Normalize(g, ident)]
		return k, ok
	case JS:
		k, ok := jsKeywords[ident]
		return k, ok
	default:
		return Invalid, false
	}
}

// Normalize returns the comparison form of a token text.
// For PHP the text is case-folded so that "ELSEIF" and "elseif" compare equal;
// other grammars are returned unchanged.
func Normalize(g Grammar, text string) string {
	if g != PHP || isLowerASCII(text) {
		return text
	}
	// Caser хранит состояние, поэтому создаём новый на каждый вызов.
	return cases.Fold().String(text)
}

func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x80 || (b >= 'A' && b <= 'Z') {
			return false
		}
	}
	return true
}

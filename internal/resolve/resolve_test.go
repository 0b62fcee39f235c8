package resolve_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensniff/internal/diag"
	"tokensniff/internal/lexer"
	"tokensniff/internal/resolve"
	"tokensniff/internal/source"
	"tokensniff/internal/token"
)

func tokenize(t *testing.T, g token.Grammar, src string) *token.Stream {
	t.Helper()
	f := source.NewFile("test.php", []byte(src), source.FileVirtual)
	s, err := lexer.Tokenize(f, g, lexer.Options{})
	require.NoError(t, err)
	return s
}

func resolved(t *testing.T, g token.Grammar, src string) *token.Stream {
	t.Helper()
	s := tokenize(t, g, src)
	require.NoError(t, resolve.Resolve(s))
	return s
}

// find returns the index of the n-th (0-based) token with the given text.
func find(t *testing.T, s *token.Stream, text string, n int) int {
	t.Helper()
	for i, tok := range s.Tokens {
		if tok.Text != text {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	t.Fatalf("token %q not found", text)
	return token.None
}

func TestBracketsAreSymmetric(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\n$a = [1, (2 + 3)];\nif ($a) {\n    foo($a[0], #[X] fn() => 1);\n}\n")

	pairs := 0
	for i, tok := range s.Tokens {
		if tok.BracketOpener == token.None {
			assert.Equal(t, token.None, tok.BracketCloser, "token %d", i)
			continue
		}
		o, c := tok.BracketOpener, tok.BracketCloser
		assert.True(t, o < c)
		assert.Equal(t, o, s.Tokens[c].BracketOpener)
		assert.Equal(t, c, s.Tokens[o].BracketCloser)
		if i == o {
			pairs++
			assert.Equal(t, s.Tokens[o].Level, s.Tokens[c].Level, "opener and closer share a level")
		}
	}
	assert.Equal(t, 8, pairs)
	assert.Equal(t, 0, s.Tokens[s.Len()-1].Level)
}

func TestUnbalancedBracketsAreFatal(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		line int
	}{
		{"unmatched closer", "<?php\nfoo();\n}\n", diag.ResUnmatchedCloser, 3},
		{"mismatched closer", "<?php\nfoo(];\n", diag.ResMismatchedCloser, 2},
		{"unclosed opener", "<?php\nif ($a) {\n    foo();\n", diag.ResUnclosedOpener, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tokenize(t, token.PHP, tt.src)
			err := resolve.Resolve(s)
			require.Error(t, err)

			var rerr *resolve.Error
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, tt.code, rerr.Code)
			assert.Equal(t, tt.line, rerr.Line)

			d := rerr.Diagnostic()
			assert.Equal(t, diag.SevError, d.Severity)
			assert.Equal(t, "test.php", d.File)
		})
	}
}

func TestBraceScope(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nif ($a) {\n    $b = 1;\n}\n")
	ifTok := find(t, s, "if", 0)
	open := find(t, s, "{", 0)
	closeTok := find(t, s, "}", 0)
	b := find(t, s, "$b", 0)

	assert.Equal(t, ifTok, s.Tokens[find(t, s, "(", 0)].ParenOwner)
	assert.Equal(t, open, s.Tokens[ifTok].ScopeOpener)
	assert.Equal(t, closeTok, s.Tokens[ifTok].ScopeCloser)
	assert.Equal(t, ifTok, s.Tokens[open].ScopeCondition)
	assert.Equal(t, ifTok, s.Tokens[closeTok].ScopeCondition)

	assert.Equal(t, ifTok, s.Tokens[b].ScopeCondition)
	assert.Equal(t, open, s.Tokens[b].ScopeOpener)
	assert.Equal(t, 1, s.Tokens[b].Level)
	assert.Equal(t, 0, s.Tokens[closeTok].Level)

	require.Len(t, s.Scopes, 1)
	assert.Equal(t, token.ScopeBrace, s.Scopes[0].Kind)
	assert.Equal(t, token.None, s.Tokens[ifTok].Scope)
}

func TestStatementScope(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nif ($a) foo(); bar();\nif ($b) { x(); } else y();\n")
	ifTok := find(t, s, "if", 0)
	foo := find(t, s, "foo", 0)
	bar := find(t, s, "bar", 0)

	assert.Equal(t, ifTok, s.Tokens[foo].ScopeCondition)
	assert.Equal(t, find(t, s, ";", 0), s.Tokens[foo].ScopeCloser)
	assert.Equal(t, 1, s.Tokens[foo].Level)
	assert.Equal(t, token.None, s.Tokens[bar].ScopeCondition)
	assert.Equal(t, 0, s.Tokens[bar].Level)

	elseTok := find(t, s, "else", 0)
	y := find(t, s, "y", 0)
	assert.Equal(t, elseTok, s.Tokens[y].ScopeCondition)
	assert.Equal(t, elseTok, s.Tokens[elseTok].ScopeOpener)
	assert.Equal(t, token.ScopeStatement, s.Scopes[s.Tokens[y].Scope].Kind)
}

func TestNestedStatementScopeEndsWithInnerBody(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nforeach ($xs as $x)\n    if ($x) { a(); }\nb();\n")
	foreach := find(t, s, "foreach", 0)
	inner := find(t, s, "}", 0)

	assert.Equal(t, inner, s.Tokens[foreach].ScopeCloser)
	ifTok := find(t, s, "if", 0)
	assert.Equal(t, ifTok, s.Tokens[ifTok].ScopeCondition)
	assert.Equal(t, foreach, s.Scopes[s.Tokens[ifTok].Scope].Owner)
	assert.Equal(t, token.None, s.Tokens[find(t, s, "b", 0)].ScopeCondition)
	assert.Equal(t, 2, s.Tokens[find(t, s, "a", 0)].Level)
}

func TestDanglingElseBelongsToOuterIf(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nif ($a) if ($b) x(); else y(); else z();\n")
	outerIf := find(t, s, "if", 0)
	innerElse := find(t, s, "else", 0)
	outerElse := find(t, s, "else", 1)

	assert.Equal(t, find(t, s, ";", 1), s.Tokens[outerIf].ScopeCloser)
	assert.Equal(t, token.None, s.Tokens[outerElse].Scope)
	assert.False(t, token.NewView(s).HasCondition(outerElse, token.NewKindSet(token.KwIf)))
	assert.Equal(t, outerIf, s.Scopes[s.Tokens[innerElse].Scope].Owner)

	z := find(t, s, "z", 0)
	assert.Equal(t, outerElse, s.Tokens[z].ScopeCondition)
	assert.Equal(t, 1, s.Tokens[z].Level)
	assert.Equal(t, 2, s.Tokens[find(t, s, "y", 0)].Level)
}

func TestFinallyEndsTryChain(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nif ($a) try { x(); } finally { y(); } else z();\n")
	outerIf := find(t, s, "if", 0)
	outerElse := find(t, s, "else", 0)

	assert.Equal(t, find(t, s, "}", 1), s.Tokens[outerIf].ScopeCloser)
	assert.Equal(t, token.None, s.Tokens[outerElse].Scope)
	assert.Equal(t, outerElse, s.Tokens[find(t, s, "z", 0)].ScopeCondition)
}

func TestAlternativeSyntax(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nif ($a):\n    x();\nelseif ($b):\n    y();\nelse:\n    z();\nendif;\n")
	ifTok := find(t, s, "if", 0)
	elseif := find(t, s, "elseif", 0)
	elseTok := find(t, s, "else", 0)
	endif := find(t, s, "endif", 0)

	x, y, z := find(t, s, "x", 0), find(t, s, "y", 0), find(t, s, "z", 0)
	assert.Equal(t, ifTok, s.Tokens[x].ScopeCondition)
	assert.Equal(t, elseif, s.Tokens[x].ScopeCloser)
	assert.Equal(t, elseif, s.Tokens[y].ScopeCondition)
	assert.Equal(t, elseTok, s.Tokens[y].ScopeCloser)
	assert.Equal(t, elseTok, s.Tokens[z].ScopeCondition)
	assert.Equal(t, endif, s.Tokens[z].ScopeCloser)

	for _, i := range []int{x, y, z} {
		assert.Equal(t, 1, s.Tokens[i].Level)
		assert.Equal(t, token.ScopeAlt, s.Scopes[s.Tokens[i].Scope].Kind)
	}
	// a keyword closing one scope and owning the next reports its own scope
	assert.Equal(t, elseif, s.Tokens[elseif].ScopeCondition)
	assert.Equal(t, 0, s.Tokens[endif].Level)
}

func TestNestedAlternativeSyntax(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nwhile ($a):\n    while ($b):\n        x();\n    endwhile;\nendwhile;\n")
	outer := find(t, s, "while", 0)
	inner := find(t, s, "while", 1)

	assert.Equal(t, find(t, s, "endwhile", 1), s.Tokens[outer].ScopeCloser)
	assert.Equal(t, find(t, s, "endwhile", 0), s.Tokens[inner].ScopeCloser)
	assert.Equal(t, 2, s.Tokens[find(t, s, "x", 0)].Level)
}

func TestSwitchCaseScopes(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nswitch ($a) {\n    case 1:\n        x();\n        break;\n    default:\n        y();\n}\n")
	sw := find(t, s, "switch", 0)
	caseTok := find(t, s, "case", 0)
	def := find(t, s, "default", 0)
	x, y := find(t, s, "x", 0), find(t, s, "y", 0)

	assert.Equal(t, caseTok, s.Tokens[x].ScopeCondition)
	assert.Equal(t, def, s.Tokens[x].ScopeCloser)
	assert.Equal(t, def, s.Tokens[y].ScopeCondition)
	assert.Equal(t, find(t, s, "}", 0), s.Tokens[y].ScopeCloser)
	assert.Equal(t, 2, s.Tokens[x].Level)
	assert.Equal(t, token.ScopeCase, s.Scopes[s.Tokens[x].Scope].Kind)

	conds := s.Conditions(x)
	require.Len(t, conds, 2)
	assert.Equal(t, sw, conds[0].Owner)
	assert.Equal(t, token.KwSwitch, conds[0].Kind)
	assert.Equal(t, caseTok, conds[1].Owner)
}

func TestOwnersWithoutBody(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		scopes int
	}{
		{"do while tail", "<?php\ndo {\n    x();\n} while ($a);\n", 1},
		{"statement do while tail", "<?php\ndo x(); while ($a);\n", 1},
		{"loop after do while", "<?php\ndo {\n} while ($a);\nwhile ($b) {\n}\n", 2},
		{"abstract method", "<?php\nabstract class A {\n    abstract function f();\n}\n", 1},
		{"namespace statement", "<?php\nnamespace App;\n", 0},
		{"class constant", "<?php\n$c = A::class;\n", 0},
		{"declare", "<?php\ndeclare(strict_types=1);\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := resolved(t, token.PHP, tt.src)
			assert.Len(t, s.Scopes, tt.scopes)
		})
	}
}

func TestNestedScopesLinkParents(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\nclass A {\n    function f() {\n        return 1;\n    }\n}\n")
	class := find(t, s, "class", 0)
	fn := find(t, s, "function", 0)
	ret := find(t, s, "return", 0)

	require.Len(t, s.Scopes, 2)
	assert.Equal(t, token.None, s.Scopes[0].Parent)
	assert.Equal(t, 0, s.Scopes[1].Parent)
	assert.Equal(t, fn, s.Tokens[find(t, s, "(", 0)].ParenOwner)

	conds := s.Conditions(ret)
	require.Len(t, conds, 2)
	assert.Equal(t, class, conds[0].Owner)
	assert.Equal(t, fn, conds[1].Owner)
	assert.Equal(t, 2, s.Tokens[ret].Level)
}

func TestShortArrays(t *testing.T) {
	s := resolved(t, token.PHP, "<?php\n$a = [1];\n$b = $a[0];\n$c = foo()[1];\n$d = [[2]];\n")
	tests := []struct {
		nth   int
		short bool
	}{
		{0, true},
		{1, false},
		{2, false},
		{3, true},
		{4, true},
	}
	for _, tt := range tests {
		i := find(t, s, "[", tt.nth)
		assert.Equal(t, tt.short, s.Tokens[i].ShortArray, "[ #%d", tt.nth)
		assert.Equal(t, tt.short, s.Tokens[s.Tokens[i].BracketCloser].ShortArray, "] #%d", tt.nth)
	}
}

func TestJavaScriptScopes(t *testing.T) {
	s := resolved(t, token.JS, "function f(a) {\n  if (a) return 1;\n  return 0;\n}\n")
	fn := find(t, s, "function", 0)
	ifTok := find(t, s, "if", 0)

	assert.Equal(t, ifTok, s.Tokens[find(t, s, "return", 0)].ScopeCondition)
	assert.Equal(t, fn, s.Tokens[find(t, s, "return", 1)].ScopeCondition)
	assert.Equal(t, fn, s.Tokens[find(t, s, "(", 0)].ParenOwner)
	assert.Equal(t, 0, s.Tokens[s.Len()-1].Level)
}

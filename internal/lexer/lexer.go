// Package lexer turns PHP, JS and CSS source into a flat token.Stream.
// Every byte of the input ends up in exactly one token.
package lexer

import (
	"bytes"

	"tokensniff/internal/diag"
	"tokensniff/internal/source"
	"tokensniff/internal/token"
)

// Lexer scans one file. It is not reusable.
type Lexer struct {
	file   *source.File
	g      token.Grammar
	cursor Cursor
	opts   Options
	s      *token.Stream

	line, col int  // позиция следующего токена
	inCode    bool // PHP: между <?php и ?>
	prev      int  // последний значимый токен
	depth     int  // глубина скобок
	ternary   []int
}

// New prepares a lexer for f in grammar g.
func New(f *source.File, g token.Grammar, opts Options) *Lexer {
	return &Lexer{
		file:   f,
		g:      g,
		cursor: NewCursor(f),
		opts:   opts,
		s:      token.NewStream(f, g, opts.tabWidth()),
		line:   1,
		col:    1,
		inCode: g != token.PHP || opts.Fragment,
		prev:   token.None,
	}
}

// Tokenize scans f and returns its token stream. The first fatal problem
// stops tokenization and is returned as *Error.
func Tokenize(f *source.File, g token.Grammar, opts Options) (*token.Stream, error) {
	return New(f, g, opts).Run()
}

// Run scans the whole file.
func (lx *Lexer) Run() (*token.Stream, error) {
	var next func() error
	switch lx.g {
	case token.PHP:
		next = lx.nextPHP
	case token.JS:
		next = lx.nextJS
	case token.CSS:
		next = lx.nextCSS
	default:
		return nil, lx.fail(diag.TokUnknownGrammar, 0, "unknown grammar "+lx.g.String())
	}
	for !lx.cursor.EOF() {
		if err := next(); err != nil {
			return nil, err
		}
	}
	if lx.g == token.CSS {
		retypeStyles(lx.s)
	}
	collectSuppressions(lx.s)
	return lx.s, nil
}

// emit appends the text between start and the cursor as a token of kind k.
func (lx *Lexer) emit(k token.Kind, start Mark) (int, error) {
	sp := lx.cursor.SpanFrom(start)
	if int(sp.Len()) > lx.opts.maxTokenLength() {
		return token.None, lx.fail(diag.TokTokenTooLong, start, "token exceeds maximum length")
	}
	text := lx.file.Content[sp.Start:sp.End]
	idx := lx.s.Append(k, string(text), sp, lx.line, lx.col)
	lx.advance(text)
	lx.track(k, idx)
	return idx, nil
}

// advance moves the running line/column past text.
func (lx *Lexer) advance(text []byte) {
	for {
		i := bytes.IndexByte(text, '\n')
		if i < 0 {
			lx.col = source.DisplayColumn(text, lx.col, lx.opts.tabWidth())
			return
		}
		lx.line++
		lx.col = 1
		text = text[i+1:]
	}
}

// track keeps bracket depth, the ternary stack and the last code token.
func (lx *Lexer) track(k token.Kind, idx int) {
	switch {
	case k.IsOpener():
		lx.depth++
	case k.IsCloser():
		if lx.depth > 0 {
			lx.depth--
		}
		lx.popTernary(lx.depth + 1)
	case k == token.Semicolon:
		lx.popTernary(lx.depth)
	case k == token.InlineThen:
		lx.ternary = append(lx.ternary, lx.depth)
	}
	if !token.EmptyKinds.Has(k) {
		lx.prev = idx
	}
}

// popTernary drops pending '?' opened at depth >= d.
func (lx *Lexer) popTernary(d int) {
	for len(lx.ternary) > 0 && lx.ternary[len(lx.ternary)-1] >= d {
		lx.ternary = lx.ternary[:len(lx.ternary)-1]
	}
}

// prevKind returns the kind of the last code token.
func (lx *Lexer) prevKind() token.Kind {
	if lx.prev == token.None {
		return token.Invalid
	}
	return lx.s.Tokens[lx.prev].Kind
}

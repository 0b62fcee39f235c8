package lexer

import (
	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// skipQuoted consumes a quoted literal without interpolation. When
// multiline is false a raw newline terminates it with an error.
func (lx *Lexer) skipQuoted(q byte, start Mark, multiline bool) error {
	lx.cursor.Bump() // открывающая кавычка
	for {
		if lx.cursor.EOF() {
			return lx.fail(diag.TokUnterminatedString, start, "unterminated string literal")
		}
		switch b := lx.cursor.Peek(); {
		case b == '\\':
			lx.cursor.BumpN(2)
		case b == q:
			lx.cursor.Bump()
			return nil
		case b == '\n' && !multiline:
			return lx.fail(diag.TokUnterminatedString, start, "newline in string literal")
		default:
			lx.cursor.Bump()
		}
	}
}

// scanQuoted emits a plain quoted string.
func (lx *Lexer) scanQuoted(q byte, multiline bool) error {
	start := lx.cursor.Mark()
	if err := lx.skipQuoted(q, start, multiline); err != nil {
		return err
	}
	_, err := lx.emit(token.String, start)
	return err
}

// scanDoubleQuoted emits a PHP "..." or `...` string. Strings that embed
// variables become one InterpolatedString token, nested {$...} included.
func (lx *Lexer) scanDoubleQuoted(q byte) error {
	start := lx.cursor.Mark()
	interp, err := lx.skipDoubleQuoted(q, start)
	if err != nil {
		return err
	}
	kind := token.String
	if interp {
		kind = token.InterpolatedString
	}
	_, err = lx.emit(kind, start)
	return err
}

func (lx *Lexer) skipDoubleQuoted(q byte, start Mark) (interp bool, err error) {
	lx.cursor.Bump()
	for {
		if lx.cursor.EOF() {
			return false, lx.fail(diag.TokUnterminatedString, start, "unterminated string literal")
		}
		b, next := lx.cursor.Peek(), lx.cursor.PeekAt(1)
		switch {
		case b == '\\':
			lx.cursor.BumpN(2)
		case b == q:
			lx.cursor.Bump()
			return interp, nil
		case b == '$' && next == '{', b == '{' && next == '$':
			interp = true
			lx.cursor.BumpN(1)
			if b == '$' {
				lx.cursor.Bump() // '{'
			}
			if err := lx.skipEmbedded(start); err != nil {
				return false, err
			}
		case b == '$' && isIdentStart(token.PHP, next):
			interp = true
			lx.cursor.Bump()
		default:
			lx.cursor.Bump()
		}
	}
}

// skipEmbedded consumes PHP code embedded in a string after its opening
// brace, up to the matching '}'. Quoted strings inside may nest.
func (lx *Lexer) skipEmbedded(start Mark) error {
	depth := 1
	for {
		if lx.cursor.EOF() {
			return lx.fail(diag.TokUnterminatedString, start, "unterminated string interpolation")
		}
		switch b := lx.cursor.Peek(); b {
		case '{':
			depth++
			lx.cursor.Bump()
		case '}':
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return nil
			}
		case '\'':
			if err := lx.skipQuoted('\'', start, true); err != nil {
				return err
			}
		case '"':
			if _, err := lx.skipDoubleQuoted('"', start); err != nil {
				return err
			}
		default:
			lx.cursor.Bump()
		}
	}
}

// heredocLabel parses "<<<ID", "<<<\"ID\"" or "<<<'ID'" followed by a
// newline at the cursor without consuming it. ok is false when the input
// is not a heredoc opener.
func (lx *Lexer) heredocLabel() (label string, nowdoc bool, ok bool) {
	if !lx.cursor.HasPrefix("<<<") {
		return "", false, false
	}
	m := lx.cursor.Mark()
	defer lx.cursor.Reset(m)

	lx.cursor.BumpN(3)
	for b := lx.cursor.Peek(); b == ' ' || b == '\t'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
	quote := lx.cursor.Peek()
	if quote == '\'' || quote == '"' {
		lx.cursor.Bump()
	} else {
		quote = 0
	}
	from := lx.cursor.Off
	if !isIdentStart(token.PHP, lx.cursor.Peek()) {
		return "", false, false
	}
	for isIdentContinue(token.PHP, lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	label = string(lx.file.Content[from:lx.cursor.Off])
	if quote != 0 && !lx.cursor.Eat(quote) {
		return "", false, false
	}
	lx.cursor.Eat('\r')
	if lx.cursor.Peek() != '\n' {
		return "", false, false
	}
	return label, quote == '\'', true
}

// scanHeredoc emits StartHeredoc (with its newline), one body token per
// line and the closing label. The closing label may be indented.
func (lx *Lexer) scanHeredoc(label string, nowdoc bool) error {
	startKind, bodyKind, endKind := token.StartHeredoc, token.Heredoc, token.EndHeredoc
	if nowdoc {
		startKind, bodyKind, endKind = token.StartNowdoc, token.Nowdoc, token.EndNowdoc
	}

	start := lx.cursor.Mark()
	for lx.cursor.Bump() != '\n' {
	}
	if _, err := lx.emit(startKind, start); err != nil {
		return err
	}

	for {
		if lx.cursor.EOF() {
			return lx.fail(diag.TokUnterminatedHeredoc, start, "unterminated heredoc, expected closing "+label)
		}
		lineStart := lx.cursor.Mark()
		for b := lx.cursor.Peek(); b == ' ' || b == '\t'; b = lx.cursor.Peek() {
			lx.cursor.Bump()
		}
		if lx.closesHeredoc(label) {
			if lx.cursor.Mark() != lineStart {
				if _, err := lx.emit(token.Whitespace, lineStart); err != nil {
					return err
				}
			}
			labelStart := lx.cursor.Mark()
			lx.cursor.BumpN(len(label))
			_, err := lx.emit(endKind, labelStart)
			return err
		}
		lx.cursor.Reset(lineStart)
		for !lx.cursor.EOF() {
			if lx.cursor.Bump() == '\n' {
				break
			}
		}
		if _, err := lx.emit(bodyKind, lineStart); err != nil {
			return err
		}
	}
}

func (lx *Lexer) closesHeredoc(label string) bool {
	if !lx.cursor.HasPrefix(label) {
		return false
	}
	return !isIdentContinue(token.PHP, lx.cursor.PeekAt(uint32(len(label)))) //nolint:gosec // метка короткая
}

// skipTemplate consumes a JS template literal, nested ${...} and inner
// templates included.
func (lx *Lexer) skipTemplate(start Mark) error {
	lx.cursor.Bump() // '`'
	for {
		if lx.cursor.EOF() {
			return lx.fail(diag.TokUnterminatedTemplate, start, "unterminated template literal")
		}
		switch b := lx.cursor.Peek(); {
		case b == '\\':
			lx.cursor.BumpN(2)
		case b == '`':
			lx.cursor.Bump()
			return nil
		case b == '$' && lx.cursor.PeekAt(1) == '{':
			lx.cursor.BumpN(2)
			if err := lx.skipTemplateExpr(start); err != nil {
				return err
			}
		default:
			lx.cursor.Bump()
		}
	}
}

func (lx *Lexer) skipTemplateExpr(start Mark) error {
	depth := 1
	for {
		if lx.cursor.EOF() {
			return lx.fail(diag.TokUnterminatedTemplate, start, "unterminated template expression")
		}
		switch b := lx.cursor.Peek(); b {
		case '{':
			depth++
			lx.cursor.Bump()
		case '}':
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return nil
			}
		case '`':
			if err := lx.skipTemplate(start); err != nil {
				return err
			}
		case '\'', '"':
			if err := lx.skipQuoted(b, start, false); err != nil {
				return err
			}
		default:
			lx.cursor.Bump()
		}
	}
}

func (lx *Lexer) scanTemplate() error {
	start := lx.cursor.Mark()
	if err := lx.skipTemplate(start); err != nil {
		return err
	}
	_, err := lx.emit(token.Template, start)
	return err
}

// regexAllowed reports whether a '/' at the cursor starts a JS regex
// literal, judged from the previous code token.
func (lx *Lexer) regexAllowed() bool {
	switch k := lx.prevKind(); {
	case k == token.Invalid:
		return true
	case k == token.Ident, k == token.Variable, k == token.Number, k.IsCloser(),
		token.LiteralKinds.Has(k), k == token.Inc, k == token.Dec:
		return false
	default:
		return true
	}
}

// scanRegex emits a regex literal. ok is false when the slash turns out to
// be a division (no closing slash on the line); the cursor is untouched then.
func (lx *Lexer) scanRegex() (ok bool, err error) {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	inClass := false
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			lx.cursor.Reset(start)
			return false, nil
		}
		b := lx.cursor.Bump()
		switch {
		case b == '\\':
			if lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case b == '[':
			inClass = true
		case b == ']':
			inClass = false
		case b == '/' && !inClass:
			for isLetter(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			_, err := lx.emit(token.Regex, start)
			return true, err
		}
	}
}

// openTagLength returns the length of a "<?php" or "<?=" tag at the
// cursor, or 0.
func (lx *Lexer) openTagLength() int {
	switch {
	case lx.cursor.HasPrefix("<?="):
		return 3
	case lx.cursor.HasPrefixFold("<?php"):
		next := lx.cursor.PeekAt(5)
		if next == 0 || isSpace(next) {
			return 5
		}
	}
	return 0
}

// scanInlineHTML emits text outside PHP tags, one token per line, and the
// open tag that ends it.
func (lx *Lexer) scanInlineHTML() error {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if n := lx.openTagLength(); n > 0 {
			if lx.cursor.Mark() != start {
				if _, err := lx.emit(token.InlineHTML, start); err != nil {
					return err
				}
			}
			tagStart := lx.cursor.Mark()
			lx.cursor.BumpN(n)
			lx.inCode = true
			_, err := lx.emit(token.OpenTag, tagStart)
			return err
		}
		if lx.cursor.Bump() == '\n' {
			break
		}
	}
	_, err := lx.emit(token.InlineHTML, start)
	return err
}

// scanURL scans url(...) as one token; the cursor sits on "url(".
func (lx *Lexer) scanURL() error {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(4)
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			return lx.fail(diag.TokUnterminatedURL, start, "unterminated url()")
		}
		switch b := lx.cursor.Peek(); b {
		case '\'', '"':
			if err := lx.skipQuoted(b, start, false); err != nil {
				return err
			}
		case '\\':
			lx.cursor.BumpN(2)
		case ')':
			lx.cursor.Bump()
			_, err := lx.emit(token.URL, start)
			return err
		default:
			lx.cursor.Bump()
		}
	}
}

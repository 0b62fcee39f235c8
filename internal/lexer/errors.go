package lexer

import (
	"fmt"

	"tokensniff/internal/diag"
	"tokensniff/internal/source"
)

// Error is a fatal tokenization failure. No stream is produced for a file
// that fails to tokenize.
type Error struct {
	Code   diag.Code
	Path   string
	Line   int
	Column int
	Span   source.Span
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s [%s]", e.Path, e.Line, e.Column, e.Msg, e.Code)
}

// Diagnostic converts the failure into a reportable error diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		File:     e.Path,
		Line:     e.Line,
		Column:   e.Column,
		Code:     e.Code,
		Message:  e.Msg,
		Severity: diag.SevError,
		Rule:     diag.EngineRule,
	}
}

func (lx *Lexer) fail(code diag.Code, start Mark, msg string) error {
	line, col := lx.file.Position(uint32(start), lx.opts.tabWidth())
	return &Error{
		Code:   code,
		Path:   lx.file.Path,
		Line:   line,
		Column: col,
		Span:   lx.cursor.SpanFrom(start),
		Msg:    msg,
	}
}

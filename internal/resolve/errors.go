package resolve

import (
	"fmt"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// Error is a fatal structural failure: the file's brackets do not pair.
type Error struct {
	Code   diag.Code
	Path   string
	Line   int
	Column int
	Index  int
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

func newError(s *token.Stream, code diag.Code, i int, format string, args ...any) *Error {
	t := s.Tokens[i]
	return &Error{
		Code:   code,
		Path:   s.Path(),
		Line:   t.Line,
		Column: t.Column,
		Index:  i,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// Package suppress parses in-source suppression markers and answers
// whether a diagnostic at a given line is hidden.
package suppress

import (
	"strings"
)

// Prefix starts every marker inside a comment.
const Prefix = "sniff:"

// Action is the verb of a marker.
type Action uint8

const (
	// Ignore hides diagnostics on one line.
	Ignore Action = iota + 1
	// Disable opens a suppressed range.
	Disable
	// Enable closes a suppressed range.
	Enable
	// IgnoreFile hides diagnostics in the whole file.
	IgnoreFile
)

func (a Action) String() string {
	switch a {
	case Ignore:
		return "ignore"
	case Disable:
		return "disable"
	case Enable:
		return "enable"
	case IgnoreFile:
		return "ignore-file"
	default:
		return "unknown"
	}
}

// Directive is one parsed marker.
type Directive struct {
	Action Action
	Codes  []string // empty: every code
}

// Parse extracts a marker from comment text. Comment delimiters of any
// supported grammar are stripped first; anything after " -- " is a note.
func Parse(comment string) (Directive, bool) {
	body := stripDelimiters(comment)
	if !strings.HasPrefix(body, Prefix) {
		return Directive{}, false
	}
	body = body[len(Prefix):]
	if i := strings.Index(body, "--"); i >= 0 {
		body = body[:i]
	}

	fields := strings.FieldsFunc(body, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) == 0 {
		return Directive{}, false
	}

	var d Directive
	switch fields[0] {
	case "ignore":
		d.Action = Ignore
	case "disable":
		d.Action = Disable
	case "enable":
		d.Action = Enable
	case "ignore-file":
		d.Action = IgnoreFile
	default:
		return Directive{}, false
	}
	if len(fields) > 1 {
		d.Codes = append([]string(nil), fields[1:]...)
	}
	return d, true
}

func stripDelimiters(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "//"):
		s = s[2:]
	case strings.HasPrefix(s, "#"):
		s = s[1:]
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimPrefix(s[2:], "*")
		s = strings.TrimSuffix(s, "*/")
	}
	return strings.TrimSpace(s)
}

// Matches reports whether code falls under one of the listed codes.
// A listed code matches itself and everything below it in the dotted
// namespace; an empty list matches every code.
func Matches(codes []string, code string) bool {
	if len(codes) == 0 {
		return true
	}
	for _, c := range codes {
		if c == code {
			return true
		}
		if strings.HasPrefix(code, c) && len(code) > len(c) && code[len(c)] == '.' {
			return true
		}
	}
	return false
}

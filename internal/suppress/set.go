package suppress

import "strings"

// InternalNamespace prefixes engine diagnostics; they are never hidden.
const InternalNamespace = "Internal"

type lineRule struct {
	line  int
	codes []string
}

type rangeRule struct {
	from, to int // to == 0: open until end of file
	codes    []string
}

// Set collects the markers of a single file.
// The zero value hides nothing.
type Set struct {
	fileCodes  []string
	ignoreFile bool
	lines      []lineRule
	ranges     []rangeRule
}

// New returns an empty Set.
func New() *Set {
	return &Set{}
}

// Apply records d found at line. trailing reports whether code precedes
// the marker on the same line: a trailing ignore covers its own line,
// an own-line ignore covers the next one.
func (s *Set) Apply(d Directive, line int, trailing bool) {
	switch d.Action {
	case Ignore:
		target := line
		if !trailing {
			target = line + 1
		}
		s.lines = append(s.lines, lineRule{line: target, codes: d.Codes})
	case Disable:
		s.ranges = append(s.ranges, rangeRule{from: line, codes: d.Codes})
	case Enable:
		s.enable(line, d.Codes)
	case IgnoreFile:
		s.ignoreFile = true
		s.fileCodes = d.Codes
	}
}

// enable closes open ranges. A bare enable closes all of them; a coded
// enable closes ranges that list one of the codes.
func (s *Set) enable(line int, codes []string) {
	for i := range s.ranges {
		r := &s.ranges[i]
		if r.to != 0 {
			continue
		}
		if len(codes) == 0 || overlaps(r.codes, codes) {
			r.to = line
		}
	}
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Suppressed reports whether a diagnostic with code at line is hidden.
func (s *Set) Suppressed(line int, code string) bool {
	if s == nil || IsInternal(code) {
		return false
	}
	if s.ignoreFile && Matches(s.fileCodes, code) {
		return true
	}
	for _, r := range s.lines {
		if r.line == line && Matches(r.codes, code) {
			return true
		}
	}
	for _, r := range s.ranges {
		if line < r.from || (r.to != 0 && line > r.to) {
			continue
		}
		if Matches(r.codes, code) {
			return true
		}
	}
	return false
}

// Empty reports whether the set holds no markers.
func (s *Set) Empty() bool {
	return s == nil || (!s.ignoreFile && len(s.lines) == 0 && len(s.ranges) == 0)
}

// IsInternal reports whether code belongs to the engine namespace.
func IsInternal(code string) bool {
	return code == InternalNamespace || strings.HasPrefix(code, InternalNamespace+".")
}

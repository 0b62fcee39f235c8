package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning is for warning diagnostics.
	SevWarning Severity = iota + 1
	// SevError is for error diagnostics.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower case form used in machine readable output.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// ParseSeverity accepts "error" or "warning" in any case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SevError, nil
	case "warning":
		return SevWarning, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (expected error|warning)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.Label()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

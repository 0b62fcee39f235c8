package suppress

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		ok     bool
		action Action
		codes  []string
	}{
		{"// sniff:ignore", true, Ignore, nil},
		{"# sniff:ignore Generic.PHP", true, Ignore, []string{"Generic.PHP"}},
		{"/* sniff:disable A.B, C.D */", true, Disable, []string{"A.B", "C.D"}},
		{"/** sniff:enable */", true, Enable, nil},
		{"// sniff:ignore-file -- generated code", true, IgnoreFile, nil},
		{"// sniff:ignore Foo -- legacy", true, Ignore, []string{"Foo"}},
		{"// sniff:frobnicate", false, 0, nil},
		{"// just a comment", false, 0, nil},
	}
	for _, tt := range tests {
		d, ok := Parse(tt.in)
		if ok != tt.ok {
			t.Fatalf("Parse(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if d.Action != tt.action {
			t.Errorf("Parse(%q) action = %v, want %v", tt.in, d.Action, tt.action)
		}
		if len(d.Codes) != len(tt.codes) {
			t.Fatalf("Parse(%q) codes = %v, want %v", tt.in, d.Codes, tt.codes)
		}
		for i := range tt.codes {
			if d.Codes[i] != tt.codes[i] {
				t.Errorf("Parse(%q) codes[%d] = %q, want %q", tt.in, i, d.Codes[i], tt.codes[i])
			}
		}
	}
}

func TestMatchesNamespacePrefix(t *testing.T) {
	codes := []string{"Generic.Arrays"}
	if !Matches(codes, "Generic.Arrays.DisallowLongArraySyntax.Found") {
		t.Error("expected prefix match")
	}
	if !Matches(codes, "Generic.Arrays") {
		t.Error("expected exact match")
	}
	if Matches(codes, "Generic.ArraysExtra.Found") {
		t.Error("prefix must stop at a dot boundary")
	}
	if !Matches(nil, "anything") {
		t.Error("empty list matches everything")
	}
}

func TestIgnoreTrailingAndOwnLine(t *testing.T) {
	s := New()
	s.Apply(Directive{Action: Ignore}, 3, true)
	s.Apply(Directive{Action: Ignore, Codes: []string{"A"}}, 5, false)

	if !s.Suppressed(3, "X.Y") {
		t.Error("trailing ignore must cover its own line")
	}
	if s.Suppressed(4, "X.Y") {
		t.Error("trailing ignore must not leak to the next line")
	}
	if s.Suppressed(5, "A.B") {
		t.Error("own-line ignore must not cover its own line")
	}
	if !s.Suppressed(6, "A.B") || s.Suppressed(6, "B.A") {
		t.Error("own-line ignore must cover only listed codes on the next line")
	}
}

func TestDisableEnableRanges(t *testing.T) {
	s := New()
	s.Apply(Directive{Action: Disable}, 2, false)
	s.Apply(Directive{Action: Enable}, 4, false)
	s.Apply(Directive{Action: Disable, Codes: []string{"Squiz"}}, 10, false)

	for line, want := range map[int]bool{1: false, 2: true, 3: true, 4: true, 5: false, 10: true, 99: true} {
		if got := s.Suppressed(line, "Squiz.CSS.ColourLowercase"); got != want {
			t.Errorf("line %d: Suppressed = %v, want %v", line, got, want)
		}
	}
	if s.Suppressed(50, "Generic.PHP.NoSilencedErrors") {
		t.Error("coded range must not hide other codes")
	}
}

func TestInternalNeverSuppressed(t *testing.T) {
	s := New()
	s.Apply(Directive{Action: IgnoreFile}, 1, false)
	if !s.Suppressed(7, "PSR1.Classes.ClassDeclaration.MissingNamespace") {
		t.Error("ignore-file must hide style diagnostics")
	}
	if s.Suppressed(7, "Internal.RuleFault") {
		t.Error("internal diagnostics are never suppressed")
	}
	var nilSet *Set
	if nilSet.Suppressed(1, "A") || !nilSet.Empty() {
		t.Error("nil set hides nothing")
	}
}

package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrentPrefersLdflags(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Current()
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", info.Version, "1.2.3")
	}
	if info.GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
	if info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q", info.BuildDate)
	}
}

func TestCurrentEmptyVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = ""
	if got := Current().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := map[string]string{
		"0.1.0-dev":            "0.1.0-dev",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"dev":                  "dev",
		"1.2":                  "1.2",
	}
	for in, want := range tests {
		if got := Colored(in); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}

package version

import (
	"regexp"
	"testing"
)

var sgr = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestPlainMatchesColoredVersion(t *testing.T) {
	if got := sgr.ReplaceAllString(Version, ""); got != Plain() {
		t.Errorf("Version without color = %q, want %q", got, Plain())
	}
}

func TestPlainIsSemver(t *testing.T) {
	semver := regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.]+)?$`)
	if !semver.MatchString(Plain()) {
		t.Errorf("Plain() = %q is not a semantic version", Plain())
	}
}

func TestOptionalFieldsCanBeOverridden(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	t.Cleanup(func() { GitCommit, BuildDate = origCommit, origDate })

	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	if GitCommit != "abc123def456" || BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("overrides not applied: %q %q", GitCommit, BuildDate)
	}
}

package version

import "testing"

func TestString(t *testing.T) {
	oldV, oldSHA, oldBuild := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = oldV, oldSHA, oldBuild })

	if got := String(); got != "ldmrs dev (unknown, built unknown)" {
		t.Errorf("String() = %q", got)
	}

	Version, GitSHA, BuildTime = "1.2.0", "0123456789abcdef", "2024-06-01T12:00:00Z"
	if got, want := String(), "ldmrs 1.2.0 (0123456, built 2024-06-01T12:00:00Z)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

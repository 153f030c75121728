package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestBannerPlain(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit = ""
	BuildDate = ""
	if got, want := Banner(false), "cfa version "+Version+"\n"; got != want {
		t.Fatalf("Banner = %q, want %q", got, want)
	}

	GitCommit = "abc123"
	BuildDate = "2026-01-15T10:30:00Z"
	got := Banner(false)
	for _, want := range []string{"commit: abc123\n", "built:  2026-01-15T10:30:00Z\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("Banner = %q, missing %q", got, want)
		}
	}
}

func TestColoredKeepsDigits(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()

	color.NoColor = false
	Version = "1.2.3-rc1"
	got := Colored()
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", got)
	}
	if !strings.HasSuffix(got, "-rc1") {
		t.Fatalf("suffix lost: %q", got)
	}

	Version = "dev"
	if got := Colored(); got != "dev" {
		t.Fatalf("non-semver = %q", got)
	}
}

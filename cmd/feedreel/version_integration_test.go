//go:build integration

package main

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestReleaseBuild_ReportsStampedVersion builds feedreel the way a release
// does and checks --version prints the stamp.
// Run with: go test -tags=integration ./cmd/feedreel -v
func TestReleaseBuild_ReportsStampedVersion(t *testing.T) {
	const stamp = "v9.9.9-release-check"
	bin := filepath.Join(t.TempDir(), "feedreel")

	build := exec.Command("go", "build", "-ldflags", "-X main.version="+stamp, "-o", bin, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("release build failed: %v\n%s", err, out)
	}

	out, err := exec.Command(bin, "--version").Output()
	if err != nil {
		t.Fatalf("feedreel --version failed: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "feedreel version "+stamp {
		t.Errorf("release binary should print its stamp, got %q", got)
	}
}

// TestReleaseBuild_MatchesGitDescribe checks a build stamped from git, as the
// release instructions in version.go describe.
func TestReleaseBuild_MatchesGitDescribe(t *testing.T) {
	desc, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		t.Skipf("git describe unavailable: %v", err)
	}
	want := strings.TrimSpace(string(desc))
	bin := filepath.Join(t.TempDir(), "feedreel")

	if out, err := exec.Command("go", "build", "-ldflags", "-X main.version="+want, "-o", bin, ".").CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	got, err := exec.Command(bin, "--version").Output()
	if err != nil {
		t.Fatalf("feedreel --version failed: %v", err)
	}
	if fields := strings.Fields(string(got)); len(fields) < 3 || fields[2] != want {
		t.Errorf("feedreel should report git describe %q, got %q", want, strings.TrimSpace(string(got)))
	}
}

package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() {
		Version, GitCommit, BuildTime = v, c, b
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
}

func TestGetInjected(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abcdef0123456"
	BuildTime = "2026-10-19T10:30:00Z"

	info := Get()
	if !info.IsRelease {
		t.Error("1.2.0 should be a release")
	}
	if info.GitCommit != "abcdef0" {
		t.Errorf("commit should be shortened, got %q", info.GitCommit)
	}
	if info.BuildTime != BuildTime {
		t.Errorf("build time = %q", info.BuildTime)
	}
}

func TestShort(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"

	if got := Short(); !strings.HasPrefix(got, "1.2.0-abc1234") {
		t.Errorf("Short() = %q", got)
	}
}

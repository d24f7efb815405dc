package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// CreateExecutable creates a mock executable file with proper permissions for the current platform
func CreateExecutable(t *testing.T, dir, name, content string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		if filepath.Ext(name) == "" {
			name += ".exe"
		}
	}

	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("Failed to create executable: %v", err)
	}

	// On Unix, ensure executable permissions
	if runtime.GOOS != "windows" {
		if err := os.Chmod(path, 0755); err != nil {
			t.Fatalf("Failed to set executable permissions: %v", err)
		}
	}

	return path
}

// CreateShellScript creates an executable /bin/sh script in dir and
// returns its path. Tests using it are skipped on Windows.
func CreateShellScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	SkipIfWindows(t, "requires /bin/sh")

	return CreateExecutable(t, dir, name, "#!/bin/sh\n"+body+"\n")
}

// RequireGit skips the test when no git binary is available and returns
// its path otherwise.
func RequireGit(t *testing.T) string {
	t.Helper()

	path, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git not found in PATH")
	}
	return path
}

// IsolatedGitConfig points git's global config at an empty file inside a
// temporary directory and disables the system config for the duration of
// the test. It returns the path of the global config file.
func IsolatedGitConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gitconfig")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create git config: %v", err)
	}

	t.Setenv("GIT_CONFIG_GLOBAL", path)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	return path
}

// SkipIfWindows skips a test on Windows
func SkipIfWindows(t *testing.T, reason string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Skipping on Windows: " + reason)
	}
}

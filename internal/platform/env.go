package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DetectShellRC determines the user's shell RC file path and shell name.
// It checks $SHELL first, then falls back to file-existence checks.
func DetectShellRC(home string) (rcPath, shellName string) {
	shell := os.Getenv("SHELL")

	switch {
	case strings.HasSuffix(shell, "zsh"):
		return filepath.Join(home, ".zshrc"), "zsh"
	case strings.HasSuffix(shell, "fish"):
		return filepath.Join(home, ".config", "fish", "config.fish"), "fish"
	case strings.HasSuffix(shell, "bash"):
		return filepath.Join(home, ".bashrc"), "bash"
	}

	// macOS defaults to zsh
	if FileExists(filepath.Join(home, ".zshrc")) {
		return filepath.Join(home, ".zshrc"), "zsh"
	}
	return filepath.Join(home, ".bashrc"), "bash"
}

// ReloadHint returns the command that picks up newly installed tools in the
// current shell, with home abbreviated to ~.
func ReloadHint(home string) string {
	rcPath, _ := DetectShellRC(home)
	if rel, err := filepath.Rel(home, rcPath); err == nil && !strings.HasPrefix(rel, "..") {
		rcPath = "~/" + filepath.ToSlash(rel)
	}
	return "source " + rcPath
}

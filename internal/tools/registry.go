package tools

import "github.com/lamchakchan/fastmac/internal/platform"

// Bash runs generated scripts and check commands.
func Bash() Tool {
	return Tool{ID: "bash", Name: "bash", Purpose: "runs install scripts"}
}

// Curl downloads the Homebrew installer.
func Curl() Tool {
	return Tool{ID: "curl", Name: "curl", Purpose: "downloads installers"}
}

// Brew installs standard catalog tools.
func Brew() Tool {
	return Tool{
		ID:         "brew",
		Name:       "Homebrew",
		Purpose:    "installs standard tools (generated scripts bootstrap it when missing)",
		InstallCmd: platform.HomebrewInstallCommand,
	}
}

// Required returns the tools fastmac cannot work without.
func Required() []Tool { return []Tool{Bash(), Curl()} }

// Optional returns tools that generated scripts can bootstrap themselves.
func Optional() []Tool { return []Tool{Brew()} }

// All returns every prerequisite.
func All() []Tool { return append(Required(), Optional()...) }

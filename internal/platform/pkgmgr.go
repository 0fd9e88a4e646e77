package platform

import (
	"fmt"
	"runtime"
)

// HomebrewInstallCommand is the official Homebrew bootstrap one-liner.
const HomebrewInstallCommand = `/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`

// PackageManager represents a system package manager.
type PackageManager int

const (
	PMNone   PackageManager = iota
	PMBrew                  // macOS or Linuxbrew
	PMApt                   // Debian, Ubuntu
	PMDnf                   // Fedora, RHEL, CentOS Stream
	PMPacman                // Arch, Manjaro
	PMApk                   // Alpine
)

// DetectPackageManager returns the detected system package manager.
// Homebrew wins on any OS since generated scripts install through it.
func DetectPackageManager() PackageManager {
	switch {
	case Exists("brew"):
		return PMBrew
	case Exists("apt-get"):
		return PMApt
	case Exists("dnf"):
		return PMDnf
	case Exists("pacman"):
		return PMPacman
	case Exists("apk"):
		return PMApk
	}
	return PMNone
}

// InstallHintForPM returns the command a user would run to install name.
func InstallHintForPM(pm PackageManager, name string) string {
	switch pm {
	case PMBrew:
		return "brew install " + name
	case PMApt:
		return "sudo apt-get install -y " + name
	case PMDnf:
		return "sudo dnf install -y " + name
	case PMPacman:
		return "sudo pacman -S --noconfirm " + name
	case PMApk:
		return "apk add " + name
	default:
		if runtime.GOOS == "darwin" {
			return HomebrewInstallCommand
		}
		return "apt install " + name
	}
}

// String returns the package manager name.
func (pm PackageManager) String() string {
	names := []string{"none", "brew", "apt", "dnf", "pacman", "apk"}
	if int(pm) < len(names) {
		return names[pm]
	}
	return fmt.Sprintf("PackageManager(%d)", pm)
}

// Package platform holds the small OS-facing helpers shared by the CLI and
// the TUI: colored status output, command execution, package manager
// detection, and file helpers.
package platform

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// colorEnabled controls whether ANSI escape codes are emitted.
// Set once by InitColor().
var colorEnabled bool

// InitColor determines whether color output should be enabled.
// It respects NO_COLOR (https://no-color.org/), TERM=dumb, and non-TTY stdout.
func InitColor() {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		colorEnabled = false
		return
	}
	colorEnabled = IsTerminal(os.Stdout)
}

// ColorEnabled reports whether print helpers emit ANSI codes.
func ColorEnabled() bool { return colorEnabled }

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ANSI escape codes
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
)

func apply(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

func Bold(s string) string      { return apply(ansiBold, s) }
func Dim(s string) string       { return apply(ansiDim, s) }
func Red(s string) string       { return apply(ansiRed, s) }
func Green(s string) string     { return apply(ansiGreen, s) }
func Yellow(s string) string    { return apply(ansiYellow, s) }
func Cyan(s string) string      { return apply(ansiCyan, s) }
func BoldRed(s string) string   { return apply(ansiBold+ansiRed, s) }
func BoldGreen(s string) string { return apply(ansiBold+ansiGreen, s) }
func BoldBlue(s string) string  { return apply(ansiBold+ansiBlue, s) }
func BoldCyan(s string) string  { return apply(ansiBold+ansiCyan, s) }

// PrintBanner prints a bold cyan banner line: "\n=== title ===\n"
func PrintBanner(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", BoldCyan("=== "+title+" ==="))
}

// PrintSection prints a cyan section header: "\n--- title ---\n"
func PrintSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", Cyan("--- "+title+" ---"))
}

// PrintStep prints a bold blue step label: "\n[n/total] label\n"
func PrintStep(w io.Writer, n, total int, label string) {
	fmt.Fprintf(w, "\n%s %s\n", BoldBlue(fmt.Sprintf("[%d/%d]", n, total)), label)
}

// PrintOK prints "  [OK] msg\n".
func PrintOK(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s %s\n", BoldGreen("[OK]"), msg)
}

// PrintFail prints "  [FAIL] msg\n".
func PrintFail(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s %s\n", BoldRed("[FAIL]"), msg)
}

// PrintWarn prints "  [WARN] msg\n".
func PrintWarn(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s %s\n", Yellow("[WARN]"), msg)
}

// PrintInfo prints "  [INFO] msg\n".
func PrintInfo(w io.Writer, msg string) {
	fmt.Fprintf(w, "  [INFO] %s\n", msg)
}

// PrintCommand echoes a shell command the user can copy: "    $ cmd\n"
func PrintCommand(w io.Writer, cmd string) {
	fmt.Fprintf(w, "    %s %s\n", Dim("$"), Bold(cmd))
}

// PrintSuccess prints a green message: "  msg\n"
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s\n", Green(msg))
}

// PrintErrorLine prints a red message: "  msg\n"
func PrintErrorLine(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s\n", Red(msg))
}

// PrintPrompt prints a bold prompt without a trailing newline.
func PrintPrompt(w io.Writer, prompt string) {
	fmt.Fprint(w, Bold(prompt))
}

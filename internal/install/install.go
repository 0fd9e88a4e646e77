// Package install implements the "install" command: it writes a generated
// script to a temporary file and runs it with bash after confirmation.
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lamchakchan/fastmac/internal/logging"
	"github.com/lamchakchan/fastmac/internal/platform"
	"github.com/lamchakchan/fastmac/internal/script"
)

// Options control an install run.
type Options struct {
	Yes    bool      // skip the confirmation prompt
	Keep   bool      // leave the script on disk afterwards
	In     io.Reader // confirmation input; defaults to os.Stdin
	Stderr io.Writer // script stderr; defaults to the output writer
}

// ScriptError reports a script that ran but exited non-zero.
type ScriptError struct {
	Path     string
	ExitCode int
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("install script exited with status %d (kept at %s)", e.ExitCode, e.Path)
}

// Run installs the tools in s, writing progress and script output to w.
func Run(ctx context.Context, w io.Writer, s *script.Script, opts Options) error {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = w
	}

	platform.PrintBanner(w, "fastmac Install")

	platform.PrintStep(w, 1, 3, "Preparing install script...")
	dir, err := os.MkdirTemp("", "fastmac-install-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	path := filepath.Join(dir, script.Filename(s.Generated))
	if err := script.Write(path, s); err != nil {
		os.RemoveAll(dir)
		return err
	}
	keep := opts.Keep
	defer func() {
		if !keep {
			os.RemoveAll(dir)
		}
	}()
	platform.PrintOK(w, "Wrote "+path)
	fmt.Fprintf(w, "  Tools (%d, about %d min):\n", len(s.Steps), script.EstimatedMinutes(len(s.Steps)))
	for _, name := range s.Names() {
		fmt.Fprintf(w, "    - %s\n", name)
	}

	platform.PrintStep(w, 2, 3, "Confirming...")
	if !opts.Yes {
		platform.PrintPrompt(w, "  Proceed? [y/N] ")
		answer := strings.TrimSpace(strings.ToLower(readLine(in)))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(w, "  Install cancelled.")
			return nil
		}
	} else {
		fmt.Fprintln(w, "  Skipped (--yes)")
	}

	platform.PrintStep(w, 3, 3, "Running install script...")
	logging.Info("Install", "Running %s (script %s)", path, s.ID)
	code, err := platform.RunScript(ctx, path, in, w, stderr)
	if err != nil {
		return err
	}
	if code != 0 {
		keep = true
		logging.Warn("Install", "Script %s exited with status %d", s.ID, code)
		platform.PrintFail(w, fmt.Sprintf("Script exited with status %d", code))
		return &ScriptError{Path: path, ExitCode: code}
	}

	platform.PrintSuccess(w, "All selected tools are installed.")
	if home, err := os.UserHomeDir(); err == nil {
		fmt.Fprintln(w, "  Open a new terminal, or run:")
		platform.PrintCommand(w, platform.ReloadHint(home))
	}
	return nil
}

// readLine reads up to and including the next newline one byte at a time.
// The rest of in is left for the script, which may prompt on its own.
func readLine(in io.Reader) string {
	var (
		b   strings.Builder
		buf [1]byte
	)
	for {
		n, err := in.Read(buf[:])
		if n == 1 {
			if buf[0] == '\n' {
				break
			}
			b.WriteByte(buf[0])
		}
		if err != nil {
			break
		}
	}
	return b.String()
}

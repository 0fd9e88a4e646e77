package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Exists checks if a command exists in PATH.
func Exists(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// Output executes a command and returns its stdout as a trimmed string.
func Output(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

// ShellSucceeds runs command with bash -c, discarding output, and reports
// whether it exited zero. A cancelled ctx counts as failure.
func ShellSucceeds(ctx context.Context, command string) bool {
	if strings.TrimSpace(command) == "" {
		return false
	}
	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	return cmd.Run() == nil
}

// RunScript runs a bash script file with the given I/O and returns its exit
// code. The error is non-nil only when the script could not be started.
func RunScript(ctx context.Context, path string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, "bash", path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("running %s: %w", path, err)
	}
	return 0, nil
}

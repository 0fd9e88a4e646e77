// Package tools detects whether catalog tools and fastmac's own
// prerequisites are already installed on this machine.
package tools

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/platform"
)

// CheckTimeout bounds a single install check.
var CheckTimeout = 10 * time.Second

// probeWorkers caps concurrent install checks.
const probeWorkers = 8

// Tool represents something that may or may not be installed.
type Tool struct {
	ID         string
	Name       string
	Purpose    string
	InstallCmd string                         // manual install hint; auto-detected if empty
	CheckFn    func(ctx context.Context) bool // nil → defaults to platform.Exists(ID)
}

// IsInstalled reports whether the tool is available.
func (t *Tool) IsInstalled(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()
	if t.CheckFn != nil {
		return t.CheckFn(ctx)
	}
	return platform.Exists(t.ID)
}

// InstallHint returns the manual install command for this tool.
func (t *Tool) InstallHint() string {
	if t.InstallCmd != "" {
		return t.InstallCmd
	}
	return platform.InstallHintForPM(platform.DetectPackageManager(), t.ID)
}

// FromCatalog builds a probe for a catalog entry. The entry's
// check_command decides when present; otherwise the brew package name (or
// the id) is looked up in PATH.
func FromCatalog(ct catalog.Tool) Tool {
	t := Tool{
		ID:      ct.ID,
		Name:    ct.Name,
		Purpose: ct.Description,
	}
	switch {
	case ct.IsCustom():
		t.InstallCmd = ct.InstallCommand
	case ct.Cask:
		t.InstallCmd = "brew install --cask " + pkgName(ct)
	default:
		t.InstallCmd = "brew install " + pkgName(ct)
	}

	if ct.CheckCommand != "" {
		check := ct.CheckCommand
		t.CheckFn = func(ctx context.Context) bool { return platform.ShellSucceeds(ctx, check) }
	} else {
		bin := pkgName(ct)
		t.CheckFn = func(context.Context) bool { return platform.Exists(bin) }
	}
	return t
}

func pkgName(ct catalog.Tool) string {
	if ct.BrewPackage != "" {
		return ct.BrewPackage
	}
	return ct.ID
}

// Probe checks every tool concurrently and returns installed state by id.
func Probe(ctx context.Context, toolList []Tool) map[string]bool {
	results := make([]bool, len(toolList))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeWorkers)
	for i := range toolList {
		i := i
		g.Go(func() error {
			results[i] = toolList[i].IsInstalled(ctx)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]bool, len(toolList))
	for i, t := range toolList {
		out[t.ID] = results[i]
	}
	return out
}

// Partition splits tools into installed names and missing tools, keeping
// input order.
func Partition(ctx context.Context, toolList []Tool) (found []string, missing []Tool) {
	state := Probe(ctx, toolList)
	for _, t := range toolList {
		if state[t.ID] {
			found = append(found, t.Name)
		} else {
			missing = append(missing, t)
		}
	}
	return found, missing
}

// ReportMissing prints an install hint per missing tool.
func ReportMissing(w io.Writer, heading string, missing []Tool) {
	if len(missing) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s\n", heading)
	for _, t := range missing {
		if t.Purpose != "" {
			fmt.Fprintf(w, "    - %s: %s\n", platform.Bold(t.Name), t.Purpose)
		} else {
			fmt.Fprintf(w, "    - %s\n", platform.Bold(t.Name))
		}
		platform.PrintCommand(w, t.InstallHint())
	}
}

// Package doctor implements the "doctor" command, which checks that the
// machine can run generated scripts and that the tool catalog is sound.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/platform"
	"github.com/lamchakchan/fastmac/internal/selection"
	"github.com/lamchakchan/fastmac/internal/tools"
)

// Options says where the catalog comes from and where the cache lives.
type Options struct {
	Source   *catalog.Source
	CacheDir string // empty skips the cache check
}

// Result counts what the checks found.
type Result struct {
	Issues   int
	Warnings int
}

// Healthy reports whether no must-fix issue was found.
func (r Result) Healthy() bool { return r.Issues == 0 }

func (r *Result) add(issues, warnings int) {
	r.Issues += issues
	r.Warnings += warnings
}

// RunTo executes every check, writing a report to w.
func RunTo(ctx context.Context, w io.Writer, opts Options) (Result, error) {
	platform.PrintBanner(w, "fastmac Health Check")

	var res Result
	res.add(checkPrerequisites(ctx, w))
	res.add(checkPackageManager(w))

	cat, i, wa := checkCatalog(ctx, w, opts.Source)
	res.add(i, wa)
	if cat != nil {
		res.add(checkSchema(w, opts.Source, cat))
		res.add(checkGraph(w, cat))
		res.add(checkCategories(w, cat))
	}
	res.add(checkCache(w, opts.CacheDir))

	platform.PrintBanner(w, "Summary")
	if res.Issues == 0 && res.Warnings == 0 {
		fmt.Fprintln(w, platform.BoldGreen("All checks passed."))
	} else {
		if res.Issues > 0 {
			fmt.Fprintln(w, platform.Red(fmt.Sprintf("Issues: %d (must fix)", res.Issues)))
		}
		if res.Warnings > 0 {
			fmt.Fprintln(w, platform.Yellow(fmt.Sprintf("Warnings: %d (optional)", res.Warnings)))
		}
	}
	fmt.Fprintln(w)
	return res, nil
}

// checkPrerequisites verifies the commands generated scripts rely on.
func checkPrerequisites(ctx context.Context, w io.Writer) (int, int) {
	platform.PrintSection(w, "Prerequisites")

	found, missingRequired := tools.Partition(ctx, tools.Required())
	for _, name := range found {
		pass(w, name+" found")
	}
	for _, t := range missingRequired {
		fail(w, t.Name+" not found ("+t.Purpose+")")
	}
	tools.ReportMissing(w, "Install:", missingRequired)

	warnings := 0
	_, missingOptional := tools.Partition(ctx, tools.Optional())
	for _, t := range missingOptional {
		warn(w, t.Name+" not found; "+t.Purpose)
		warnings++
	}
	if len(missingOptional) == 0 {
		if ver, err := platform.Output("brew", "--version"); err == nil {
			first, _, _ := strings.Cut(ver, "\n")
			pass(w, first)
		}
	}
	return len(missingRequired), warnings
}

func checkPackageManager(w io.Writer) (int, int) {
	pm := platform.DetectPackageManager()
	switch pm {
	case platform.PMBrew:
		pass(w, "Package manager: brew")
		return 0, 0
	case platform.PMNone:
		warn(w, "No package manager detected")
		return 0, 1
	default:
		warn(w, fmt.Sprintf("Package manager is %s; generated scripts install Homebrew first", pm))
		return 0, 1
	}
}

// checkCatalog loads the catalog the same way the picker does.
func checkCatalog(ctx context.Context, w io.Writer, src *catalog.Source) (*catalog.Catalog, int, int) {
	platform.PrintSection(w, "Catalog")
	if src == nil {
		fail(w, "No catalog source configured")
		return nil, 1, 0
	}

	cat, origin, err := src.Load(ctx)
	if err != nil {
		fail(w, "Catalog failed to load: "+err.Error())
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			for _, e := range verr.Errors {
				fmt.Fprintf(w, "    - %s\n", e)
			}
		}
		return nil, 1, 0
	}

	where := string(origin)
	switch origin {
	case catalog.OriginFile:
		where = src.File
	case catalog.OriginRemote, catalog.OriginCache:
		where = fmt.Sprintf("%s (%s)", src.Client.BaseURL, origin)
	case catalog.OriginStale:
		warn(w, fmt.Sprintf("Catalog store unreachable, using an expired cached copy of %s", src.Client.BaseURL))
		return cat, 0, 1
	}
	pass(w, fmt.Sprintf("Loaded %d tools in %d categories from %s", len(cat.Tools), len(cat.Categories), where))
	return cat, 0, 0
}

// checkSchema re-validates a catalog that did not come straight from a
// local file, which covers cached copies stored by older releases.
func checkSchema(w io.Writer, src *catalog.Source, cat *catalog.Catalog) (int, int) {
	if src.File != "" {
		pass(w, "Schema valid")
		return 0, 0
	}
	data, err := catalog.Encode(cat)
	if err != nil {
		fail(w, "Could not encode catalog: "+err.Error())
		return 1, 0
	}
	if err := catalog.Validate(data, catalog.FormatJSON); err != nil {
		fail(w, "Schema check failed")
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			for _, e := range verr.Errors {
				fmt.Fprintf(w, "    - %s\n", e)
			}
		}
		return 1, 0
	}
	pass(w, "Schema valid")
	return 0, 0
}

// checkGraph looks for broken requirement references and cycles.
func checkGraph(w io.Writer, cat *catalog.Catalog) (int, int) {
	platform.PrintSection(w, "Dependencies")
	issues, warnings := 0, 0

	g, err := selection.NewUnchecked(cat.Nodes())
	if err != nil {
		fail(w, err.Error())
		return 1, 0
	}

	unknown := g.Unknown()
	ids := make([]string, 0, len(unknown))
	for id := range unknown {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		var refs []string
		for _, r := range unknown[selection.ToolID(id)] {
			refs = append(refs, string(r))
		}
		warn(w, fmt.Sprintf("%s requires unknown tools: %s", id, strings.Join(refs, ", ")))
		warnings++
	}

	var cyc *selection.CyclicDependencyError
	if _, err := cat.Graph(); errors.As(err, &cyc) {
		fail(w, "Requirement cycle: "+cyc.Error())
		issues++
	} else if err == nil {
		pass(w, fmt.Sprintf("%d tools, no requirement cycles", g.Len()))
	}
	return issues, warnings
}

// checkCategories reports categories the picker will hide and tools it
// cannot show.
func checkCategories(w io.Writer, cat *catalog.Catalog) (int, int) {
	platform.PrintSection(w, "Categories")
	warnings := 0

	shown := make(map[string]bool)
	for _, g := range cat.Groups() {
		shown[g.Category.ID] = true
	}
	for _, c := range cat.Categories {
		if !shown[c.ID] {
			warn(w, fmt.Sprintf("Category %q has no tools and is hidden", c.Name))
			warnings++
		}
	}
	for _, t := range cat.Orphans() {
		warn(w, fmt.Sprintf("Tool %s points at missing category %q", t.ID, t.Category))
		warnings++
	}
	if warnings == 0 {
		pass(w, fmt.Sprintf("%d categories in use", len(shown)))
	}
	return 0, warnings
}

func checkCache(w io.Writer, dir string) (int, int) {
	platform.PrintSection(w, "Cache")
	if dir == "" {
		warn(w, "Catalog cache disabled")
		return 0, 1
	}
	if err := platform.DirWritable(dir); err != nil {
		fail(w, fmt.Sprintf("Cache directory %s is not writable: %v", dir, err))
		return 1, 0
	}
	pass(w, "Cache directory writable: "+dir)
	return 0, 0
}

func pass(w io.Writer, msg string) {
	platform.PrintOK(w, msg)
}

func fail(w io.Writer, msg string) {
	platform.PrintFail(w, msg)
}

func warn(w io.Writer, msg string) {
	platform.PrintWarn(w, msg)
}

// Run executes doctor against stdout.
func Run(ctx context.Context, opts Options) (Result, error) {
	return RunTo(ctx, os.Stdout, opts)
}

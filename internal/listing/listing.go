// Package listing prints the catalog for the "list" and "deps" commands.
package listing

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/platform"
	"github.com/lamchakchan/fastmac/internal/selection"
)

// ErrUnknownTool is returned by Deps for an id the catalog does not declare.
var ErrUnknownTool = errors.New("unknown tool")

const uncategorized = "(none)"

// Table writes every tool as a table grouped by category.
func Table(w io.Writer, cat *catalog.Catalog) {
	if len(cat.Tools) == 0 {
		fmt.Fprintln(w, platform.Yellow("No tools in the catalog"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{header("ID"), header("NAME"), header("CATEGORY"), header("INSTALL"), header("REQUIRES")})

	for _, g := range cat.Groups() {
		for _, tool := range g.Tools {
			t.AppendRow(row(tool, g.Category.Name))
		}
	}
	for _, tool := range cat.Orphans() {
		t.AppendRow(row(tool, uncategorized))
	}
	t.Render()

	fmt.Fprintf(w, "\n%s %d tools in %d categories\n", header("Total:"), len(cat.Tools), len(cat.Categories))
}

func header(s string) string {
	if !platform.ColorEnabled() {
		return s
	}
	return text.FgHiCyan.Sprint(s)
}

func row(t catalog.Tool, category string) table.Row {
	return table.Row{t.ID, t.Name, category, installKind(t), strings.Join(t.Requires, ", ")}
}

func installKind(t catalog.Tool) string {
	switch {
	case t.IsCustom():
		return "custom"
	case t.Cask:
		return "brew cask"
	default:
		return "brew"
	}
}

// JSON writes the catalog document.
func JSON(w io.Writer, cat *catalog.Catalog) error {
	return platform.WriteJSON(w, cat)
}

// Deps prints everything id needs, in the order it would be installed.
func Deps(w io.Writer, cat *catalog.Catalog, id string) error {
	// Cycles still have a closure; report them through doctor instead.
	g, err := selection.NewUnchecked(cat.Nodes())
	if err != nil {
		return err
	}
	tid := selection.ToolID(id)
	if !g.Known(tid) {
		return fmt.Errorf("%w: %s", ErrUnknownTool, id)
	}

	name := id
	if t, ok := cat.Tool(id); ok {
		name = t.Name
	}
	closure := g.Closure(tid)
	if len(closure) == 0 {
		fmt.Fprintf(w, "%s has no requirements.\n", platform.Bold(name))
		return nil
	}

	direct := make(map[selection.ToolID]bool)
	for _, r := range g.Requires(tid) {
		direct[r] = true
	}
	fmt.Fprintf(w, "%s requires (install order):\n", platform.Bold(name))
	for i, dep := range g.InstallOrder(closure) {
		label := cat.Names([]selection.ToolID{dep})[0]
		via := ""
		if !direct[dep] {
			via = platform.Dim(" (indirect)")
		}
		fmt.Fprintf(w, "  %d. %s %s%s\n", i+1, label, platform.Dim("["+string(dep)+"]"), via)
	}
	if unknown := g.Unknown()[tid]; len(unknown) > 0 {
		ids := make([]string, len(unknown))
		for i, u := range unknown {
			ids[i] = string(u)
		}
		platform.PrintWarn(w, "Not in the catalog: "+strings.Join(ids, ", "))
	}
	return nil
}

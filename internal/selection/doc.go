// Package selection keeps the checkbox state of a tool picker consistent with
// the "tool requires tool" edges of a catalog.
//
// A Graph is built once from static requirement data. Each tool then carries
// two pieces of mutable state: whether the user selected it directly
// (manual) and the set of selected tools currently pulling it in as a
// requirement (inducedBy). A tool is active when it is manual or induced by at
// least one other tool.
//
// Selecting a tool pulls in everything it requires, transitively. Deselecting
// a tool releases requirements that no longer have any justification and
// evicts every active tool that requires it, regardless of that tool's own
// manual flag: a tool never stays selected once one of its hard requirements
// is gone.
//
// Both operations return the Changes they caused so a UI can re-render only
// the affected checkboxes.
//
// # Usage Example
//
//	g, err := selection.New([]selection.Node{
//	    {ID: "git"},
//	    {ID: "gh", Requires: []selection.ToolID{"git"}},
//	    {ID: "vscode", Requires: []selection.ToolID{"git"}},
//	})
//	if err != nil {
//	    return err
//	}
//	g.Select("gh", true)       // gh, git
//	g.Select("vscode", true)   // vscode
//	g.Deselect("git", true)    // git, gh, vscode
//
// Graph is not safe for concurrent use. Every call runs to completion in
// response to one user interaction.
package selection

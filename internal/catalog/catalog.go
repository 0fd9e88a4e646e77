// Package catalog holds the tool and category documents that drive the
// picker, and knows how to load them from a file, a local cache, or the
// remote document store.
package catalog

import (
	"sort"
	"strings"

	"github.com/lamchakchan/fastmac/internal/selection"
)

// Tool types.
const (
	TypeStandard = "standard" // installed with brew install
	TypeCustom   = "custom"   // installed with InstallCommand
)

const (
	unnamedTool     = "Unnamed Tool"
	unnamedCategory = "Unnamed Category"
)

// Category groups tools in the picker.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Tool is one installable entry.
type Tool struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category       string   `json:"category" yaml:"category"`
	BrewPackage    string   `json:"brew_package,omitempty" yaml:"brew_package,omitempty"`
	CheckCommand   string   `json:"check_command,omitempty" yaml:"check_command,omitempty"`
	Type           string   `json:"type,omitempty" yaml:"type,omitempty"`
	Cask           bool     `json:"cask,omitempty" yaml:"cask,omitempty"`
	Requires       []string `json:"requires,omitempty" yaml:"requires,omitempty"`
	InstallCommand string   `json:"install_command,omitempty" yaml:"install_command,omitempty"`
	PreInstall     []string `json:"pre_install,omitempty" yaml:"pre_install,omitempty"`
	PostInstall    []string `json:"post_install,omitempty" yaml:"post_install,omitempty"`
}

// IsCustom reports whether the tool installs through its own command.
func (t *Tool) IsCustom() bool {
	return t.Type == TypeCustom
}

// Catalog is the full set of categories and tools.
type Catalog struct {
	Categories []Category `json:"categories" yaml:"categories"`
	Tools      []Tool     `json:"tools" yaml:"tools"`
}

// Group is a category with the tools filed under it.
type Group struct {
	Category Category
	Tools    []Tool
}

// normalize fills in the defaults the document store leaves implicit.
func (c *Catalog) normalize() {
	for i := range c.Categories {
		if strings.TrimSpace(c.Categories[i].Name) == "" {
			c.Categories[i].Name = unnamedCategory
		}
	}
	for i := range c.Tools {
		t := &c.Tools[i]
		if strings.TrimSpace(t.Name) == "" {
			t.Name = unnamedTool
		}
		if t.Type == "" {
			t.Type = TypeStandard
		}
	}
}

// Tool looks up a tool by id.
func (c *Catalog) Tool(id string) (*Tool, bool) {
	for i := range c.Tools {
		if c.Tools[i].ID == id {
			return &c.Tools[i], true
		}
	}
	return nil, false
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

// ToolsIn returns the tools filed under categoryID, sorted by name.
func (c *Catalog) ToolsIn(categoryID string) []Tool {
	var out []Tool
	for _, t := range c.Tools {
		if t.Category == categoryID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Groups returns the categories that contain at least one tool, sorted by
// name. Tools pointing at a missing category are left out.
func (c *Catalog) Groups() []Group {
	var groups []Group
	for _, cat := range c.Categories {
		tools := c.ToolsIn(cat.ID)
		if len(tools) == 0 {
			continue
		}
		groups = append(groups, Group{Category: cat, Tools: tools})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Category.Name) < strings.ToLower(groups[j].Category.Name)
	})
	return groups
}

// Orphans returns tools whose category does not exist.
func (c *Catalog) Orphans() []Tool {
	var out []Tool
	for _, t := range c.Tools {
		if _, ok := c.Category(t.Category); !ok {
			out = append(out, t)
		}
	}
	return out
}

// Nodes converts the tools into selection graph input, in document order.
func (c *Catalog) Nodes() []selection.Node {
	nodes := make([]selection.Node, len(c.Tools))
	for i, t := range c.Tools {
		reqs := make([]selection.ToolID, len(t.Requires))
		for j, r := range t.Requires {
			reqs[j] = selection.ToolID(r)
		}
		nodes[i] = selection.Node{ID: selection.ToolID(t.ID), Requires: reqs}
	}
	return nodes
}

// Graph builds the selection graph for this catalog. It fails on duplicate
// tool ids and on requirement cycles.
func (c *Catalog) Graph() (*selection.Graph, error) {
	return selection.New(c.Nodes())
}

// Names maps tool ids to display names.
func (c *Catalog) Names(ids []selection.ToolID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := c.Tool(string(id)); ok {
			out = append(out, t.Name)
		} else {
			out = append(out, string(id))
		}
	}
	return out
}

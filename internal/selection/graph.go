package selection

import "fmt"

// ToolID is the opaque identifier of a tool.
type ToolID string

// Node declares a tool and the tools it requires, in order.
type Node struct {
	ID       ToolID
	Requires []ToolID
}

type node struct {
	index      int
	requires   []ToolID
	dependents []ToolID
}

// entry is the mutable selection state of one tool. A missing entry is
// equivalent to {manual: false, inducedBy: {}}.
type entry struct {
	manual    bool
	inducedBy map[ToolID]struct{}
}

func (e *entry) active() bool {
	return e != nil && (e.manual || len(e.inducedBy) > 0)
}

// Graph owns the requirement edges and the selection state of every tool.
type Graph struct {
	order   []ToolID
	nodes   map[ToolID]*node
	unknown map[ToolID][]ToolID
	state   map[ToolID]*entry
}

// New builds a graph and rejects requirement cycles with a
// *CyclicDependencyError. Requirements naming unknown tools are dropped and
// reported by Unknown.
func New(nodes []Node) (*Graph, error) {
	g, err := build(nodes)
	if err != nil {
		return nil, err
	}
	if path := g.findCycle(); path != nil {
		return nil, &CyclicDependencyError{Path: path}
	}
	return g, nil
}

// NewUnchecked builds a graph without rejecting cycles. Propagation still
// terminates on cyclic input, but members of a cycle keep each other induced
// until one of them is deselected directly.
func NewUnchecked(nodes []Node) (*Graph, error) {
	return build(nodes)
}

func build(nodes []Node) (*Graph, error) {
	g := &Graph{
		order:   make([]ToolID, 0, len(nodes)),
		nodes:   make(map[ToolID]*node, len(nodes)),
		unknown: make(map[ToolID][]ToolID),
		state:   make(map[ToolID]*entry),
	}
	for _, n := range nodes {
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, n.ID)
		}
		g.nodes[n.ID] = &node{index: len(g.order)}
		g.order = append(g.order, n.ID)
	}
	for _, n := range nodes {
		self := g.nodes[n.ID]
		seen := make(map[ToolID]bool, len(n.Requires))
		for _, dep := range n.Requires {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			target, ok := g.nodes[dep]
			if !ok {
				g.unknown[n.ID] = append(g.unknown[n.ID], dep)
				continue
			}
			self.requires = append(self.requires, dep)
			target.dependents = append(target.dependents, n.ID)
		}
	}
	return g, nil
}

// Known reports whether id was declared.
func (g *Graph) Known(id ToolID) bool {
	_, ok := g.nodes[id]
	return ok
}

// IDs returns every tool id in declaration order.
func (g *Graph) IDs() []ToolID {
	return append([]ToolID(nil), g.order...)
}

// Len returns the number of tools in the graph.
func (g *Graph) Len() int { return len(g.order) }

// Requires returns the known requirements of id, in declaration order.
func (g *Graph) Requires(id ToolID) []ToolID {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return append([]ToolID(nil), n.requires...)
}

// Dependents returns the tools that directly require id.
func (g *Graph) Dependents(id ToolID) []ToolID {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return append([]ToolID(nil), n.dependents...)
}

// Unknown returns, per tool, the requirements that named undeclared tools.
func (g *Graph) Unknown() map[ToolID][]ToolID {
	out := make(map[ToolID][]ToolID, len(g.unknown))
	for id, deps := range g.unknown {
		out[id] = append([]ToolID(nil), deps...)
	}
	return out
}

// IsSelected reports whether id is active.
func (g *Graph) IsSelected(id ToolID) bool {
	return g.state[id].active()
}

// IsManual reports whether the user selected id directly.
func (g *Graph) IsManual(id ToolID) bool {
	e := g.state[id]
	return e != nil && e.manual
}

// InducedBy returns the active tools currently pulling id in, in declaration
// order.
func (g *Graph) InducedBy(id ToolID) []ToolID {
	e := g.state[id]
	if e == nil || len(e.inducedBy) == 0 {
		return nil
	}
	out := make([]ToolID, 0, len(e.inducedBy))
	for _, other := range g.order {
		if _, ok := e.inducedBy[other]; ok {
			out = append(out, other)
		}
	}
	return out
}

// SelectedSet returns every active tool in declaration order.
func (g *Graph) SelectedSet() []ToolID {
	var out []ToolID
	for _, id := range g.order {
		if g.state[id].active() {
			out = append(out, id)
		}
	}
	return out
}

// ManualSet returns every directly selected tool in declaration order.
func (g *Graph) ManualSet() []ToolID {
	var out []ToolID
	for _, id := range g.order {
		if g.IsManual(id) {
			out = append(out, id)
		}
	}
	return out
}

// entry returns the state of id, creating it on first reference.
func (g *Graph) entry(id ToolID) *entry {
	e, ok := g.state[id]
	if !ok {
		e = &entry{inducedBy: make(map[ToolID]struct{})}
		g.state[id] = e
	}
	return e
}

package selection

// Reason explains why a tool flipped.
type Reason int

const (
	ReasonDirect   Reason = iota // the user toggled the tool itself
	ReasonRequired               // pulled in because Cause requires it
	ReasonReleased               // no selected tool requires it any more
	ReasonEvicted                // its requirement Cause became inactive
	ReasonCleared                // bulk clear
)

func (r Reason) String() string {
	switch r {
	case ReasonRequired:
		return "required"
	case ReasonReleased:
		return "released"
	case ReasonEvicted:
		return "evicted"
	case ReasonCleared:
		return "cleared"
	default:
		return "direct"
	}
}

// Change records one tool whose activation flipped.
type Change struct {
	ID     ToolID
	Active bool
	Reason Reason
	Cause  ToolID // the tool that triggered the flip; empty for direct and cleared
}

// Changes lists flips in the order they happened.
type Changes []Change

// IDs returns the ids of every flipped tool.
func (c Changes) IDs() []ToolID {
	out := make([]ToolID, len(c))
	for i, ch := range c {
		out[i] = ch.ID
	}
	return out
}

// Contains reports whether id flipped.
func (c Changes) Contains(id ToolID) bool {
	for _, ch := range c {
		if ch.ID == id {
			return true
		}
	}
	return false
}

// Select marks id as selected and pulls in everything it requires. direct
// sets the manual flag; an indirect call only propagates when id is already
// active. Select never deactivates a tool. Unknown ids are a no-op.
func (g *Graph) Select(id ToolID, direct bool) Changes {
	if !g.Known(id) {
		return nil
	}

	var changes Changes
	wasActive := g.IsSelected(id)
	if direct {
		g.entry(id).manual = true
	}
	if !g.IsSelected(id) {
		return nil
	}
	if !wasActive {
		changes = append(changes, Change{ID: id, Active: true, Reason: ReasonDirect})
	}

	// A tool is pushed only when it flips to active, so each tool is visited
	// at most once per call even on cyclic input.
	stack := []ToolID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, dep := range g.nodes[cur].requires {
			e := g.entry(dep)
			depWasActive := e.active()
			// Record the edge even when dep is already active so a
			// second inducer keeps it alive (diamond requirements).
			e.inducedBy[cur] = struct{}{}
			if depWasActive {
				continue
			}
			changes = append(changes, Change{ID: dep, Active: true, Reason: ReasonRequired, Cause: cur})
			stack = append(stack, dep)
		}
	}
	return changes
}

// Deselect clears the selection of id. A direct call is the user unchecking
// the tool: it becomes inactive even when other tools pull it in, and those
// tools are evicted. Requirements left without a justification are released
// and every active tool requiring a deactivated tool is evicted, transitively.
// An active tool is by definition justified, so an indirect call from outside
// the cascade changes nothing. Unknown ids are a no-op.
func (g *Graph) Deselect(id ToolID, direct bool) Changes {
	if !direct || !g.IsSelected(id) {
		return nil
	}
	g.force(id)

	changes := Changes{{ID: id, Active: false, Reason: ReasonDirect}}
	visited := map[ToolID]bool{id: true}
	queue := []ToolID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, dep := range g.nodes[cur].requires {
			e := g.state[dep]
			if e == nil {
				continue
			}
			delete(e.inducedBy, cur)
			if e.active() || visited[dep] {
				continue
			}
			visited[dep] = true
			changes = append(changes, Change{ID: dep, Active: false, Reason: ReasonReleased, Cause: cur})
			queue = append(queue, dep)
		}

		for _, dependent := range g.nodes[cur].dependents {
			if visited[dependent] || !g.IsSelected(dependent) {
				continue
			}
			visited[dependent] = true
			g.force(dependent)
			changes = append(changes, Change{ID: dependent, Active: false, Reason: ReasonEvicted, Cause: cur})
			queue = append(queue, dependent)
		}
	}
	return changes
}

// force makes id inactive regardless of its manual flag or inducers. The
// inducers all require id and are evicted by the caller's cascade.
func (g *Graph) force(id ToolID) {
	e := g.entry(id)
	e.manual = false
	for k := range e.inducedBy {
		delete(e.inducedBy, k)
	}
}

// Clear deselects everything at once and returns the tools that were active.
func (g *Graph) Clear() Changes {
	var changes Changes
	for _, id := range g.order {
		if g.IsSelected(id) {
			changes = append(changes, Change{ID: id, Active: false, Reason: ReasonCleared})
		}
	}
	g.state = make(map[ToolID]*entry)
	return changes
}

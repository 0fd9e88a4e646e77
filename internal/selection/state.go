package selection

// State is the activation state of a single tool.
type State int

const (
	Inactive      State = iota
	ActiveManual        // selected by the user only
	ActiveInduced       // pulled in by other tools only
	ActiveBoth          // selected by the user and pulled in
)

func (s State) String() string {
	switch s {
	case ActiveManual:
		return "manual"
	case ActiveInduced:
		return "induced"
	case ActiveBoth:
		return "manual+induced"
	default:
		return "inactive"
	}
}

// Active reports whether s is one of the active states.
func (s State) Active() bool { return s != Inactive }

// State returns the current state of id. Unknown ids are Inactive.
func (g *Graph) State(id ToolID) State {
	e := g.state[id]
	if e == nil {
		return Inactive
	}
	induced := len(e.inducedBy) > 0
	switch {
	case e.manual && induced:
		return ActiveBoth
	case e.manual:
		return ActiveManual
	case induced:
		return ActiveInduced
	default:
		return Inactive
	}
}

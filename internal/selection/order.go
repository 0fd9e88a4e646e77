package selection

import "container/heap"

// findCycle walks the graph depth-first in declaration order and returns one
// cycle as [v ... v], or nil when the graph is acyclic. The walk keeps its
// own stack so deep requirement chains cannot exhaust the goroutine stack.
func (g *Graph) findCycle() []ToolID {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[ToolID]int, len(g.order))
	parent := make(map[ToolID]ToolID, len(g.order))

	type frame struct {
		id   ToolID
		next int
	}

	for _, root := range g.order {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			reqs := g.nodes[top.id].requires
			if top.next >= len(reqs) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			v := reqs[top.next]
			top.next++

			switch color[v] {
			case white:
				color[v] = gray
				parent[v] = top.id
				stack = append(stack, frame{id: v})
			case gray:
				// Back edge top.id -> v: walk parents from top.id to v.
				rev := []ToolID{v}
				for cur := top.id; cur != v; cur = parent[cur] {
					rev = append(rev, cur)
				}
				rev = append(rev, v)
				path := make([]ToolID, len(rev))
				for i := range rev {
					path[i] = rev[len(rev)-1-i]
				}
				return path
			}
		}
	}
	return nil
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// InstallOrder sorts ids so every tool comes after the tools it requires.
// Ties keep declaration order. Unknown ids are dropped; tools caught in a
// cycle (only possible with NewUnchecked) are appended in declaration order.
func (g *Graph) InstallOrder(ids []ToolID) []ToolID {
	in := make(map[ToolID]bool, len(ids))
	for _, id := range ids {
		if g.Known(id) {
			in[id] = true
		}
	}

	indeg := make(map[ToolID]int, len(in))
	for id := range in {
		for _, dep := range g.nodes[id].requires {
			if in[dep] {
				indeg[id]++
			}
		}
	}

	ready := &intMinHeap{}
	for id := range in {
		if indeg[id] == 0 {
			heap.Push(ready, g.nodes[id].index)
		}
	}

	out := make([]ToolID, 0, len(in))
	placed := make(map[ToolID]bool, len(in))
	for ready.Len() > 0 {
		id := g.order[heap.Pop(ready).(int)]
		out = append(out, id)
		placed[id] = true
		for _, dependent := range g.nodes[id].dependents {
			if !in[dependent] {
				continue
			}
			indeg[dependent]--
			if indeg[dependent] == 0 {
				heap.Push(ready, g.nodes[dependent].index)
			}
		}
	}

	if len(out) < len(in) {
		for _, id := range g.order {
			if in[id] && !placed[id] {
				out = append(out, id)
			}
		}
	}
	return out
}

// Closure returns every tool id requires, directly or transitively, in
// breadth-first order. id itself is not included.
func (g *Graph) Closure(id ToolID) []ToolID {
	if !g.Known(id) {
		return nil
	}
	seen := map[ToolID]bool{id: true}
	var out []ToolID
	queue := []ToolID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range g.nodes[cur].requires {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			queue = append(queue, dep)
		}
	}
	return out
}

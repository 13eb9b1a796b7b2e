package workflow

import "github.com/dryflow/dryflow/pkg/logger"

var linearizeLog = logger.New("workflow:linearize")

// linearize orders the graph's nodes so every node follows everything it
// depends on (Kahn's algorithm). The ready queue is seeded and consumed
// in node insertion order, so the output is deterministic for a given
// input. Remaining edges after the queue drains mean a cycle: the error
// lists every unresolved edge so the author can locate it.
func (g *graph) linearize(jobName string) ([]*node, error) {
	remaining := make(map[string]int, len(g.order))
	var queue []string
	for _, id := range g.order {
		remaining[id] = len(g.nodes[id].deps)
		if remaining[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]*node, 0, len(g.order))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := g.nodes[id]
		order = append(order, n)

		for _, depID := range n.dependents {
			remaining[depID]--
			if remaining[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if len(order) < len(g.order) {
		emitted := make(map[string]bool, len(order))
		for _, n := range order {
			emitted[n.id] = true
		}
		var edges []Edge
		for _, id := range g.order {
			if emitted[id] {
				continue
			}
			for _, depID := range g.nodes[id].depOrder {
				if !emitted[depID] {
					edges = append(edges, Edge{From: id, To: depID})
				}
			}
		}
		return nil, &CycleError{Job: jobName, Edges: edges}
	}

	linearizeLog.Printf("Job %q: linearized %d nodes", jobName, len(order))
	return order, nil
}

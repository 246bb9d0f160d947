// Package depgraph holds the prerequisite relation between tasks as an
// adjacency mapping from successor to its prerequisites, and diagnoses
// dependency cycles before scheduling starts.
package depgraph

import (
	"go.uber.org/zap"

	"github.com/dfarias/sprinter/internal/domain"
)

// Graph is the resolved prerequisite relation. Edges referencing unknown
// tasks are dropped at build time.
type Graph struct {
	prereqs  map[string][]string
	selfLoop map[string]bool
}

// Build resolves raw successor->prerequisites edges against the known task
// set. Dangling references are dropped with a warning, duplicates are
// idempotent, and self-edges are recorded as cycles of one.
func Build(edges map[string][]string, known map[string]bool, logger *zap.Logger) *Graph {
	g := &Graph{
		prereqs:  make(map[string][]string),
		selfLoop: make(map[string]bool),
	}
	for succ, prereqs := range edges {
		if !known[succ] {
			logger.Warn("dropping dependency edges for unknown task",
				zap.String("task_id", succ))
			continue
		}
		seen := make(map[string]bool, len(prereqs))
		for _, pre := range prereqs {
			if pre == succ {
				g.selfLoop[succ] = true
				continue
			}
			if !known[pre] {
				logger.Warn("dropping dependency on unknown task",
					zap.String("task_id", succ),
					zap.String("depends_on", pre))
				continue
			}
			if seen[pre] {
				continue
			}
			seen[pre] = true
			g.prereqs[succ] = append(g.prereqs[succ], pre)
		}
		domain.SortTaskIDs(g.prereqs[succ])
	}
	return g
}

// Prereqs returns the sorted prerequisite ids of a task. Empty for tasks
// with no prerequisites.
func (g *Graph) Prereqs(id string) []string { return g.prereqs[id] }

// CycleMembers returns, in ascending task-id order, every task that sits
// on a dependency cycle: members of strongly-connected components larger
// than one, plus self-loops. The traversal is iterative so diagnosis stays
// total on adversarial inputs.
func (g *Graph) CycleMembers() []string {
	roots := make([]string, 0, len(g.prereqs))
	for id := range g.prereqs {
		roots = append(roots, id)
	}
	domain.SortTaskIDs(roots)

	index := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var members []string
	counter := 0

	type frame struct {
		node string
		next int
	}

	for _, root := range roots {
		if _, seen := index[root]; seen {
			continue
		}
		index[root] = counter
		lowlink[root] = counter
		counter++
		stack = append(stack, root)
		onStack[root] = true
		frames := []frame{{node: root}}

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			adj := g.prereqs[f.node]
			if f.next < len(adj) {
				w := adj[f.next]
				f.next++
				if _, seen := index[w]; !seen {
					index[w] = counter
					lowlink[w] = counter
					counter++
					stack = append(stack, w)
					onStack[w] = true
					frames = append(frames, frame{node: w})
				} else if onStack[w] && index[w] < lowlink[f.node] {
					lowlink[f.node] = index[w]
				}
				continue
			}

			node := f.node
			if lowlink[node] == index[node] {
				var scc []string
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == node {
						break
					}
				}
				if len(scc) > 1 || g.selfLoop[node] {
					members = append(members, scc...)
				}
			}
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := &frames[len(frames)-1]
				if lowlink[node] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[node]
				}
			}
		}
	}

	for id := range g.selfLoop {
		if _, seen := index[id]; !seen {
			members = append(members, id)
		}
	}
	domain.SortTaskIDs(members)
	return members
}

// Edges returns every resolved (successor, prerequisite) pair in
// deterministic order, for the report.
func (g *Graph) Edges() [][2]string {
	succs := make([]string, 0, len(g.prereqs))
	for id := range g.prereqs {
		succs = append(succs, id)
	}
	domain.SortTaskIDs(succs)
	var out [][2]string
	for _, s := range succs {
		for _, p := range g.prereqs[s] {
			out = append(out, [2]string{s, p})
		}
	}
	return out
}

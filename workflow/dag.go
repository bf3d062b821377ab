// Package workflow defines a workflow as a directed acyclic graph of named
// steps: a pure validation and ordering structure, not a mutable,
// status-tracking runtime graph — the executor package owns runtime status,
// this package only owns shape.
package workflow

import "sort"

// dag is the internal graph used to validate a Definition and compute its
// topological order. It carries no runtime status (pending/running/...)
// and no mutex — a Definition is built once, validated once, and is
// immutable thereafter; concurrent runtime state lives in the executor
// package instead.
type dag struct {
	nodeOrder []string
	edges     map[string][]string // nodeID -> its dependencies
	reverse   map[string][]string // nodeID -> nodes that depend on it
}

func newDAG() *dag {
	return &dag{
		edges:   make(map[string][]string),
		reverse: make(map[string][]string),
	}
}

func (d *dag) addNode(id string, dependencies []string) {
	if _, exists := d.edges[id]; !exists {
		d.nodeOrder = append(d.nodeOrder, id)
	}
	d.edges[id] = dependencies
}

func (d *dag) rebuildReverse() {
	d.reverse = make(map[string][]string, len(d.edges))
	for id := range d.edges {
		d.reverse[id] = nil
	}
	for id, deps := range d.edges {
		for _, dep := range deps {
			d.reverse[dep] = append(d.reverse[dep], id)
		}
	}
}

// colour is the three-state marker used for cycle detection: a node is
// either untouched (white), on the current DFS path (gray), or fully
// explored with no cycle found through it (black). A back-edge into a gray
// node is a cycle; an edge into a black node is safe to skip.
type colour int

const (
	white colour = iota
	gray
	black
)

// missingDependencies returns every (nodeID, missingDep) pair where a
// declared dependency does not name a node in the graph.
func (d *dag) missingDependencies() []missingDepPair {
	var missing []missingDepPair
	for _, id := range d.nodeOrder {
		for _, dep := range d.edges[id] {
			if _, ok := d.edges[dep]; !ok {
				missing = append(missing, missingDepPair{node: id, dependsOn: dep})
			}
		}
	}
	return missing
}

type missingDepPair struct {
	node      string
	dependsOn string
}

// findCycle runs an explicit three-coloring DFS over the dependency edges
// (node -> its dependencies) and returns the first cycle found as a slice
// of node IDs, or nil if the graph is acyclic. Recursion is avoided in
// favor of an explicit stack so a pathological, very deep dependency chain
// cannot blow the Go call stack.
func (d *dag) findCycle() []string {
	state := make(map[string]colour, len(d.nodeOrder))
	for _, id := range d.nodeOrder {
		state[id] = white
	}

	for _, start := range d.nodeOrder {
		if state[start] != white {
			continue
		}
		if cycle := d.dfsFrom(start, state); cycle != nil {
			return cycle
		}
	}
	return nil
}

type frame struct {
	node     string
	depIndex int
}

func (d *dag) dfsFrom(start string, state map[string]colour) []string {
	var stack []frame
	var path []string

	state[start] = gray
	path = append(path, start)
	stack = append(stack, frame{node: start, depIndex: 0})

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := d.edges[top.node]

		if top.depIndex >= len(deps) {
			state[top.node] = black
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
			continue
		}

		dep := deps[top.depIndex]
		top.depIndex++

		switch state[dep] {
		case white:
			state[dep] = gray
			path = append(path, dep)
			stack = append(stack, frame{node: dep, depIndex: 0})
		case gray:
			from := 0
			for i, id := range path {
				if id == dep {
					from = i
					break
				}
			}
			cycle := append([]string{}, path[from:]...)
			cycle = append(cycle, dep)
			return cycle
		case black:
			// already fully explored, no cycle through it
		}
	}
	return nil
}

// topologicalOrder implements Kahn's algorithm over the dependency edges.
// Ties are broken by step name (alphabetically) so the result is
// deterministic given the same steps and dependencies. Assumes the graph has already been validated
// acyclic and complete; callers must check findCycle/missingDependencies
// first.
func (d *dag) topologicalOrder() []string {
	d.rebuildReverse()

	inDegree := make(map[string]int, len(d.nodeOrder))
	for _, id := range d.nodeOrder {
		inDegree[id] = len(d.edges[id])
	}

	var queue []string
	for _, id := range d.nodeOrder {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		dependents := append([]string{}, d.reverse[current]...)
		sort.Strings(dependents)
		for _, dependent := range dependents {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	return result
}

// levels groups nodes by execution wave: level 0 has no dependencies,
// level N depends only on nodes in levels < N. This is what the executor
// walks to decide which steps can run concurrently.
func (d *dag) levels() [][]string {
	level := make(map[string]int, len(d.nodeOrder))
	order := d.topologicalOrder()

	for _, id := range order {
		maxDepLevel := -1
		for _, dep := range d.edges[id] {
			if level[dep] > maxDepLevel {
				maxDepLevel = level[dep]
			}
		}
		level[id] = maxDepLevel + 1
	}

	var waves [][]string
	for _, id := range order {
		l := level[id]
		for len(waves) <= l {
			waves = append(waves, nil)
		}
		waves[l] = append(waves[l], id)
	}
	return waves
}

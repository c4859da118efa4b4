// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed graph operations over string-keyed nodes:
// topological sorting, strongly connected components and cycle paths. It is
// used by the module graph to order modules for documentation and to detect
// dependency cycles between modules.
package dag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle contains the nodes left unordered, in insertion order. Every
		// cycle is among them, along with nodes that depend on a cycle.
		Cycle []string
	}

	// Graph is a directed graph. Nodes are identified by string keys and keep
	// their insertion order so every result is deterministic. An edge from A
	// to B means A must be ordered before B.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors in insertion order.
		adjacency map[string][]string
		// edgeSet deduplicates parallel edges.
		edgeSet map[[2]string]bool
		// nodes tracks all nodes in insertion order.
		nodes []string
		// position maps a node to its insertion index.
		position map[string]int
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among: %s", strings.Join(e.Cycle, ", "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		edgeSet:   make(map[[2]string]bool),
		position:  make(map[string]int),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.position[name]; ok {
		return
	}
	g.position[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to. Both nodes are implicitly added.
// Adding the same edge twice is a no-op.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if g.edgeSet[key] {
		return
	}
	g.edgeSet[key] = true
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// TopologicalSort returns a valid order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// Nodes at the same topological level appear in insertion order.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var remaining []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				remaining = append(remaining, node)
			}
		}
		return nil, &CycleError{Cycle: remaining}
	}

	return result, nil
}

// StronglyConnected returns every strongly connected component that contains
// a cycle: components of two or more nodes, and single nodes with a self
// edge. Members of a component are in insertion order, and components are
// ordered by their first member.
func (g *Graph) StronglyConnected() [][]string {
	t := tarjan{
		g:       g,
		index:   make(map[string]int, len(g.nodes)),
		lowlink: make(map[string]int, len(g.nodes)),
		onStack: make(map[string]bool, len(g.nodes)),
	}
	for _, node := range g.nodes {
		if _, visited := t.index[node]; !visited {
			t.connect(node)
		}
	}

	var out [][]string
	for _, comp := range t.components {
		if len(comp) == 1 && !g.edgeSet[[2]string{comp[0], comp[0]}] {
			continue
		}
		slices.SortFunc(comp, func(a, b string) int {
			return cmp.Compare(g.position[a], g.position[b])
		})
		out = append(out, comp)
	}
	slices.SortFunc(out, func(a, b []string) int {
		return cmp.Compare(g.position[a[0]], g.position[b[0]])
	})
	return out
}

// CyclePath returns the shortest walk that leaves start and returns to it,
// as [start, ..., start]. It returns nil when start is not on a cycle.
func (g *Graph) CyclePath(start string) []string {
	if _, ok := g.position[start]; !ok {
		return nil
	}
	parent := make(map[string]string)
	visited := map[string]bool{}
	queue := []string{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range g.adjacency[node] {
			if next == start {
				path := []string{start}
				for n := node; n != start; n = parent[n] {
					path = append(path, n)
				}
				path = append(path, start)
				// path was built backwards from the closing edge.
				slices.Reverse(path)
				return path
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = node
			queue = append(queue, next)
		}
	}
	return nil
}

// tarjan holds the state of Tarjan's strongly connected components algorithm.
type tarjan struct {
	g          *Graph
	counter    int
	index      map[string]int
	lowlink    map[string]int
	stack      []string
	onStack    map[string]bool
	components [][]string
}

func (t *tarjan) connect(node string) {
	t.index[node] = t.counter
	t.lowlink[node] = t.counter
	t.counter++
	t.stack = append(t.stack, node)
	t.onStack[node] = true

	for _, next := range t.g.adjacency[node] {
		if _, visited := t.index[next]; !visited {
			t.connect(next)
			t.lowlink[node] = min(t.lowlink[node], t.lowlink[next])
		} else if t.onStack[next] {
			t.lowlink[node] = min(t.lowlink[node], t.index[next])
		}
	}

	if t.lowlink[node] != t.index[node] {
		return
	}
	var comp []string
	for {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[top] = false
		comp = append(comp, top)
		if top == node {
			break
		}
	}
	t.components = append(t.components, comp)
}

// Package graph assembles resource nodes and relationship edges into a
// directed acyclic graph and computes a deterministic topological order.
// Nodes with no edge relationship are ordered by declaration index, so
// repeated compilations of the same source produce the same order.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marionette-lang/marionette/pkgs/registry"
	"github.com/marionette-lang/marionette/pkgs/resolver"
)

// Graph is the validated dependency graph over declared resources.
type Graph struct {
	nodes map[registry.Identity]*registry.Node
	order []*registry.Node // declaration order
	succ  map[registry.Identity][]registry.Identity
	topo  []registry.Identity
}

// Build validates the node and edge sets and computes the topological order.
// It fails with *CycleError if the edges do not form a DAG. Edge endpoints
// must name declared nodes; the resolver guarantees this, so a violation
// here is a plain error rather than a diagnostic.
func Build(nodes []*registry.Node, edges []resolver.Edge) (*Graph, error) {
	g := &Graph{
		nodes: make(map[registry.Identity]*registry.Node, len(nodes)),
		order: nodes,
		succ:  make(map[registry.Identity][]registry.Identity),
	}
	for _, n := range nodes {
		g.nodes[n.Identity] = n
	}

	// Adjacency, deduplicated: a pair related by both an order and a
	// notify edge still constrains ordering once.
	adj := make(map[registry.Identity]map[registry.Identity]bool)
	for _, e := range edges {
		if _, ok := g.nodes[e.Source]; !ok {
			return nil, fmt.Errorf("edge source %s is not a declared node", e.Source.String())
		}
		if _, ok := g.nodes[e.Target]; !ok {
			return nil, fmt.Errorf("edge target %s is not a declared node", e.Target.String())
		}
		if adj[e.Source] == nil {
			adj[e.Source] = make(map[registry.Identity]bool)
		}
		adj[e.Source][e.Target] = true
	}

	// Successor lists in declaration-index order keep traversal, cycle
	// witnesses and the topological sort reproducible.
	for src, targets := range adj {
		list := make([]registry.Identity, 0, len(targets))
		for tgt := range targets {
			list = append(list, tgt)
		}
		sort.Slice(list, func(i, j int) bool {
			return g.nodes[list[i]].Index < g.nodes[list[j]].Index
		})
		g.succ[src] = list
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, &CycleError{Cycle: cycle}
	}

	g.topo = g.sort()
	return g, nil
}

// TopoOrder returns the computed topological order: for every edge (s, t),
// s precedes t; ties break by ascending declaration index.
func (g *Graph) TopoOrder() []registry.Identity {
	return g.topo
}

// Successors returns the deduplicated outgoing neighbors of a node.
func (g *Graph) Successors(id registry.Identity) []registry.Identity {
	return g.succ[id]
}

// findCycle runs a depth-first search with a recursion stack and returns one
// witness cycle as an ordered identity sequence, nil if the graph is acyclic.
func (g *Graph) findCycle() []registry.Identity {
	const (
		white = iota // unvisited
		grey         // on the current recursion stack
		black        // fully explored
	)
	color := make(map[registry.Identity]int, len(g.nodes))
	var stack []registry.Identity

	var visit func(id registry.Identity) []registry.Identity
	visit = func(id registry.Identity) []registry.Identity {
		color[id] = grey
		stack = append(stack, id)

		for _, next := range g.succ[id] {
			switch color[next] {
			case grey:
				// Slice the stack from the first occurrence of next:
				// that suffix plus next again is the witness cycle.
				for i, on := range stack {
					if on == next {
						cycle := append([]registry.Identity{}, stack[i:]...)
						return append(cycle, next)
					}
				}
			case white:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	// Roots in declaration order so the same manifest always reports the
	// same witness.
	for _, n := range g.order {
		if color[n.Identity] == white {
			if cycle := visit(n.Identity); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// sort runs Kahn's algorithm, always draining the ready node with the lowest
// declaration index. Only called on a graph known to be acyclic.
func (g *Graph) sort() []registry.Identity {
	indegree := make(map[registry.Identity]int, len(g.nodes))
	for _, targets := range g.succ {
		for _, tgt := range targets {
			indegree[tgt]++
		}
	}

	ready := make([]*registry.Node, 0, len(g.order))
	for _, n := range g.order {
		if indegree[n.Identity] == 0 {
			ready = append(ready, n)
		}
	}

	topo := make([]registry.Identity, 0, len(g.order))
	for len(ready) > 0 {
		// Lowest declaration index first. Linear scan is fine at
		// manifest scale.
		min := 0
		for i, n := range ready {
			if n.Index < ready[min].Index {
				min = i
			}
		}
		n := ready[min]
		ready = append(ready[:min], ready[min+1:]...)
		topo = append(topo, n.Identity)

		for _, next := range g.succ[n.Identity] {
			indegree[next]--
			if indegree[next] == 0 {
				ready = append(ready, g.nodes[next])
			}
		}
	}
	return topo
}

// CycleError reports that the edge set is not a DAG, naming one witness
// cycle as an ordered identity sequence beginning and ending at the same
// node.
type CycleError struct {
	Cycle []registry.Identity
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		names[i] = id.String()
	}
	return "dependency cycle: " + strings.Join(names, " -> ")
}

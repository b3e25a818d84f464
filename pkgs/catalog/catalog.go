// Package catalog holds the compiler's output: the validated, immutable set
// of resource nodes and relationship edges plus a deterministic topological
// order. A catalog is handed read-only to the downstream applier, which
// executes resources in order and sends refresh signals along notify edges.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marionette-lang/marionette/pkgs/registry"
	"github.com/marionette-lang/marionette/pkgs/resolver"
)

// Catalog is the compiled form of one manifest.
type Catalog struct {
	nodes    []*registry.Node
	edges    []resolver.Edge
	order    []registry.Identity
	byID     map[registry.Identity]*registry.Node
	outgoing map[registry.Identity][]resolver.Edge
}

// New assembles a catalog from validated parts. Exact duplicate edges are
// dropped, first occurrence wins; everything else is stored as given.
func New(nodes []*registry.Node, edges []resolver.Edge, order []registry.Identity) *Catalog {
	c := &Catalog{
		nodes:    nodes,
		order:    order,
		byID:     make(map[registry.Identity]*registry.Node, len(nodes)),
		outgoing: make(map[registry.Identity][]resolver.Edge),
	}
	for _, n := range nodes {
		c.byID[n.Identity] = n
	}

	seen := make(map[resolver.Edge]bool, len(edges))
	for _, e := range edges {
		if seen[e] {
			continue
		}
		seen[e] = true
		c.edges = append(c.edges, e)
		c.outgoing[e.Source] = append(c.outgoing[e.Source], e)
	}

	for _, out := range c.outgoing {
		sort.Slice(out, func(i, j int) bool {
			ti, tj := c.byID[out[i].Target], c.byID[out[j].Target]
			if ti.Index != tj.Index {
				return ti.Index < tj.Index
			}
			return out[i].Kind < out[j].Kind
		})
	}
	return c
}

// Nodes returns the declared resources in declaration order. Read-only.
func (c *Catalog) Nodes() []*registry.Node { return c.nodes }

// Edges returns the deduplicated edge set. Read-only.
func (c *Catalog) Edges() []resolver.Edge { return c.edges }

// Order returns the topological order over node identities. Read-only.
func (c *Catalog) Order() []registry.Identity { return c.order }

// Node returns the declared node for an identity, nil if unknown.
func (c *Catalog) Node(id registry.Identity) *registry.Node { return c.byID[id] }

// Outgoing returns a node's outgoing edges, sorted by target declaration
// index. Read-only.
func (c *Catalog) Outgoing(id registry.Identity) []resolver.Edge { return c.outgoing[id] }

// Plan renders the execution plan listing: each resource in application
// order with its outgoing constraints.
func (c *Catalog) Plan() string {
	var b strings.Builder
	b.WriteString("# Execution plan:\n")
	for _, id := range c.order {
		fmt.Fprintf(&b, "# %s", id.String())
		for _, e := range c.outgoing[id] {
			op := "->"
			if e.Kind == resolver.Notify {
				op = "~>"
			}
			fmt.Fprintf(&b, " (%s %s)", op, e.Target.String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Dot renders the graph in Graphviz dot syntax, notify edges dashed.
func (c *Catalog) Dot() string {
	var b strings.Builder
	b.WriteString("digraph catalog {\n")
	for _, n := range c.nodes {
		fmt.Fprintf(&b, "    %q;\n", n.Identity.String())
	}
	for _, e := range c.edges {
		attrs := ""
		if e.Kind == resolver.Notify {
			attrs = ` [label="notify", style=dashed]`
		}
		fmt.Fprintf(&b, "    %q -> %q%s;\n", e.Source.String(), e.Target.String(), attrs)
	}
	b.WriteString("}\n")
	return b.String()
}

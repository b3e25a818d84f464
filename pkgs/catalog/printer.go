package catalog

import (
	"fmt"
	"strings"

	"github.com/marionette-lang/marionette/pkgs/registry"
	"github.com/marionette-lang/marionette/pkgs/resolver"
)

// Format pretty-prints the catalog back to manifest syntax: declarations in
// declaration order, then one chain statement per edge. Re-parsing the
// output compiles to an identical node and edge set.
//
// Type names print in their canonical key spelling, so the casing the author
// wrote is not preserved; canonical identity is.
func (c *Catalog) Format() string {
	var b strings.Builder

	for _, n := range c.nodes {
		b.WriteString(n.Identity.Type)
		b.WriteString(" { ")
		b.WriteString(n.Title.String())
		b.WriteString(":")
		if len(n.Attributes) == 0 {
			b.WriteString(" }\n")
			continue
		}
		b.WriteString("\n")
		for _, attr := range n.Attributes {
			fmt.Fprintf(&b, "  %s => %s,\n", attr.Name, attr.Value.String())
		}
		b.WriteString("}\n")
	}

	if len(c.edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range c.edges {
		op := "->"
		if e.Kind == resolver.Notify {
			op = "~>"
		}
		fmt.Fprintf(&b, "%s %s %s\n", c.reference(e.Source), op, c.reference(e.Target))
	}

	return b.String()
}

// reference renders an identity in reference syntax with a properly quoted
// structured title, e.g. Exec["/root/${scripts}/yo.sh"].
func (c *Catalog) reference(id registry.Identity) string {
	return fmt.Sprintf("%s[%s]", registry.DisplayType(id.Type), c.byID[id].Title.String())
}

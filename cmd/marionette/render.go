package main

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/marionette-lang/marionette/pkgs/catalog"
	"github.com/marionette-lang/marionette/pkgs/compiler"
	"github.com/marionette-lang/marionette/pkgs/registry"
)

// compileSource is the seam the tests drive; it is the library pipeline
// without any file handling.
func compileSource(source string) (*catalog.Catalog, error) {
	return compiler.Compile(source)
}

// render produces the chosen representation of a compiled catalog.
func render(c *catalog.Catalog, format string) (string, error) {
	switch format {
	case "plan":
		return c.Plan(), nil
	case "dot":
		return c.Dot(), nil
	case "json":
		data, err := c.MarshalJSON()
		if err != nil {
			return "", fmt.Errorf("encoding catalog: %w", err)
		}
		return string(data) + "\n", nil
	case "manifest":
		return c.Format(), nil
	case "table":
		return renderTable(c), nil
	default:
		return "", fmt.Errorf("unsupported format %q, use plan, dot, json, table, or manifest", format)
	}
}

// renderTable lists resources in application order with their attributes
// and outgoing constraint counts.
func renderTable(c *catalog.Catalog) string {
	var buf strings.Builder

	table := tablewriter.NewTable(&buf)
	table.Header("Order", "Type", "Title", "Attributes", "Edges")

	for i, id := range c.Order() {
		node := c.Node(id)

		attrs := make([]string, 0, len(node.Attributes))
		for _, attr := range node.Attributes {
			attrs = append(attrs, fmt.Sprintf("%s => %s", attr.Name, attr.Value.String()))
		}

		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			registry.DisplayType(id.Type),
			id.Title,
			strings.Join(attrs, ", "),
			fmt.Sprintf("%d", len(c.Outgoing(id))),
		})
	}

	_ = table.Render()
	return buf.String()
}

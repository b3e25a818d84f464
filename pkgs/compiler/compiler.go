// Package compiler runs the full pipeline: lex, parse, register
// declarations, resolve relationship chains, build the graph, emit the
// catalog. Compilation is a pure function of the source text; every call
// uses a fresh registry and graph, so independent manifests may be compiled
// concurrently by the caller without coordination.
package compiler

import (
	"github.com/marionette-lang/marionette/pkgs/catalog"
	"github.com/marionette-lang/marionette/pkgs/graph"
	"github.com/marionette-lang/marionette/pkgs/parser"
	"github.com/marionette-lang/marionette/pkgs/registry"
	"github.com/marionette-lang/marionette/pkgs/resolver"
)

// Compile turns manifest source into a validated catalog. On failure no
// partial catalog is returned; the error is one of *lexer.LexError,
// *parser.ParseError, *registry.DuplicateResourceError,
// *resolver.UnresolvedReferenceError, or *graph.CycleError, all carrying
// source positions where applicable.
func Compile(source string) (*catalog.Catalog, error) {
	manifest, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	// Register every declaration before resolving any reference, so chains
	// may name resources declared later in the manifest.
	reg := registry.New()
	for _, decl := range manifest.Declarations() {
		if _, err := reg.Declare(decl); err != nil {
			return nil, err
		}
	}

	edges, err := resolver.Resolve(reg, manifest.Chains())
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(reg.Nodes(), edges)
	if err != nil {
		return nil, err
	}

	return catalog.New(reg.Nodes(), edges, g.TopoOrder()), nil
}

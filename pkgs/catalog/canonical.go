package catalog

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/marionette-lang/marionette/pkgs/resolver"
)

// CanonicalCatalog is the intermediate form for deterministic hashing and
// transport. Resources stay in declaration order (that order is part of the
// catalog's meaning, it breaks topological ties); edges are sorted because
// the resolver's emission order is an artifact of chain layout, not
// semantics.
type CanonicalCatalog struct {
	Version   uint8
	Resources []CanonicalResource
	Edges     []CanonicalEdge
	Order     []string
}

// CanonicalResource is one declared resource in canonical form.
type CanonicalResource struct {
	Type       string
	Title      string
	Index      int
	Attributes []CanonicalAttribute
}

// CanonicalAttribute renders the value in manifest syntax; the printer and
// the parser agree on that form, so it is stable across recompilations.
type CanonicalAttribute struct {
	Name  string
	Value string
}

// CanonicalEdge is one relationship in canonical form.
type CanonicalEdge struct {
	Source string
	Target string
	Kind   uint8
}

// Canonicalize converts the catalog into its canonical form.
func (c *Catalog) Canonicalize() *CanonicalCatalog {
	cc := &CanonicalCatalog{
		Version:   1,
		Resources: make([]CanonicalResource, 0, len(c.nodes)),
		Edges:     make([]CanonicalEdge, 0, len(c.edges)),
		Order:     make([]string, 0, len(c.order)),
	}

	for _, n := range c.nodes {
		res := CanonicalResource{
			Type:  n.Identity.Type,
			Title: n.Identity.Title,
			Index: n.Index,
		}
		for _, attr := range n.Attributes {
			res.Attributes = append(res.Attributes, CanonicalAttribute{
				Name:  attr.Name,
				Value: attr.Value.String(),
			})
		}
		cc.Resources = append(cc.Resources, res)
	}

	for _, e := range c.edges {
		kind := uint8(0)
		if e.Kind == resolver.Notify {
			kind = 1
		}
		cc.Edges = append(cc.Edges, CanonicalEdge{
			Source: e.Source.String(),
			Target: e.Target.String(),
			Kind:   kind,
		})
	}
	sort.Slice(cc.Edges, func(i, j int) bool {
		a, b := cc.Edges[i], cc.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Kind < b.Kind
	})

	for _, id := range c.order {
		cc.Order = append(cc.Order, id.String())
	}

	return cc
}

// Hash computes the deterministic catalog hash: canonical form, canonical
// CBOR encoding, SHA-256. Two compilations of the same source produce the
// same hash.
func (c *Catalog) Hash() (string, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return "", fmt.Errorf("creating canonical CBOR encoder: %w", err)
	}

	data, err := encMode.Marshal(c.Canonicalize())
	if err != nil {
		return "", fmt.Errorf("encoding canonical catalog: %w", err)
	}

	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}

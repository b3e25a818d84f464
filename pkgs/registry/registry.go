// Package registry assigns declared resources their canonical identity and
// detects duplicate declarations. A Registry is an explicit per-compilation
// object; independent compilations never share one.
package registry

import (
	"fmt"
	"strings"

	"github.com/marionette-lang/marionette/pkgs/ast"
	"github.com/marionette-lang/marionette/pkgs/lexer"
)

// Identity is the canonical (type, title) pair of a resource. Type is the
// canonical key (lower-cased :: segments); Title is the unevaluated textual
// form of the title, with interpolation spans rendered as ${name}. Two titles
// with textually identical unresolved spans are the same identity: comparison
// is syntactic, never semantic.
type Identity struct {
	Type  string
	Title string
}

// String renders the identity in reference syntax with the display type,
// e.g. Foo::Bar[hello].
func (id Identity) String() string {
	return fmt.Sprintf("%s[%s]", DisplayType(id.Type), id.Title)
}

// CanonicalType lower-cases every ::-separated segment of a type name.
// foo::bar declared and Foo::Bar referenced resolve to the same key.
func CanonicalType(name string) string {
	return strings.ToLower(name)
}

// DisplayType renders a canonical type key with each segment upper-cased
// first, the conventional reference spelling (foo::bar -> Foo::Bar).
func DisplayType(key string) string {
	segments := strings.Split(key, "::")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		segments[i] = strings.ToUpper(seg[:1]) + seg[1:]
	}
	return strings.Join(segments, "::")
}

// IdentityOf computes the canonical identity of a declaration or reference.
func IdentityOf(typeName string, title ast.StringLit) Identity {
	return Identity{Type: CanonicalType(typeName), Title: title.Text()}
}

// Node is one declared resource. Nodes are created once during a compile
// pass and not mutated afterwards.
type Node struct {
	Identity   Identity
	Title      ast.StringLit   // structured title, interpolation unevaluated
	Attributes []ast.Attribute // insertion order preserved
	Index      int             // declaration order, tie-break only
	Pos        lexer.Position
}

// Registry maps canonical identities to declared nodes.
type Registry struct {
	nodes map[Identity]*Node
	order []*Node
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{nodes: make(map[Identity]*Node)}
}

// Declare registers a resource declaration. Declaring the same canonical
// identity twice fails with *DuplicateResourceError.
func (r *Registry) Declare(decl *ast.ResourceDecl) (*Node, error) {
	id := IdentityOf(decl.Type, decl.Title)

	if existing, ok := r.nodes[id]; ok {
		return nil, &DuplicateResourceError{
			Identity: id,
			First:    existing.Pos,
			Second:   decl.Pos,
		}
	}

	node := &Node{
		Identity:   id,
		Title:      decl.Title,
		Attributes: decl.Attributes,
		Index:      len(r.order),
		Pos:        decl.Pos,
	}
	r.nodes[id] = node
	r.order = append(r.order, node)
	return node, nil
}

// Lookup resolves a reference to a declared node. Callers defer this until
// all declarations are in, so forward references resolve.
func (r *Registry) Lookup(ref ast.ResourceRef) (*Node, bool) {
	node, ok := r.nodes[IdentityOf(ref.Type, ref.Title)]
	return node, ok
}

// Nodes returns all declared nodes in declaration order.
func (r *Registry) Nodes() []*Node {
	return r.order
}

// Identities returns the rendered identity of every declared node, in
// declaration order. Used for fuzzy suggestion candidates.
func (r *Registry) Identities() []string {
	ids := make([]string, len(r.order))
	for i, n := range r.order {
		ids[i] = n.Identity.String()
	}
	return ids
}

// DuplicateResourceError reports a (type, title) pair declared twice.
type DuplicateResourceError struct {
	Identity Identity
	First    lexer.Position
	Second   lexer.Position
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("duplicate resource %s at %d:%d, first declared at %d:%d",
		e.Identity.String(),
		e.Second.Line, e.Second.Column,
		e.First.Line, e.First.Column)
}

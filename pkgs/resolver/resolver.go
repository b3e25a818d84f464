// Package resolver walks relationship-chain statements and emits directed
// edges between declared resource identities. Each consecutive operand pair
// is processed independently: an array operand participates only in the
// edges of its immediately adjacent operators.
package resolver

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/marionette-lang/marionette/pkgs/ast"
	"github.com/marionette-lang/marionette/pkgs/lexer"
	"github.com/marionette-lang/marionette/pkgs/registry"
)

// EdgeKind distinguishes plain ordering constraints from refresh-carrying
// ones. A notify edge is also an ordering constraint.
type EdgeKind int

const (
	Order  EdgeKind = iota // must-apply-before
	Notify                 // order plus refresh signal on change
)

func (k EdgeKind) String() string {
	if k == Notify {
		return "notify"
	}
	return "order"
}

// Edge is one directed relationship between two declared identities.
type Edge struct {
	Source registry.Identity
	Target registry.Identity
	Kind   EdgeKind
}

func (e Edge) String() string {
	op := "->"
	if e.Kind == Notify {
		op = "~>"
	}
	return fmt.Sprintf("%s %s %s", e.Source.String(), op, e.Target.String())
}

// Resolve expands every chain statement into edges. All references are
// resolved through the registry; every unresolved reference across all
// chains is collected into a single *UnresolvedReferenceError so one
// compile surfaces them all.
func Resolve(reg *registry.Registry, chains []*ast.ChainStmt) ([]Edge, error) {
	var edges []Edge
	var unresolved []UnresolvedReference
	candidates := reg.Identities()

	resolveOperand := func(operand ast.ChainOperand) []registry.Identity {
		ids := make([]registry.Identity, 0, len(operand.Refs))
		for _, ref := range operand.Refs {
			node, ok := reg.Lookup(ref)
			if !ok {
				unresolved = append(unresolved, UnresolvedReference{
					Ref:        ref.String(),
					Pos:        ref.Pos,
					Suggestion: suggest(ref, candidates),
				})
				continue
			}
			ids = append(ids, node.Identity)
		}
		return ids
	}

	for _, chain := range chains {
		operands := make([][]registry.Identity, len(chain.Operands))
		for i, operand := range chain.Operands {
			operands[i] = resolveOperand(operand)
		}

		// Pairwise, left to right. Reversed operators flip the edge, not
		// the reading order.
		for i, op := range chain.Operators {
			sources, targets := operands[i], operands[i+1]
			if op.Reversed() {
				sources, targets = targets, sources
			}
			kind := Order
			if op.Notifies() {
				kind = Notify
			}
			for _, src := range sources {
				for _, tgt := range targets {
					edges = append(edges, Edge{Source: src, Target: tgt, Kind: kind})
				}
			}
		}
	}

	if len(unresolved) > 0 {
		return nil, &UnresolvedReferenceError{References: unresolved}
	}
	return edges, nil
}

// suggest returns the closest declared identity for a missing reference,
// or "" when nothing ranks.
func suggest(ref ast.ResourceRef, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	id := registry.IdentityOf(ref.Type, ref.Title)
	ranks := fuzzy.RankFindFold(id.String(), candidates)
	if len(ranks) > 0 {
		return ranks[0].Target
	}
	// Fall back to matching on the title alone; type typos rank poorly
	// against the full Type[title] form.
	ranks = fuzzy.RankFindFold(id.Title, candidates)
	if len(ranks) > 0 {
		return ranks[0].Target
	}
	return ""
}

// UnresolvedReference is one relationship operand naming an undeclared
// resource.
type UnresolvedReference struct {
	Ref        string // as written, e.g. Service['missing']
	Pos        lexer.Position
	Suggestion string // closest declared identity, "" if none
}

// UnresolvedReferenceError carries every undeclared reference found in one
// compilation.
type UnresolvedReferenceError struct {
	References []UnresolvedReference
}

func (e *UnresolvedReferenceError) Error() string {
	var b strings.Builder
	for i, ref := range e.References {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "unresolved reference %s at %d:%d", ref.Ref, ref.Pos.Line, ref.Pos.Column)
		if ref.Suggestion != "" {
			fmt.Fprintf(&b, " (did you mean %s?)", ref.Suggestion)
		}
	}
	return b.String()
}

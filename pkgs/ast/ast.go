// Package ast defines the syntax tree for a single manifest body: resource
// declarations, relationship-chain statements, and variable assignments.
// Nodes preserve concrete syntax closely enough that String() renders valid
// manifest source again.
package ast

import (
	"fmt"
	"strings"

	"github.com/marionette-lang/marionette/pkgs/lexer"
)

// Node represents any node in the AST
type Node interface {
	String() string
	Position() lexer.Position
}

// Manifest is the root node: one compilation unit, statements in source order.
type Manifest struct {
	Statements []Statement
}

func (m *Manifest) String() string {
	var parts []string
	for _, s := range m.Statements {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n")
}

func (m *Manifest) Position() lexer.Position {
	if len(m.Statements) > 0 {
		return m.Statements[0].Position()
	}
	return lexer.Position{Line: 1, Column: 1}
}

// Declarations returns the resource declarations in source order.
func (m *Manifest) Declarations() []*ResourceDecl {
	var decls []*ResourceDecl
	for _, s := range m.Statements {
		if d, ok := s.(*ResourceDecl); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// Chains returns the relationship-chain statements in source order.
func (m *Manifest) Chains() []*ChainStmt {
	var chains []*ChainStmt
	for _, s := range m.Statements {
		if c, ok := s.(*ChainStmt); ok {
			chains = append(chains, c)
		}
	}
	return chains
}

// Statement is a top-level manifest statement.
type Statement interface {
	Node
	statementNode()
}

// ResourceDecl declares one resource: `type { 'title': attr => value, }`.
type ResourceDecl struct {
	Type       string // type name as written, canonicalized at resolution time
	Title      StringLit
	Attributes []Attribute // insertion order preserved
	Pos        lexer.Position
}

func (r *ResourceDecl) statementNode() {}

func (r *ResourceDecl) Position() lexer.Position { return r.Pos }

func (r *ResourceDecl) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s { %s:", r.Type, r.Title.String())
	if len(r.Attributes) == 0 {
		b.WriteString(" }")
		return b.String()
	}
	b.WriteString("\n")
	for _, attr := range r.Attributes {
		fmt.Fprintf(&b, "  %s => %s,\n", attr.Name, attr.Value.String())
	}
	b.WriteString("}")
	return b.String()
}

// Attribute is one `name => value` pair inside a resource declaration.
type Attribute struct {
	Name  string
	Value Value
	Pos   lexer.Position
}

// Value is an attribute value: a string literal, a bare word, or an array.
type Value interface {
	Node
	valueNode()
}

// StringLit is a quoted string decomposed into ordered segments. A string
// without interpolation holds a single literal segment.
type StringLit struct {
	Segments []lexer.Segment
	Pos      lexer.Position
}

func (s StringLit) valueNode() {}

func (s StringLit) Position() lexer.Position { return s.Pos }

// Interpolated reports whether any segment is a variable reference.
func (s StringLit) Interpolated() bool {
	for _, seg := range s.Segments {
		if seg.Kind == lexer.SegVariable {
			return true
		}
	}
	return false
}

// Text renders the unevaluated form: literal spans verbatim, variable spans
// as ${name}. Identity comparison uses this form.
func (s StringLit) Text() string {
	var b strings.Builder
	for _, seg := range s.Segments {
		b.WriteString(seg.String())
	}
	return b.String()
}

// String renders the literal back to manifest syntax: single quotes for a
// plain string, double quotes with ${name} spans otherwise.
func (s StringLit) String() string {
	if !s.Interpolated() {
		return "'" + escapeQuoted(s.Text(), '\'') + "'"
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, seg := range s.Segments {
		if seg.Kind == lexer.SegVariable {
			b.WriteString("${" + seg.Text + "}")
		} else {
			b.WriteString(escapeQuoted(seg.Text, '"'))
		}
	}
	b.WriteByte('"')
	return b.String()
}

// BareWord is an unquoted enumeration word such as running or directory.
type BareWord struct {
	Word string
	Pos  lexer.Position
}

func (w BareWord) valueNode() {}

func (w BareWord) Position() lexer.Position { return w.Pos }

func (w BareWord) String() string { return w.Word }

// Array is a bracketed list of values for multi-valued attributes.
type Array struct {
	Values []Value
	Pos    lexer.Position
}

func (a Array) valueNode() {}

func (a Array) Position() lexer.Position { return a.Pos }

func (a Array) String() string {
	parts := make([]string, len(a.Values))
	for i, v := range a.Values {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// VariableAssign is a top-level `$name = value` statement. The value is kept
// unevaluated; resolving it belongs to the external evaluator.
type VariableAssign struct {
	Name  string
	Value Value
	Pos   lexer.Position
}

func (v *VariableAssign) statementNode() {}

func (v *VariableAssign) Position() lexer.Position { return v.Pos }

func (v *VariableAssign) String() string {
	return fmt.Sprintf("$%s = %s", v.Name, v.Value.String())
}

// ResourceRef is a reference expression: `Type['title']`.
type ResourceRef struct {
	Type  string // as written, case preserved
	Title StringLit
	Pos   lexer.Position
}

func (r ResourceRef) Position() lexer.Position { return r.Pos }

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s[%s]", r.Type, r.Title.String())
}

// ChainOperand is one side of a chain operator: a single reference or a
// bracketed reference array.
type ChainOperand struct {
	Refs  []ResourceRef
	Array bool // written with brackets, even if it holds one element
	Pos   lexer.Position
}

func (o ChainOperand) Position() lexer.Position { return o.Pos }

func (o ChainOperand) String() string {
	if !o.Array {
		return o.Refs[0].String()
	}
	parts := make([]string, len(o.Refs))
	for i, r := range o.Refs {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ChainOp is one of the four relationship operators.
type ChainOp int

const (
	OpBefore    ChainOp = iota // ->
	OpNotify                   // ~>
	OpRequire                  // <-
	OpSubscribe                // <~
)

func (op ChainOp) String() string {
	switch op {
	case OpBefore:
		return "->"
	case OpNotify:
		return "~>"
	case OpRequire:
		return "<-"
	case OpSubscribe:
		return "<~"
	default:
		return "?"
	}
}

// Reversed reports whether the operator points right-to-left: the produced
// edge runs from the right operand to the left one.
func (op ChainOp) Reversed() bool {
	return op == OpRequire || op == OpSubscribe
}

// Notifies reports whether the operator carries a refresh signal in addition
// to its ordering constraint.
func (op ChainOp) Notifies() bool {
	return op == OpNotify || op == OpSubscribe
}

// ChainStmt is a relationship chain: operands joined left to right by
// operators, len(Operators) == len(Operands)-1.
type ChainStmt struct {
	Operands  []ChainOperand
	Operators []ChainOp
	Pos       lexer.Position
}

func (c *ChainStmt) statementNode() {}

func (c *ChainStmt) Position() lexer.Position { return c.Pos }

func (c *ChainStmt) String() string {
	var b strings.Builder
	for i, operand := range c.Operands {
		if i > 0 {
			fmt.Fprintf(&b, " %s ", c.Operators[i-1].String())
		}
		b.WriteString(operand.String())
	}
	return b.String()
}

// escapeQuoted escapes backslashes and the active quote character.
func escapeQuoted(s string, quote byte) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, string(quote), `\`+string(quote))
}

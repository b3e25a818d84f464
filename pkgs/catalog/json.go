package catalog

import (
	"github.com/goccy/go-json"

	"github.com/marionette-lang/marionette/pkgs/ast"
	"github.com/marionette-lang/marionette/pkgs/lexer"
)

// jsonCatalog is the wire shape consumed by remote appliers and the
// variable evaluator. Interpolated strings travel as ordered segment lists
// so the evaluator can substitute without re-parsing.
type jsonCatalog struct {
	Resources []jsonResource `json:"resources"`
	Edges     []jsonEdge     `json:"edges"`
	Order     []string       `json:"order"`
}

type jsonResource struct {
	Type       string          `json:"type"`
	Title      string          `json:"title"`
	TitleSpans []jsonSegment   `json:"title_spans,omitempty"`
	Index      int             `json:"index"`
	Attributes []jsonAttribute `json:"attributes,omitempty"`
}

type jsonAttribute struct {
	Name  string    `json:"name"`
	Value jsonValue `json:"value"`
}

type jsonValue struct {
	Kind     string        `json:"kind"` // string, word, array
	Text     string        `json:"text,omitempty"`
	Segments []jsonSegment `json:"segments,omitempty"`
	Values   []jsonValue   `json:"values,omitempty"`
}

type jsonSegment struct {
	Literal  string `json:"literal,omitempty"`
	Variable string `json:"variable,omitempty"`
}

type jsonEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

// MarshalJSON renders the catalog for transport.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	out := jsonCatalog{
		Resources: make([]jsonResource, 0, len(c.nodes)),
		Edges:     make([]jsonEdge, 0, len(c.edges)),
		Order:     make([]string, 0, len(c.order)),
	}

	for _, n := range c.nodes {
		res := jsonResource{
			Type:  n.Identity.Type,
			Title: n.Identity.Title,
			Index: n.Index,
		}
		if n.Title.Interpolated() {
			res.TitleSpans = segmentsJSON(n.Title.Segments)
		}
		for _, attr := range n.Attributes {
			res.Attributes = append(res.Attributes, jsonAttribute{
				Name:  attr.Name,
				Value: valueJSON(attr.Value),
			})
		}
		out.Resources = append(out.Resources, res)
	}

	for _, e := range c.edges {
		out.Edges = append(out.Edges, jsonEdge{
			Source: e.Source.String(),
			Target: e.Target.String(),
			Kind:   e.Kind.String(),
		})
	}

	for _, id := range c.order {
		out.Order = append(out.Order, id.String())
	}

	return json.Marshal(out)
}

func valueJSON(v ast.Value) jsonValue {
	switch val := v.(type) {
	case ast.StringLit:
		out := jsonValue{Kind: "string", Text: val.Text()}
		if val.Interpolated() {
			out.Segments = segmentsJSON(val.Segments)
		}
		return out
	case ast.BareWord:
		return jsonValue{Kind: "word", Text: val.Word}
	case ast.Array:
		out := jsonValue{Kind: "array", Values: make([]jsonValue, 0, len(val.Values))}
		for _, elem := range val.Values {
			out.Values = append(out.Values, valueJSON(elem))
		}
		return out
	default:
		return jsonValue{Kind: "string", Text: v.String()}
	}
}

func segmentsJSON(segments []lexer.Segment) []jsonSegment {
	out := make([]jsonSegment, len(segments))
	for i, seg := range segments {
		if seg.Kind == lexer.SegVariable {
			out[i] = jsonSegment{Variable: seg.Text}
		} else {
			out[i] = jsonSegment{Literal: seg.Text}
		}
	}
	return out
}
